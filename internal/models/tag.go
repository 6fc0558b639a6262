// Package models defines the domain types for linkshelf.
package models

// Tag is one record of the controlled tag vocabulary.
type Tag struct {
	Name    string   `yaml:"name" json:"name"`
	Desc    string   `yaml:"desc,omitempty" json:"desc,omitempty"`
	Parents []string `yaml:"parents,omitempty" json:"parents,omitempty"`
	Img     string   `yaml:"img,omitempty" json:"img,omitempty"`
}
