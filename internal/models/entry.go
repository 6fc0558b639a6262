package models

// DefaultBody is written when no description could be scraped for an entry.
const DefaultBody = "No description"

// Frontmatter is the YAML block at the top of an entry file.
// Field order is the serialization order.
type Frontmatter struct {
	Title    string   `yaml:"title" json:"title"`
	URL      string   `yaml:"url" json:"url"`
	ImageURL string   `yaml:"imageUrl" json:"imageUrl"`
	Tags     []string `yaml:"tags" json:"tags"`
	Path     string   `yaml:"path,omitempty" json:"path,omitempty"`
}

// Entry is a bookmarked link: frontmatter plus free-text body.
type Entry struct {
	Frontmatter
	Body string `yaml:"-" json:"body"`
}

// EntryFile locates an entry on disk relative to the entries root.
type EntryFile struct {
	Path     string `json:"path"`
	Checksum string `json:"checksum"`
}
