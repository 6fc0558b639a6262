// Package storage defines the entries-directory file-system abstraction.
package storage

import "github.com/starford/linkshelf/internal/models"

// Provider is the interface for entries-directory file operations.
// All paths are relative to the entries root.
type Provider interface {
	// List returns every .md file under dir, sorted by path.
	List(dir string) ([]models.EntryFile, error)
	// Dirs returns the names of the first-level subfolders of the root.
	Dirs() ([]string, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Exists reports whether a file exists at path.
	Exists(path string) (bool, error)
	// Write atomically writes content to path, creating parent directories.
	Write(path string, content []byte) error
}
