// Package apperr holds the sentinel errors shared across linkshelf packages.
package apperr

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrAlreadyExists     = errors.New("already exists")
	ErrInvalidVocabulary = errors.New("invalid vocabulary")
	ErrNoImage           = errors.New("no image url")
	ErrUnknownType       = errors.New("unknown file type")
)
