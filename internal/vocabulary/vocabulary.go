// Package vocabulary loads the controlled tag vocabulary and checks that its
// parent references form a consistent hierarchy.
package vocabulary

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/starford/linkshelf/internal/apperr"
	"github.com/starford/linkshelf/internal/models"
)

// Vocabulary is the immutable, loaded tag dictionary.
type Vocabulary struct {
	tags  []models.Tag
	index map[string]int
}

// Load reads and decodes the vocabulary file at path.
func Load(path string) (*Vocabulary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("vocabulary: open %s: %w", path, err)
	}
	defer f.Close()

	v, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("vocabulary: %s: %w", path, err)
	}
	return v, nil
}

// Decode parses a YAML sequence of tags. Unknown keys, empty names and
// duplicate names are rejected.
func Decode(r io.Reader) (*Vocabulary, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var tags []models.Tag
	if err := dec.Decode(&tags); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", apperr.ErrInvalidVocabulary)
		}
		return nil, fmt.Errorf("%w: %v", apperr.ErrInvalidVocabulary, err)
	}
	return New(tags)
}

// New builds a Vocabulary from already decoded tags.
func New(tags []models.Tag) (*Vocabulary, error) {
	v := &Vocabulary{
		tags:  make([]models.Tag, len(tags)),
		index: make(map[string]int, len(tags)),
	}
	for i, t := range tags {
		t.Parents = append([]string(nil), t.Parents...)
		if err := validateTag(&t); err != nil {
			return nil, fmt.Errorf("%w: tag #%d: %v", apperr.ErrInvalidVocabulary, i+1, err)
		}
		if _, dup := v.index[t.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate tag %q", apperr.ErrInvalidVocabulary, t.Name)
		}
		v.tags[i] = t
		v.index[t.Name] = i
	}
	return v, nil
}

func validateTag(t *models.Tag) error {
	t.Name = strings.TrimSpace(t.Name)
	for i, p := range t.Parents {
		t.Parents[i] = strings.TrimSpace(p)
	}
	return validation.ValidateStruct(t,
		validation.Field(&t.Name, validation.Required),
		validation.Field(&t.Parents, validation.Each(validation.Required)),
	)
}

// Tags returns a copy of the tags in file order.
func (v *Vocabulary) Tags() []models.Tag {
	out := make([]models.Tag, len(v.tags))
	for i, t := range v.tags {
		t.Parents = append([]string(nil), t.Parents...)
		out[i] = t
	}
	return out
}

// Names returns tag names in file order.
func (v *Vocabulary) Names() []string {
	out := make([]string, len(v.tags))
	for i, t := range v.tags {
		out[i] = t.Name
	}
	return out
}

// Len returns the number of tags.
func (v *Vocabulary) Len() int {
	return len(v.tags)
}

// Has reports whether name is a known tag.
func (v *Vocabulary) Has(name string) bool {
	_, ok := v.index[name]
	return ok
}

// Lookup returns the tag called name.
func (v *Vocabulary) Lookup(name string) (models.Tag, bool) {
	i, ok := v.index[name]
	if !ok {
		return models.Tag{}, false
	}
	return v.tags[i], true
}

// Ancestors returns every known ancestor of name, nearest first.
// Unknown parents are skipped and cycles terminate.
func (v *Vocabulary) Ancestors(name string) []string {
	seen := map[string]struct{}{name: {}}
	var out []string
	queue := []string{name}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		t, ok := v.Lookup(cur)
		if !ok {
			continue
		}
		for _, p := range t.Parents {
			if _, dup := seen[p]; dup || !v.Has(p) {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, p)
			queue = append(queue, p)
		}
	}
	return out
}
