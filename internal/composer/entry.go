package composer

import (
	"fmt"
	"slices"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/starford/linkshelf/internal/models"
	"github.com/starford/linkshelf/internal/opengraph"
	"github.com/starford/linkshelf/internal/vocabulary"
)

// Answers holds what the user confirmed at the prompts.
type Answers struct {
	URL      string
	Title    string
	ImageURL string
	Tags     []string
	Path     string
}

// BuildEntry turns answers and scraped metadata into a validated entry.
// The body is the page description, or models.DefaultBody.
func BuildEntry(a Answers, og *opengraph.Result, vocab *vocabulary.Vocabulary, folders []string) (*models.Entry, error) {
	e := &models.Entry{
		Frontmatter: models.Frontmatter{
			Title:    strings.TrimSpace(a.Title),
			URL:      strings.TrimSpace(a.URL),
			ImageURL: strings.TrimSpace(a.ImageURL),
			Tags:     append([]string{}, a.Tags...),
			Path:     strings.TrimSpace(a.Path),
		},
		Body: models.DefaultBody,
	}
	if og != nil && strings.TrimSpace(og.Description) != "" {
		e.Body = strings.TrimSpace(og.Description)
	}

	fm := &e.Frontmatter
	err := validation.ValidateStruct(fm,
		validation.Field(&fm.Title, validation.Required),
		validation.Field(&fm.URL, validation.Required, is.URL),
		validation.Field(&fm.ImageURL, validation.When(!strings.HasPrefix(fm.ImageURL, "data:"), is.URL)),
		validation.Field(&fm.Tags, validation.Each(validation.In(toAny(vocab.Names())...))),
		validation.Field(&fm.Path, validation.In(toAny(folders)...)),
	)
	if err != nil {
		return nil, fmt.Errorf("composer: invalid entry: %w", err)
	}
	return e, nil
}

// SuggestFolder returns the first folder named after a selected tag or
// one of its ancestors, checking tags in selection order.
func SuggestFolder(tags, folders []string, vocab *vocabulary.Vocabulary) string {
	for _, t := range tags {
		candidates := append([]string{t}, vocab.Ancestors(t)...)
		for _, c := range candidates {
			if slices.Contains(folders, c) {
				return c
			}
		}
	}
	return ""
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
