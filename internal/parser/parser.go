// Package parser reads and writes entry files: YAML frontmatter between
// "---" delimiters followed by a free-text body.
package parser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"

	"github.com/starford/linkshelf/internal/models"
)

const delim = "---"

// yamlOnly restricts detection to "---" blocks decoded with yaml.v3.
var yamlOnly = frontmatter.NewFormat(delim, delim, yaml.Unmarshal)

// Parse decodes an entry file. Content without a frontmatter block yields an
// entry with empty frontmatter and the whole content as body.
func Parse(data []byte) (*models.Entry, error) {
	var fm models.Frontmatter
	rest, err := frontmatter.Parse(bytes.NewReader(data), &fm, yamlOnly)
	if err != nil {
		return nil, fmt.Errorf("parser: frontmatter: %w", err)
	}
	return &models.Entry{
		Frontmatter: fm,
		Body:        strings.Trim(string(rest), "\r\n"),
	}, nil
}

// Render encodes e as "---\n<yaml>---\n\n<body>\n". An empty body is
// replaced with models.DefaultBody.
func Render(e *models.Entry) ([]byte, error) {
	fm := e.Frontmatter
	if fm.Tags == nil {
		fm.Tags = []string{}
	}

	var buf bytes.Buffer
	buf.WriteString(delim + "\n")

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return nil, fmt.Errorf("parser: encode frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("parser: encode frontmatter: %w", err)
	}

	body := strings.TrimRight(e.Body, "\r\n")
	if strings.TrimSpace(body) == "" {
		body = models.DefaultBody
	}
	buf.WriteString(delim + "\n\n")
	buf.WriteString(body)
	buf.WriteString("\n")
	return buf.Bytes(), nil
}
