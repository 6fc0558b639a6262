package internal

import (
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/starford/linkshelf/internal/composer"
)

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config represents the application configuration.
type Config struct {
	App        ApplicationConfig `yaml:"app"`
	Vocabulary VocabularyConfig  `yaml:"vocabulary"`
	Entries    EntriesConfig     `yaml:"entries"`
	Fetch      FetchConfig       `yaml:"fetch"`
	Images     ImagesConfig      `yaml:"images"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Vocabulary.Validate(); err != nil {
		return err
	}
	if err := c.Entries.Validate(); err != nil {
		return err
	}
	if err := c.Fetch.Validate(); err != nil {
		return err
	}
	return c.Images.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel  slog.Level `yaml:"log_level"`
	LogFormat string     `yaml:"log_format"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	if c.LogFormat == "" {
		c.LogFormat = LogFormatText
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.LogFormat, validation.In(LogFormatText, LogFormatJSON)),
	)
}

// VocabularyConfig locates the tag vocabulary.
type VocabularyConfig struct {
	Path        string `yaml:"path"`
	CheckCycles bool   `yaml:"check_cycles"`
}

// Validate validates the vocabulary configuration.
func (c *VocabularyConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// EntriesConfig holds the entries directory settings.
//
// Subfolders enables the folder prompt when composing. Overwrite lets a new
// entry replace an existing file with the same name.
type EntriesConfig struct {
	Root       string `yaml:"root"`
	Subfolders bool   `yaml:"subfolders"`
	Overwrite  bool   `yaml:"overwrite"`
	DefaultURL string `yaml:"default_url"`
}

// Validate validates the entries configuration.
func (c *EntriesConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Root, validation.Required),
		validation.Field(&c.DefaultURL, is.URL),
	)
}

// FetchConfig bounds outgoing HTTP requests for pages and images.
type FetchConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	MaxBytes     int64         `yaml:"max_bytes"`
	UserAgent    string        `yaml:"user_agent"`
	BlockPrivate bool          `yaml:"block_private"`
}

// Validate validates the fetch configuration.
func (c *FetchConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Timeout, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.MaxBytes, validation.Required, validation.Min(int64(1024))),
	)
}

// ImagesConfig holds image cache settings.
type ImagesConfig struct {
	Concurrency int `yaml:"concurrency"`
}

// Validate validates the image cache configuration.
func (c *ImagesConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Concurrency, validation.Required, validation.Min(1), validation.Max(64)),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel:  slog.LevelInfo,
			LogFormat: LogFormatText,
		},
		Vocabulary: VocabularyConfig{
			Path: "./tags.yaml",
		},
		Entries: EntriesConfig{
			Root:       "./entries",
			Subfolders: true,
			DefaultURL: composer.DefaultURL,
		},
		Fetch: FetchConfig{
			Timeout:   15 * time.Second,
			MaxBytes:  10 << 20,
			UserAgent: "linkshelf/1.0 (+https://ogp.me)",
		},
		Images: ImagesConfig{
			Concurrency: 4,
		},
	}
}
