package internal

import (
	"io"

	"github.com/starford/linkshelf/internal/composer"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config  *Config
	in      io.Reader
	out     io.Writer
	logOut  io.Writer
	answers composer.AnswerProvider
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithIO sets the streams used for command input and output.
// Logs are written to logOut.
func WithIO(in io.Reader, out, logOut io.Writer) Option {
	return func(a *application) {
		a.in = in
		a.out = out
		a.logOut = logOut
	}
}

// WithAnswers replaces the interactive terminal used by compose.
func WithAnswers(p composer.AnswerProvider) Option {
	return func(a *application) {
		a.answers = p
	}
}
