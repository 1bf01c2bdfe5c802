package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
)

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return errors.Wrap(err, "parse env")
	}
	return nil
}

// Host is the environment configuration of the demo host.
type Host struct {
	// File is an optional document to open. Files ending in .md are read as
	// Markdown, anything else as markup.
	File        string        `env:"CLAUSEKIT_FILE"`
	LogLevel    string        `env:"CLAUSEKIT_LOG_LEVEL" envDefault:"error"`
	ImageRoot   string        `env:"CLAUSEKIT_IMAGE_ROOT" envDefault:"."`
	HTTPTimeout time.Duration `env:"CLAUSEKIT_HTTP_TIMEOUT" envDefault:"10s"`
	SuggestChar string        `env:"CLAUSEKIT_SUGGEST_CHAR" envDefault:"/"`
	StartOfLine bool          `env:"CLAUSEKIT_SUGGEST_START_OF_LINE"`
	Minify      bool          `env:"CLAUSEKIT_MINIFY"`
	ReadOnly    bool          `env:"CLAUSEKIT_READ_ONLY"`
}

// LoadHost reads Host from the environment.
func LoadHost() (Host, error) {
	var h Host
	if err := ParseEnv(&h); err != nil {
		return Host{}, err
	}
	if h.HTTPTimeout <= 0 {
		return Host{}, errors.Errorf("CLAUSEKIT_HTTP_TIMEOUT must be positive, got %s", h.HTTPTimeout)
	}
	return h, nil
}
