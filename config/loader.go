package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// DotenvFile is the environment file loaded before config expansion.
const DotenvFile = ".env"

// Loader handles configuration loading with environment layering.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a new configuration loader.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load reads the config at path on top of the defaults. A .env file in the
// working directory is loaded first so ${VAR} references in the config file
// can resolve against it; variables already set in the environment win.
func (l *Loader) Load(path string) (*Config, error) {
	if err := godotenv.Load(DotenvFile); err == nil {
		l.logger.Debug("Loaded environment file", slog.String("path", DotenvFile))
	} else if !os.IsNotExist(err) {
		l.logger.Warn("Failed to load environment file", slog.String("path", DotenvFile), slog.String("error", err.Error()))
	}

	if path == "" {
		config := DefaultConfig()
		if err := config.Validate(); err != nil {
			return nil, err
		}
		l.logger.Debug("No config file given, using defaults")
		return config, nil
	}

	config, err := LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("Loaded config", slog.String("path", path))
	return config, nil
}
