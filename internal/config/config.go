// Package config holds the configuration of a nightcap process.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the configuration of a nightcap process.
type Config struct {
	Engine string `yaml:"engine"` // dictionary engine, see triplestore.NewEngine
	Path   string `yaml:"path"`   // directory for disk-based engines

	Listen      string `yaml:"listen"`       // address of the http server
	DebugListen string `yaml:"debug_listen"` // address of the pprof server, empty to disable
	Repository  string `yaml:"repository"`   // repository id served

	GCInterval     time.Duration `yaml:"gc_interval"`     // interval between garbage collection passes
	CommitInterval int           `yaml:"commit_interval"` // statements per commit when loading files

	LogLevel string `yaml:"log_level"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Engine:         "memory",
		Listen:         "localhost:8080",
		Repository:     "mem-rdf",
		GCInterval:     30 * time.Second,
		CommitInterval: 10_000,
		LogLevel:       "info",
	}
}

// Load reads the configuration from the YAML file at path.
// Values missing from the file keep their defaults.
func Load(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// Parse is like Load, but reads from r.
func Parse(r io.Reader) (Config, error) {
	config := Default()

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

var (
	errRepository     = errors.New("repository must not be empty")
	errGCInterval     = errors.New("gc_interval must be positive")
	errCommitInterval = errors.New("commit_interval must be positive")
)

// Validate checks that the configuration is usable.
func (config Config) Validate() error {
	var errs []error
	if config.Repository == "" {
		errs = append(errs, errRepository)
	}
	if config.GCInterval <= 0 {
		errs = append(errs, errGCInterval)
	}
	if config.CommitInterval <= 0 {
		errs = append(errs, errCommitInterval)
	}
	if _, err := config.Level(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Level returns the parsed log level.
func (config Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(config.LogLevel)); err != nil {
		return level, fmt.Errorf("invalid log_level: %w", err)
	}
	return level, nil
}
