package priorart

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the file-loadable settings used to assemble an engine and its
// collaborators.
type Config struct {
	// MaxResults is the default result cap for new sessions.
	MaxResults int `yaml:"max_results"`

	// DataDir selects the file session store when set; otherwise sessions
	// are kept in memory.
	DataDir string `yaml:"data_dir"`

	// PostgresDSN selects the Postgres session store when set. Takes
	// precedence over DataDir.
	PostgresDSN string `yaml:"postgres_dsn"`

	// ClassifierURL points at an IPCCAT-style classification endpoint.
	// When empty, the offline heuristic classifier is used.
	ClassifierURL string `yaml:"classifier_url"`

	// Predictions is the number of classification predictions to request.
	Predictions int `yaml:"predictions"`
}

// DefaultConfig returns the configuration used when no file is supplied.
func DefaultConfig() *Config {
	return &Config{
		MaxResults:  DefaultMaxResults,
		Predictions: 5,
	}
}

// LoadConfig loads a Config from a YAML file, applying defaults for unset
// fields.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
	}
	if config.MaxResults <= 0 {
		config.MaxResults = DefaultMaxResults
	}
	if config.Predictions <= 0 {
		config.Predictions = 5
	}
	return config, nil
}
