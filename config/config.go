// Package config provides configuration loading for the migration tool.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete migration configuration.
type Config struct {
	Fedora  FedoraConfig  `yaml:"fedora"`
	Harvest HarvestConfig `yaml:"harvest"`
	Sparql  SparqlConfig  `yaml:"sparql"`
	Omeka   OmekaConfig   `yaml:"omeka"`
	Media   MediaConfig   `yaml:"media"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// FedoraConfig configures the source repository connection.
type FedoraConfig struct {
	// SeedURI is the container the crawl starts from
	SeedURI string `yaml:"seed_uri"`
	// User and Password are optional basic-auth credentials
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	// Timeout is the per-request timeout
	Timeout time.Duration `yaml:"timeout"`
}

// HarvestConfig configures the crawl and its chunked output.
type HarvestConfig struct {
	// OutDir receives the chunked source/dataset/insert files
	OutDir string `yaml:"out_dir"`
	// RulesFile is the transformation catalogue path
	RulesFile string `yaml:"rules_file"`
	// ChunkSize is the number of resources per output chunk
	ChunkSize int `yaml:"chunk_size"`
	// MaxResources caps the crawl (0 = unlimited)
	MaxResources int `yaml:"max_resources"`
	// GraphURI names the target graph in generated update files
	GraphURI string `yaml:"graph_uri"`
	// PathMarker splits repository URIs into local paths
	PathMarker string `yaml:"path_marker"`
}

// SparqlConfig configures the triplestore endpoint.
type SparqlConfig struct {
	Endpoint string        `yaml:"endpoint"`
	User     string        `yaml:"user"`
	Password string        `yaml:"password"`
	Timeout  time.Duration `yaml:"timeout"`
}

// OmekaConfig configures the target Omeka S installation.
type OmekaConfig struct {
	// BaseURL is the API root, e.g. https://omeka.example.org/api
	BaseURL       string `yaml:"base_url"`
	KeyIdentity   string `yaml:"key_identity"`
	KeyCredential string `yaml:"key_credential"`
	// MappingFile is the field-mapping spec path
	MappingFile string `yaml:"mapping_file"`
	// ResourceClassID is assigned to every upserted item
	ResourceClassID int `yaml:"resource_class_id"`
	// ItemSetID is the item set upserted items join
	ItemSetID int `yaml:"item_set_id"`
}

// MediaConfig configures binary download and upload.
type MediaConfig struct {
	// Root is where downloaded binaries live and media refs resolve
	Root string `yaml:"root"`
	// Workers bounds concurrent downloads
	Workers int `yaml:"workers"`
}

// MetricsConfig configures instrumentation output.
type MetricsConfig struct {
	// Addr serves Prometheus metrics when non-empty, e.g. ":9090"
	Addr string `yaml:"addr"`
	// SummaryFile is the per-run performance log CSV
	SummaryFile string `yaml:"summary_file"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Fedora: FedoraConfig{
			Timeout: 60 * time.Second,
		},
		Harvest: HarvestConfig{
			OutDir:     "output",
			RulesFile:  "rules.yaml",
			ChunkSize:  10000,
			GraphURI:   "http://researchspace.org/graph/migration",
			PathMarker: "/repo/rest/",
		},
		Sparql: SparqlConfig{
			Timeout: 120 * time.Second,
		},
		Omeka: OmekaConfig{
			MappingFile:     "mapping.yaml",
			ResourceClassID: 32,
			ItemSetID:       2,
		},
		Media: MediaConfig{
			Root:    "media",
			Workers: 5,
		},
		Metrics: MetricsConfig{
			SummaryFile: "logs/performance_log.csv",
		},
	}
}

// Validate checks that the configuration is usable. Only globally required
// settings are checked here; per-phase requirements are validated by the
// command that needs them.
func (c *Config) Validate() error {
	if c.Harvest.ChunkSize < 0 {
		return fmt.Errorf("harvest.chunk_size must not be negative")
	}
	if c.Harvest.MaxResources < 0 {
		return fmt.Errorf("harvest.max_resources must not be negative")
	}
	if c.Media.Workers <= 0 {
		return fmt.Errorf("media.workers must be positive")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file on top of the defaults.
// ${VAR} references in the file are expanded from the environment before
// parsing so credentials can stay out of the file itself.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.Expand(string(data), func(name string) string {
		return os.Getenv(name)
	})

	config := DefaultConfig()
	if err := yaml.Unmarshal([]byte(expanded), config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}
