package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Storage settings
	Storage StorageConfig `yaml:"storage"`

	// Invoice defaults
	Invoice InvoiceConfig `yaml:"invoice"`

	// Logging
	Log LogConfig `yaml:"log"`
}

type StorageConfig struct {
	Dir      string `yaml:"dir"`       // Directory holding the persisted blobs
	SeedPath string `yaml:"seed_path"` // Default invoice data, loaded once when no blob exists
}

type InvoiceConfig struct {
	DefaultTerms int `yaml:"default_terms"` // Payment terms in days for new invoices
}

type LogConfig struct {
	Level string `yaml:"level"` // trace, debug, info, warn, error
	File  string `yaml:"file"`  // Log file path; empty disables logging
}

// DefaultConfigPath returns ~/.config/billfold/config.yaml
func DefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home dir unavailable
		return filepath.Join(".", ".config", "billfold", "config.yaml")
	}
	return filepath.Join(homeDir, ".config", "billfold", "config.yaml")
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	base := filepath.Join(homeDir, ".config", "billfold")
	return &Config{
		Storage: StorageConfig{
			Dir:      filepath.Join(base, "data"),
			SeedPath: filepath.Join(base, "seed.json"),
		},
		Invoice: InvoiceConfig{
			DefaultTerms: 30,
		},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(base, "billfold.log"),
		},
	}
}

// Load loads config from the given path, or returns defaults if file doesn't exist
func Load(path string) (*Config, error) {
	// If file doesn't exist, return defaults
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	// Read file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Parse YAML
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadDefault loads from the default config path
func LoadDefault() (*Config, error) {
	return Load(DefaultConfigPath())
}

// Save writes the config to the given path
func (c *Config) Save(path string) error {
	// Create parent directories if they don't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	// Marshal to YAML
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	// Write to file
	return os.WriteFile(path, data, 0644)
}

// EnsureDirectories creates all necessary directories (storage, logs)
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Storage.Dir, 0755); err != nil {
		return err
	}

	if c.Log.File != "" {
		if err := os.MkdirAll(filepath.Dir(c.Log.File), 0755); err != nil {
			return err
		}
	}

	return nil
}
