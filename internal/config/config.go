// Package config loads the orchestration-layer configuration: where
// artifacts get uploaded and where project state lives. The separation
// core needs none of this; credentials are passed explicitly to the one
// component that uses them.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

// Storage configures the object store uploads go to.
type Storage struct {
	Bucket   string `yaml:"bucket"`
	Prefix   string `yaml:"prefix"`
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"` // optional, for S3-compatible stores
	BaseURL  string `yaml:"base_url"` // public URL root for uploaded objects

	// Credentials are taken from the environment, never from the file.
	AccessKeyID     string `yaml:"-"`
	SecretAccessKey string `yaml:"-"`
}

// Config is the full orchestration configuration.
type Config struct {
	Storage  Storage `yaml:"storage"`
	StateDir string  `yaml:"state_dir"`
}

// Default returns a configuration with local state under the user cache
// directory and no storage target.
func Default() *Config {
	stateDir := "splitter-state"
	if cache, err := os.UserCacheDir(); err == nil {
		stateDir = filepath.Join(cache, "splitter")
	}

	return &Config{StateDir: stateDir}
}

// Load reads the YAML file at path, layered over Default, then applies
// environment overrides. A missing file is not an error; the defaults and
// environment stand alone.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path) //nolint:gosec // config path is user-chosen by design
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	cfg.applyEnv()

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SPLITTER_BUCKET"); v != "" {
		c.Storage.Bucket = v
	}

	if v := os.Getenv("SPLITTER_REGION"); v != "" {
		c.Storage.Region = v
	}

	if v := os.Getenv("SPLITTER_ENDPOINT"); v != "" {
		c.Storage.Endpoint = v
	}

	if v := os.Getenv("SPLITTER_BASE_URL"); v != "" {
		c.Storage.BaseURL = v
	}

	if v := os.Getenv("SPLITTER_STATE_DIR"); v != "" {
		c.StateDir = v
	}

	c.Storage.AccessKeyID = os.Getenv("AWS_ACCESS_KEY_ID")
	c.Storage.SecretAccessKey = os.Getenv("AWS_SECRET_ACCESS_KEY")
}

// Validate checks that an upload target is actually configured.
func (c *Config) Validate() error {
	var missing []string

	if c.Storage.Bucket == "" {
		missing = append(missing, "storage.bucket (or SPLITTER_BUCKET)")
	}

	if c.Storage.Region == "" && c.Storage.Endpoint == "" {
		missing = append(missing, "storage.region or storage.endpoint")
	}

	if len(missing) > 0 {
		return fmt.Errorf("storage is not configured, missing: %v", missing)
	}

	return nil
}
