package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config mirrors the jot.yaml file found at a root.
//
//	adapter: bolt
//	key: notesapp-notes
//	ids: random
//	bolt:
//	  bucket: slots
type Config struct {
	Adapter  string       `yaml:"adapter,omitempty"`
	Path     string       `yaml:"path,omitempty"`
	Key      string       `yaml:"key,omitempty"`
	IDs      string       `yaml:"ids,omitempty"`
	ReadOnly bool         `yaml:"read_only,omitempty"`
	Bolt     BoltConfig   `yaml:"bolt,omitempty"`
	Mongo    MongoConfig  `yaml:"mongo,omitempty"`
	Export   ExportConfig `yaml:"export,omitempty"`
}

type BoltConfig struct {
	Bucket string `yaml:"bucket,omitempty"`
}

type MongoConfig struct {
	URI        string `yaml:"uri,omitempty"`
	Database   string `yaml:"database,omitempty"`
	Collection string `yaml:"collection,omitempty"`
}

// ExportConfig holds defaults for export commands.
type ExportConfig struct {
	Name    string `yaml:"name,omitempty"`
	RootTag string `yaml:"root_tag,omitempty"`
}

// LoadConfig reads jot.yaml from root. A missing file yields an empty Config.
func LoadConfig(root string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(filepath.Join(root, ConfigFile))
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", ConfigFile, err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from JOT_ADAPTER, JOT_HOME, JOT_KEY, JOT_IDS,
// JOT_READ_ONLY and JOT_MONGO_URI. getenv is usually os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("JOT_ADAPTER"); v != "" {
		c.Adapter = v
	}
	if v := getenv("JOT_HOME"); v != "" {
		c.Path = v
	}
	if v := getenv("JOT_KEY"); v != "" {
		c.Key = v
	}
	if v := getenv("JOT_IDS"); v != "" {
		c.IDs = v
	}
	if v := getenv("JOT_MONGO_URI"); v != "" {
		c.Mongo.URI = v
	}
	if v := getenv("JOT_READ_ONLY"); v != "" {
		ro, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("JOT_READ_ONLY: %w", err)
		}
		c.ReadOnly = ro
	}
	return nil
}

// URI returns the adapter-specific location, resolving relative paths against root.
func (c Config) URI(root string) string {
	adapter := c.Adapter
	if adapter == "" {
		adapter = AdapterFS
	}

	switch adapter {
	case AdapterMongo:
		return c.Mongo.URI
	case AdapterMemory:
		return ""
	}

	path := c.Path
	if path == "" {
		return filepath.Join(root, DataDir)
	}
	if !filepath.IsAbs(path) {
		return filepath.Join(root, path)
	}
	return path
}

// Options converts the configuration into functional options.
func (c Config) Options() []Option {
	var opts []Option
	if c.Adapter != "" {
		opts = append(opts, WithAdapter(c.Adapter))
	}
	if c.Key != "" {
		opts = append(opts, WithKey(c.Key))
	}
	if c.IDs != "" {
		opts = append(opts, WithIDStrategy(c.IDs))
	}
	if c.ReadOnly {
		opts = append(opts, WithReadOnly(true))
	}
	if c.Bolt.Bucket != "" {
		opts = append(opts, WithBucket(c.Bolt.Bucket))
	}
	if c.Mongo.Database != "" {
		opts = append(opts, WithDatabase(c.Mongo.Database))
	}
	if c.Mongo.Collection != "" {
		opts = append(opts, WithCollection(c.Mongo.Collection))
	}
	return opts
}

// Resolve locates the root above startDir, loads its jot.yaml and applies the
// environment. Without a root, startDir itself is used.
func Resolve(startDir string, getenv func(string) string) (string, Config, error) {
	root, err := FindRoot(startDir)
	if errors.Is(err, ErrRootNotFound) {
		root, err = filepath.Abs(startDir)
	}
	if err != nil {
		return "", Config{}, err
	}

	cfg, err := LoadConfig(root)
	if err != nil {
		return "", Config{}, err
	}
	if getenv != nil {
		if err := cfg.ApplyEnv(getenv); err != nil {
			return "", Config{}, err
		}
	}
	return root, cfg, nil
}
