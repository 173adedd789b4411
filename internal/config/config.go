package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default config file path.
const DefaultConfigPath = "~/.config/histdump/config.yaml"

// Config holds all histdump configuration.
type Config struct {
	Source   SourceConfig   `yaml:"source"`
	Output   OutputConfig   `yaml:"output"`
	Chunking ChunkingConfig `yaml:"chunking"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type SourceConfig struct {
	Path          string `yaml:"path"`
	TempDir       string `yaml:"temp_dir"`
	IncludeHidden bool   `yaml:"include_hidden"`
}

type OutputConfig struct {
	Dir         string `yaml:"dir"`
	JSONFile    string `yaml:"json_file"`
	CSVFile     string `yaml:"csv_file"`
	StatsFile   string `yaml:"stats_file"`
	ChunkPrefix string `yaml:"chunk_prefix"`
}

// ChunkingConfig controls chunked output. An empty Size means single-file
// output; otherwise it is a token budget such as "100k".
type ChunkingConfig struct {
	Size          string `yaml:"size"`
	CharsPerToken int    `yaml:"chars_per_token"`
	EntryOverhead int    `yaml:"entry_overhead"`
	VisitOverhead int    `yaml:"visit_overhead"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads a YAML config file at path and merges it with defaults.
// Returns an error if the file cannot be read or contains invalid YAML.
func Load(path string) (*Config, error) {
	path, err := ExpandPath(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks values that would otherwise fail late in a run.
func (c *Config) Validate() error {
	if c.Chunking.CharsPerToken <= 0 {
		return fmt.Errorf("chunking.chars_per_token must be positive, got %d", c.Chunking.CharsPerToken)
	}
	if c.Chunking.EntryOverhead < 0 || c.Chunking.VisitOverhead < 0 {
		return fmt.Errorf("chunking overheads must not be negative")
	}
	for name, file := range map[string]string{
		"output.json_file":    c.Output.JSONFile,
		"output.csv_file":     c.Output.CSVFile,
		"output.stats_file":   c.Output.StatsFile,
		"output.chunk_prefix": c.Output.ChunkPrefix,
	} {
		if file == "" || strings.ContainsRune(file, os.PathSeparator) {
			return fmt.Errorf("%s must be a plain file name, got %q", name, file)
		}
	}
	return nil
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// LoadOrCreate loads the config from the default path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreate() (*Config, error) {
	path, err := ExpandPath(DefaultConfigPath)
	if err != nil {
		return nil, err
	}
	return LoadOrCreateAt(path)
}

// LoadOrCreateAt loads the config from the given path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreateAt(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()

		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating config directory: %w", err)
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("marshaling default config: %w", err)
		}

		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("writing default config: %w", err)
		}

		return cfg, nil
	}

	return Load(path)
}
