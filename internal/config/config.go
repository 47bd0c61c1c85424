package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/payiter/internal/model"
)

// FileName is the default config file name.
const FileName = "payiter.yaml"

// Config represents the top-level payiter.yaml configuration.
type Config struct {
	Source SourceConfig `yaml:"source"`
	Export ExportConfig `yaml:"export"`
	Log    LogConfig    `yaml:"log"`
	RunLog RunLogConfig `yaml:"run_log"`
}

// SourceConfig says where records come from and how they are encoded.
type SourceConfig struct {
	Path       string       `yaml:"path"` // local path or s3://bucket/key
	Format     model.Format `yaml:"format"`
	SkipHeader bool         `yaml:"skip_header"`
}

// ExportConfig controls Parquet export.
type ExportConfig struct {
	Compression string `yaml:"compression"` // "", snappy, gzip, zstd
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// RunLogConfig controls the CSV run log.
type RunLogConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"` // run log lives at <dir>/logs/run-log.csv
}

// Load reads a payiter.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config reading JSON lines from sourcePath.
func Default(sourcePath string) *Config {
	return &Config{
		Source: SourceConfig{
			Path:   sourcePath,
			Format: model.FormatJSON,
		},
		Export: ExportConfig{
			Compression: "snappy",
		},
		Log: LogConfig{
			Level: "info",
		},
		RunLog: RunLogConfig{
			Enabled: true,
			Dir:     ".",
		},
	}
}

// Resolve loads path, falling back to Default("") when the file does not
// exist, then applies dotenv and environment overrides.
func Resolve(path, dotenvPath string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = Default("")
	} else if err != nil {
		return nil, err
	}

	if err := LoadDotenv(dotenvPath); err != nil {
		return nil, err
	}
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotenv loads variables from a .env file if it exists. Variables already
// present in the environment win.
func LoadDotenv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides cfg with PAYITER_* environment variables.
func ApplyEnv(cfg *Config) error {
	if v := os.Getenv("PAYITER_SOURCE"); v != "" {
		cfg.Source.Path = v
	}
	if v := os.Getenv("PAYITER_FORMAT"); v != "" {
		f, ok := model.ParseFormat(v)
		if !ok {
			return fmt.Errorf("PAYITER_FORMAT: unknown format %q", v)
		}
		cfg.Source.Format = f
	}
	if v := os.Getenv("PAYITER_SKIP_HEADER"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("PAYITER_SKIP_HEADER: %w", err)
		}
		cfg.Source.SkipHeader = b
	}
	if v := os.Getenv("PAYITER_EXPORT_COMPRESSION"); v != "" {
		cfg.Export.Compression = v
	}
	if v := os.Getenv("PAYITER_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	return nil
}
