// Package config implements blockzip configuration file.
package config

import (
	"io"
	"math"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/go-faster/errors"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/go-faster/blockzip"
	"github.com/go-faster/blockzip/compress"
)

// Size is count of bytes, decoded from humanized string like "4MiB"
// or plain number.
type Size uint64

func (s Size) String() string {
	return humanize.IBytes(uint64(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s Size) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Size) UnmarshalText(text []byte) error {
	v, err := humanize.ParseBytes(string(text))
	if err != nil {
		return errors.Wrapf(err, "parse size %q", text)
	}
	*s = Size(v)
	return nil
}

// MemoryConfig configures memory cap.
type MemoryConfig struct {
	// Ceiling is upper bound of memory cap.
	Ceiling Size `yaml:"ceiling"`
}

// LoggingConfig configures logger.
type LoggingConfig struct {
	Level       zapcore.Level `yaml:"level"`
	Development bool          `yaml:"development"`
}

// Config of blockzip.
type Config struct {
	BlockSize Size           `yaml:"block_size"`
	Workers   int            `yaml:"workers"` // zero is count of CPUs
	Level     compress.Level `yaml:"level"`
	Memory    MemoryConfig   `yaml:"memory"`
	Logging   LoggingConfig  `yaml:"logging"`
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		BlockSize: blockzip.DefaultBlockSize,
		Level:     compress.LevelOptimal,
		Memory: MemoryConfig{
			Ceiling: Size(blockzip.DefaultMemoryCeiling),
		},
		Logging: LoggingConfig{
			Level: zapcore.InfoLevel,
		},
	}
}

// Validate checks configuration.
func (c *Config) Validate() error {
	if c.BlockSize == 0 || c.BlockSize > math.MaxUint32 {
		return errors.Errorf("block size %s out of range", c.BlockSize)
	}
	if c.Workers < 0 {
		return errors.Errorf("negative workers count %d", c.Workers)
	}
	if !c.Level.IsALevel() {
		return errors.Errorf("unknown level %s", c.Level)
	}
	return nil
}

// Apply sets options from configuration.
func (c *Config) Apply(opt *blockzip.Options) {
	opt.BlockSize = int(c.BlockSize)
	opt.Workers = c.Workers
	opt.Level = c.Level
	opt.MemoryCeiling = uint64(c.Memory.Ceiling)
}

// Load reads configuration over defaults. Nil or empty reader yields
// defaults.
func Load(r io.Reader) (*Config, error) {
	cfg := Default()
	if r == nil {
		return cfg, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read")
	}
	if len(data) == 0 {
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "validate")
	}
	return cfg, nil
}

// LoadFile reads configuration from file. Missing file yields defaults.
func LoadFile(name string) (*Config, error) {
	f, err := os.Open(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, errors.Wrap(err, "open")
	}
	defer func() { _ = f.Close() }()

	return Load(f)
}
