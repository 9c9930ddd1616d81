package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/go-faster/blockzip"
	"github.com/go-faster/blockzip/compress"
)

func TestLoad(t *testing.T) {
	cfg, err := Load(strings.NewReader(`
block_size: 4MiB
workers: 3
level: fastest
memory:
  ceiling: 512 MiB
logging:
  level: debug
  development: true
`))
	require.NoError(t, err)
	require.Equal(t, &Config{
		BlockSize: 4 * 1024 * 1024,
		Workers:   3,
		Level:     compress.LevelFastest,
		Memory:    MemoryConfig{Ceiling: 512 * 1024 * 1024},
		Logging: LoggingConfig{
			Level:       zapcore.DebugLevel,
			Development: true,
		},
	}, cfg)

	var opt blockzip.Options
	cfg.Apply(&opt)
	require.Equal(t, 4*1024*1024, opt.BlockSize)
	require.Equal(t, 3, opt.Workers)
	require.Equal(t, compress.LevelFastest, opt.Level)
	require.Equal(t, uint64(512*1024*1024), opt.MemoryCeiling)
}

func TestLoad_Partial(t *testing.T) {
	cfg, err := Load(strings.NewReader("block_size: 65536\n"))
	require.NoError(t, err)
	require.Equal(t, Size(65536), cfg.BlockSize)

	// Defaults are kept.
	require.Equal(t, compress.LevelOptimal, cfg.Level)
	require.Equal(t, Size(blockzip.DefaultMemoryCeiling), cfg.Memory.Ceiling)
	require.Equal(t, zapcore.InfoLevel, cfg.Logging.Level)
}

func TestLoad_Empty(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)

	cfg, err = Load(strings.NewReader(""))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoad_Invalid(t *testing.T) {
	for _, input := range []string{
		"block_size: lots",
		"block_size: 0",
		"block_size: 8GiB",
		"workers: -1",
		"level: turbo",
		"logging:\n  level: loud",
		"{{{",
	} {
		_, err := Load(strings.NewReader(input))
		require.Error(t, err, input)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadFile(filepath.Join(dir, "missing.yml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)

	name := filepath.Join(dir, "blockzip.yml")
	require.NoError(t, os.WriteFile(name, []byte("workers: 2\n"), 0o600))
	cfg, err = LoadFile(name)
	require.NoError(t, err)
	require.Equal(t, 2, cfg.Workers)

	_, err = LoadFile(dir)
	require.Error(t, err)
}

func TestSize(t *testing.T) {
	var s Size
	require.NoError(t, s.UnmarshalText([]byte("1.5 KiB")))
	require.Equal(t, Size(1536), s)
	require.Equal(t, "1.5 KiB", s.String())

	text, err := Size(1024 * 1024).MarshalText()
	require.NoError(t, err)
	require.Equal(t, "1.0 MiB", string(text))
}
