// Binary blockzip compresses files into block-addressable gzip
// containers and decompresses them back.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-faster/errors"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/go-faster/blockzip"
	"github.com/go-faster/blockzip/compress"
	"github.com/go-faster/blockzip/internal/cmd/app"
	"github.com/go-faster/blockzip/internal/config"
	"github.com/go-faster/blockzip/internal/version"
)

type flags struct {
	Config    string
	BlockSize string
	Workers   int
	Level     string
	Verbose   bool
	Version   bool
}

func newFlagSet(f *flags) *pflag.FlagSet {
	set := pflag.NewFlagSet("blockzip", pflag.ContinueOnError)
	set.StringVar(&f.Config, "config", "", "path to YAML configuration file")
	set.StringVar(&f.BlockSize, "block-size", "", "size of uncompressed block, like 4MiB")
	set.IntVar(&f.Workers, "workers", 0, "count of workers, count of CPUs by default")
	set.StringVar(&f.Level, "level", "", "compression level: optimal, fastest, no_compression or smallest_size")
	set.BoolVarP(&f.Verbose, "verbose", "v", false, "enable debug logging")
	set.BoolVar(&f.Version, "version", false, "print version and exit")
	return set
}

func printHelp(w io.Writer, set *pflag.FlagSet) {
	_, _ = fmt.Fprintf(w, "Usage: blockzip [flags] %s\n\nFlags:\n%s", usage, set.FlagUsages())
}

// loadConfig reads configuration file and applies flag overrides.
func loadConfig(set *pflag.FlagSet, f flags) (*config.Config, error) {
	cfg := config.Default()
	if f.Config != "" {
		var err error
		if cfg, err = config.LoadFile(f.Config); err != nil {
			return nil, errors.Wrap(err, "load config")
		}
	}
	if set.Changed("block-size") {
		if err := cfg.BlockSize.UnmarshalText([]byte(f.BlockSize)); err != nil {
			return nil, errors.Wrap(err, "block size")
		}
	}
	if set.Changed("workers") {
		cfg.Workers = f.Workers
	}
	if set.Changed("level") {
		level, err := compress.LevelString(f.Level)
		if err != nil {
			return nil, errors.Wrap(err, "level")
		}
		cfg.Level = level
	}
	if f.Verbose {
		cfg.Logging.Development = true
		cfg.Logging.Level = zap.DebugLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "validate")
	}
	return cfg, nil
}

func run(ctx context.Context, args []string, out io.Writer) int {
	var f flags
	set := newFlagSet(&f)
	set.SetOutput(out)

	if isHelp(args) {
		printHelp(out, set)
		return 0
	}
	if err := set.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(out, set)
			return 0
		}
		_, _ = fmt.Fprintln(out, err)
		return 2
	}
	if f.Version {
		_, _ = fmt.Fprintln(out, version.Get().String())
		return 0
	}

	cfg, err := loadConfig(set, f)
	if err != nil {
		_, _ = fmt.Fprintf(out, "Invalid configuration: %s\n", err)
		return 2
	}
	cmd, err := parseArgs(set.Args())
	if err == nil {
		err = cmd.prepare()
	}
	if err != nil {
		_, _ = fmt.Fprintln(out, err)
		return 2
	}

	lg, err := app.NewLogger(cfg.Logging.Development, cfg.Logging.Level)
	if err != nil {
		_, _ = fmt.Fprintln(out, err)
		return 2
	}
	defer func() { _ = lg.Sync() }()

	opt := blockzip.Options{
		Logger:   lg,
		Mode:     cmd.Mode,
		Input:    cmd.Input,
		Output:   cmd.Output,
		Progress: app.NewConsole(out),
	}
	cfg.Apply(&opt)

	code := 0
	if err := process(ctx, opt, out); err != nil {
		_, _ = fmt.Fprintf(out, "\nError during process: %s\n", err)
		code = 1
	}
	_, _ = fmt.Fprintln(out, "\nFinished")
	return code
}

func process(ctx context.Context, opt blockzip.Options, out io.Writer) error {
	start := time.Now()
	r, err := blockzip.New(opt)
	if err != nil {
		return err
	}
	if err := r.RunAndWait(ctx); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "\n%s of %s in %d blocks of %s took %s\n",
		r.Mode(),
		humanize.IBytes(uint64(r.FileSize())),
		r.TotalBlocks(),
		humanize.IBytes(uint64(r.BlockSize())),
		time.Since(start).Round(time.Millisecond),
	)
	return nil
}

func main() {
	app.Run(func(ctx context.Context) int {
		return run(ctx, os.Args[1:], os.Stdout)
	})
}
