package main

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-faster/errors"

	"github.com/go-faster/blockzip"
)

const usage = "compress|decompress [input_file_name] [output_file_name]"

var helpPattern = regexp.MustCompile(`^.?(\?|help)$`)

// isHelp reports whether first argument requests help, like "-help" or "/?".
func isHelp(args []string) bool {
	return len(args) > 0 && helpPattern.MatchString(args[0])
}

// usageError is malformed invocation, reported without running pipeline.
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usageErr(msg string) error {
	return &usageError{msg: msg}
}

type command struct {
	Mode   blockzip.Mode
	Input  string
	Output string
}

// parseArgs parses positional arguments: mode and two paths, either as
// is or enclosed in brackets, like "[my input.txt] [out.gz]".
func parseArgs(args []string) (*command, error) {
	if len(args) == 0 {
		return nil, usageErr("missing required parameters, type key '-help' for help")
	}
	mode, err := blockzip.ModeString(args[0])
	if err != nil {
		return nil, usageErr("unknown parameters, type key '-help' for help")
	}
	if len(args) < 3 {
		return nil, usageErr("incorrect parameters, required: " + usage)
	}

	paths := args[1:]
	if joined := strings.Join(paths, " "); strings.HasPrefix(joined, "[") {
		paths = strings.Split(strings.Trim(joined, "[]"), "] [")
	}
	if len(paths) != 2 || paths[0] == "" || paths[1] == "" {
		return nil, usageErr("incorrect file paths, type key '-help' for help")
	}

	return &command{
		Mode:   mode,
		Input:  paths[0],
		Output: paths[1],
	}, nil
}

// prepare resolves paths, checks that input exists and creates output
// directory.
func (c *command) prepare() error {
	input, err := filepath.Abs(c.Input)
	if err != nil {
		return errors.Wrap(err, "input path")
	}
	stat, err := os.Stat(input)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return usageErr("file " + input + " doesn't exist")
		}
		return errors.Wrap(err, "stat input")
	}
	if stat.IsDir() {
		return usageErr("file " + input + " is a directory")
	}

	output, err := filepath.Abs(c.Output)
	if err != nil {
		return errors.Wrap(err, "output path")
	}
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return errors.Wrap(err, "create output directory")
	}

	c.Input, c.Output = input, output
	return nil
}
