package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/require"

	"github.com/go-faster/blockzip"
)

func TestIsHelp(t *testing.T) {
	for _, args := range [][]string{
		{"help"},
		{"-help"},
		{"/help"},
		{"?"},
		{"-?"},
		{"/?", "compress"},
	} {
		require.True(t, isHelp(args), "%v", args)
	}
	for _, args := range [][]string{
		nil,
		{"--help"}, // handled by flag set
		{"compress", "help"},
		{"helpme"},
	} {
		require.False(t, isHelp(args), "%v", args)
	}
}

func TestParseArgs(t *testing.T) {
	for _, tt := range []struct {
		Name string
		Args []string
		Cmd  command
	}{
		{
			Name: "Plain",
			Args: []string{"compress", "in.txt", "out.gz"},
			Cmd:  command{Mode: blockzip.ModeCompress, Input: "in.txt", Output: "out.gz"},
		},
		{
			Name: "Brackets",
			Args: []string{"decompress", "[in.gz]", "[out.txt]"},
			Cmd:  command{Mode: blockzip.ModeDecompress, Input: "in.gz", Output: "out.txt"},
		},
		{
			Name: "BracketsWithSpaces",
			Args: []string{"compress", "[my", "input", "file.txt]", "[out", "dir/out.gz]"},
			Cmd:  command{Mode: blockzip.ModeCompress, Input: "my input file.txt", Output: "out dir/out.gz"},
		},
	} {
		t.Run(tt.Name, func(t *testing.T) {
			cmd, err := parseArgs(tt.Args)
			require.NoError(t, err)
			require.Equal(t, tt.Cmd, *cmd)
		})
	}
}

func TestParseArgs_Error(t *testing.T) {
	for _, tt := range []struct {
		Name string
		Args []string
	}{
		{Name: "Empty"},
		{Name: "UnknownMode", Args: []string{"squash", "a", "b"}},
		{Name: "MissingOutput", Args: []string{"compress", "a"}},
		{Name: "TooMany", Args: []string{"compress", "a", "b", "c"}},
		{Name: "SingleBracketed", Args: []string{"compress", "[a", "b]"}},
		{Name: "EmptyBracketed", Args: []string{"compress", "[]", "[b]"}},
	} {
		t.Run(tt.Name, func(t *testing.T) {
			_, err := parseArgs(tt.Args)
			var usageErr *usageError
			require.ErrorAs(t, err, &usageErr)
		})
	}
}

func TestCommand_Prepare(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.txt")
	require.NoError(t, os.WriteFile(input, []byte("data"), 0o600))

	cmd := command{
		Input:  input,
		Output: filepath.Join(dir, "nested", "deeper", "out.gz"),
	}
	require.NoError(t, cmd.prepare())
	require.DirExists(t, filepath.Join(dir, "nested", "deeper"))
	require.True(t, filepath.IsAbs(cmd.Output))

	t.Run("MissingInput", func(t *testing.T) {
		cmd := command{
			Input:  filepath.Join(dir, "missing.txt"),
			Output: filepath.Join(dir, "out.gz"),
		}
		err := cmd.prepare()
		var usageErr *usageError
		require.True(t, errors.As(err, &usageErr))
		require.Contains(t, err.Error(), "doesn't exist")
	})
	t.Run("DirectoryInput", func(t *testing.T) {
		cmd := command{Input: dir, Output: filepath.Join(dir, "out.gz")}
		require.Error(t, cmd.prepare())
	})
}
