// Package gold implements golden files.
package gold

import (
	"bytes"
	"encoding/hex"
	"flag"
	"os"
	"path"
	"path/filepath"
	"testing"
)

const defaultDir = "_golden"

// Update reports whether golden files update is requested.
//
// Call Init() in TestMain to propagate.
var Update bool

// Init should be called in TestMain.
func Init() {
	flag.BoolVar(&Update, "update", false, "update golden files")
}

// Path returns path to golden file.
func Path(elems ...string) string {
	return filepath.Join(
		append([]string{defaultDir}, elems...)...,
	)
}

// ReadFile reads golden file.
func ReadFile(t testing.TB, elems ...string) []byte {
	t.Helper()

	p := Path(elems...)
	data, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("golden file %s: %+v", path.Join(elems...), err)
	}

	return data
}

// Bytes checks golden version of raw data, stored as
// "<elems>.raw" file.
func Bytes(t testing.TB, data []byte, elems ...string) {
	t.Helper()

	if len(elems) == 0 {
		t.Fatal("golden file name not provided")
	}
	elems[len(elems)-1] += ".raw"

	if Update {
		p := Path(elems...)
		if err := os.MkdirAll(filepath.Dir(p), 0o777); err != nil {
			t.Fatalf("mkdir: %+v", err)
		}
		if err := os.WriteFile(p, data, 0o600); err != nil {
			t.Fatalf("write golden file %s: %+v", p, err)
		}
		return
	}

	expected := ReadFile(t, elems...)
	if !bytes.Equal(expected, data) {
		t.Fatalf("golden file %s mismatch:\nexpected:\n%s\ngot:\n%s",
			path.Join(elems...), hex.Dump(expected), hex.Dump(data),
		)
	}
}
