// Package version resolves blockzip module version from build info.
package version

import (
	"fmt"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/hashicorp/go-version"
)

// Module is blockzip module path.
const Module = "github.com/go-faster/blockzip"

var once struct {
	version Value
	sync.Once
}

// Value describes blockzip module version.
type Value struct {
	Major int
	Minor int
	Patch int
	Name  string // pre-release, like "alpha.1"
	Raw   string
	Go    string // toolchain version, if known
}

// Dev reports whether Value is zero-versioned development build.
func (v Value) Dev() bool {
	return v.Major == 0 && v.Minor == 0 && v.Name == "dev"
}

func (v Value) String() string {
	if v.Go == "" {
		return "blockzip " + v.Raw
	}
	return fmt.Sprintf("blockzip %s (%s)", v.Raw, v.Go)
}

func devel() Value {
	return Value{
		// Zero-versioned dev version.
		Name: "dev",
		Raw:  "0.0.0-dev",
	}
}

// Extract version Value from BuildInfo.
//
// Version of main module wins, so both the binary and programs
// that depend on blockzip report it.
func Extract(info *debug.BuildInfo) Value {
	var raw string
	switch {
	case strings.HasPrefix(info.Main.Path, Module):
		raw = info.Main.Version
	default:
		for _, d := range info.Deps {
			if d.Path == Module {
				raw = d.Version
				break
			}
		}
	}

	ver := devel()
	if v, err := version.NewVersion(raw); err == nil {
		ver = Value{
			Name: v.Prerelease(),
			Raw:  strings.TrimPrefix(raw, "v"),
		}
		if s := v.Segments(); len(s) > 2 {
			ver.Major, ver.Minor, ver.Patch = s[0], s[1], s[2]
		}
	}
	ver.Go = info.GoVersion
	return ver
}

// Get optimistically gets current module version.
//
// Does not handle replace directives.
func Get() Value {
	once.Do(func() {
		info, ok := debug.ReadBuildInfo()
		if !ok {
			once.version = devel()
			return
		}
		once.version = Extract(info)
	})

	return once.version
}
