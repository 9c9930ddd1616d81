package otelbz

import "github.com/go-faster/blockzip/internal/version"

// Name of instrumentation.
const Name = version.Module

// Version is the current release version of the blockzip instrumentation.
func Version() string {
	return version.Get().Raw
}

// SemVersion is the semantic version to be supplied to tracer creation.
func SemVersion() string {
	return "semver:" + Version()
}
