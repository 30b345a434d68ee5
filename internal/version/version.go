// Package version holds the build version for verilib.
package version

import "runtime/debug"

// Version is set at build time via -ldflags.
var Version = "dev"

// Commit is the git commit SHA, set at build time via -ldflags.
var Commit = ""

// readBuildInfo is swapped in tests.
var readBuildInfo = debug.ReadBuildInfo

// FullVersion returns "vX.Y.Z (commit <sha>)", the module version recorded
// by go install when no -ldflags were given, or "dev".
func FullVersion() string {
	v := Version
	if v == "dev" {
		if info, ok := readBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
			v = info.Main.Version
		}
	}
	if Commit != "" {
		return v + " (commit " + Commit + ")"
	}
	return v
}
