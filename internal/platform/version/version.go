// Package version exposes the build metadata served by the /version
// endpoint.
package version

import "runtime"

// Stamped at build time with
//
//	go build -ldflags "-X .../internal/platform/version.Version=v1.2.3 ..."
//
// and left at these placeholders for local builds.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Info is the /version response payload.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

// Get assembles the build metadata, adding the Go runtime that compiled it.
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
	}
}
