// Package version reports how the tickerd binary was built.
//
// Set the variables with ldflags:
//
//	go build -ldflags "-X github.com/rickgao/coin-ticker/internal/version.Version=1.0.0 \
//	                   -X github.com/rickgao/coin-ticker/internal/version.Commit=$(git rev-parse --short HEAD) \
//	                   -X github.com/rickgao/coin-ticker/internal/version.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package version

import "runtime"

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Info is the build description reported by /health.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

// Get returns the current build info.
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
	}
}

// IsRelease reports whether Version was set at build time.
func (i Info) IsRelease() bool {
	return i.Version != "dev" && i.Version != ""
}

// String renders "version (commit) built time".
func (i Info) String() string {
	return i.Version + " (" + i.Commit + ") built " + i.BuildTime
}

// String returns the formatted build info.
func String() string {
	return Get().String()
}
