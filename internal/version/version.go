// Package version reports build information for canopy binaries.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/goccy/go-json"
)

const (
	unknown     = "unknown"
	shortCommit = 7
)

// Set by ldflags
var (
	Version   = "dev"
	Commit    = unknown
	BuildDate = unknown
)

// Module is a dependency compiled into the binary
type Module struct {
	Path    string `json:"path"`
	Version string `json:"version"`
}

// BuildInfo describes the running binary
type BuildInfo struct {
	Version   string   `json:"version"`
	Commit    string   `json:"commit"`
	BuildDate string   `json:"build_date"`
	GoVersion string   `json:"go_version"`
	Dirty     bool     `json:"dirty"`
	Deps      []Module `json:"deps,omitempty"`
}

// Info collects build information. Values not injected through ldflags
// fall back to the VCS settings recorded by the Go toolchain.
func Info() BuildInfo {
	info := BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
	}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == unknown {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.BuildDate == unknown {
				info.BuildDate = s.Value
			}
		case "vcs.modified":
			info.Dirty = s.Value == "true"
		}
	}
	for _, dep := range bi.Deps {
		info.Deps = append(info.Deps, Module{Path: dep.Path, Version: dep.Version})
	}
	return info
}

func (b BuildInfo) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "canopy %s", b.Version)
	if b.Dirty {
		sb.WriteString(" (dirty)")
	}
	sb.WriteString("\n")
	if b.Commit != unknown && b.Commit != "" {
		commit := b.Commit
		if len(commit) > shortCommit {
			commit = commit[:shortCommit]
		}
		fmt.Fprintf(&sb, "commit: %s\n", commit)
	}
	if b.BuildDate != unknown && b.BuildDate != "" {
		fmt.Fprintf(&sb, "built: %s\n", b.BuildDate)
	}
	fmt.Fprintf(&sb, "go: %s\n", b.GoVersion)
	return sb.String()
}

// JSON encodes the build information
func (b BuildInfo) JSON() ([]byte, error) {
	return json.Marshal(b)
}

// UserAgent identifies canopy in outgoing requests
func UserAgent() string {
	return "canopy/" + Version
}

// IsRelease reports whether Version names a tagged release
func IsRelease() bool {
	return Version != "dev" && !strings.Contains(Version, "-")
}
