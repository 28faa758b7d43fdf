package version

import (
	"fmt"
	"runtime/debug"
)

// Set at build time via ldflags:
//
//	go build -ldflags="-X github.com/airmon/co2mini/internal/version.Version=v1.2.3 \
//	                   -X github.com/airmon/co2mini/internal/version.Commit=abc123"
//
// When unset, both fall back to Go's embedded build info.
var (
	// Version is the semantic version of the application
	Version = ""
	// Commit is the git commit hash
	Commit = ""
)

func init() {
	if Version == "" || Commit == "" {
		fromBuildInfo()
	}
	if Version == "" {
		Version = "dev"
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

// fromBuildInfo fills in whatever the embedded VCS metadata provides.
// Module builds carry the tag in Main.Version; source builds carry the
// revision in the vcs settings.
func fromBuildInfo() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	if Version == "" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	var revision string
	dirty := false
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	if Commit == "" && revision != "" {
		Commit = shortCommit(revision, dirty)
	}
}

// shortCommit abbreviates a revision hash to 7 characters and marks
// builds from a modified working tree.
func shortCommit(revision string, dirty bool) string {
	if len(revision) > 7 {
		revision = revision[:7]
	}
	if dirty {
		revision += "-dirty"
	}
	return revision
}

// Full returns the full version string including commit
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}
