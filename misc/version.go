// Package misc holds build information.
package misc

import (
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
)

// set with -ldflags "-X sgtool/misc.version=... -X sgtool/misc.gitHash=..."
var (
	version = "dev"
	gitHash = ""
	appName = "sgtool"
)

func GetVersion() string {
	return version
}

// GetGitHash returns commit hash the binary was built from, falling back to
// VCS information embedded by the toolchain.
func GetGitHash() string {
	if len(gitHash) > 0 {
		return gitHash
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}

// GetAppName returns name used for log names and temporary files.
func GetAppName() string {
	if len(appName) > 0 {
		return appName
	}
	return strings.TrimSuffix(filepath.Base(os.Args[0]), filepath.Ext(os.Args[0]))
}
