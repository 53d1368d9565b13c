package process

import (
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"

	"sgtool/config"
	"sgtool/state"
)

// buildOutputPath returns path of the file produced from "src" (relative
// source path including file name). Output file is named after the source
// with suffix and extension appended. Source directory structure is kept
// under "dst" unless NoDirs is requested.
func buildOutputPath(src, dst, suffix, ext string, env *state.LocalEnv) string {
	return filepath.Join(determineOutputDir(src, dst, env), buildFileName(src, suffix, ext, env))
}

func determineOutputDir(src, dst string, env *state.LocalEnv) string {
	if env.NoDirs {
		return dst
	}
	return filepath.Join(dst, filepath.Dir(src))
}

func buildFileName(src, suffix, ext string, env *state.LocalEnv) string {
	base := filepath.Base(src)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if env.Cfg.Document.FileNameTransliterate {
		stem = slug.Make(stem)
	}
	return config.CleanFileName(stem+suffix) + ext
}
