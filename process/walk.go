package process

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"slices"
	"strings"
	"time"

	"github.com/maruel/natural"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/ianaindex"

	"sgtool/archive"
	"sgtool/state"
)

// whole files are kept in memory, refuse archive entries which cannot be
// sensible SnapGene documents
const maxFileSize = 1 << 30

// fileHandler does the actual work for a single input file. "data" is the
// complete file content, "src" is source path relative to the original
// location (see processFile) and "dst" is the destination directory.
type fileHandler func(ctx context.Context, data []byte, src, dst string, log *zap.Logger) error

// process determines the input type (directory, archive, or single file) and
// runs handler for every SnapGene file found.
func process(ctx context.Context, src, dst string, handle fileHandler, log *zap.Logger) error {
	var head, tail string
	for head = src; len(head) != 0; head, tail = filepath.Split(head) {
		if err := ctx.Err(); err != nil {
			return err
		}

		head = strings.TrimSuffix(head, string(filepath.Separator))

		fi, err := os.Stat(head)
		if err != nil {
			// does not exists - probably path in archive
			continue
		}

		if fi.Mode().IsDir() {
			if len(tail) != 0 {
				// directory cannot have tail - it would be simple file
				return fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
			}
			if err := processDir(ctx, head, dst, handle, log); err != nil {
				return fmt.Errorf("unable to process directory: %w", err)
			}
			break
		}

		if !fi.Mode().IsRegular() {
			return fmt.Errorf("unexpected path mode for (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}

		arc, err := isArchiveFile(head)
		if err != nil {
			// checking format - but cannot open target file
			return fmt.Errorf("unable to check archive type: %w", err)
		}
		if arc {
			// we need to look inside to see if path makes sense
			tail = strings.TrimPrefix(strings.TrimPrefix(src, head), string(filepath.Separator))
			if err := processArchive(ctx, head, filepath.ToSlash(tail), "", dst, handle, log); err != nil {
				return fmt.Errorf("unable to process archive: %w", err)
			}
			break
		}

		if len(tail) != 0 {
			return fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}
		// explicitly named file is processed regardless of its extension,
		// signature check decides
		data, err := os.ReadFile(head)
		if err != nil {
			return fmt.Errorf("unable to read file: %w", err)
		}
		return processFile(ctx, handle, data, filepath.Base(head), dst, log)
	}
	if len(head) == 0 {
		return fmt.Errorf("input source was not found (%s)", src)
	}
	return nil
}

// processDir walks directory tree finding SnapGene files and archives and
// processes them in natural name order.
func processDir(ctx context.Context, dir, dst string, handle fileHandler, log *zap.Logger) (err error) {
	exts := state.EnvFromContext(ctx).Cfg.Document.Extensions

	var files []string
	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if info.Mode().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return err
	}
	slices.SortStableFunc(files, func(a, b string) int {
		switch {
		case natural.Less(a, b):
			return -1
		case natural.Less(b, a):
			return 1
		}
		return 0
	})

	count := 0
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(path, dir), string(filepath.Separator))

		if hasSnapGeneExt(path, exts) {
			count++
			data, err := os.ReadFile(path)
			if err != nil {
				log.Error("Unable to process file", zap.String("file", path), zap.Error(err))
				continue
			}
			if err := processFile(ctx, handle, data, rel, dst, log); err != nil {
				log.Error("Unable to process file", zap.String("file", path), zap.Error(err))
			}
			continue
		}

		arc, err := isArchiveFile(path)
		if err != nil {
			log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			continue
		}
		if !arc {
			log.Debug("Skipping file, not recognized as SnapGene file or archive", zap.String("file", path))
			continue
		}
		count++
		if err := processArchive(ctx, path, "", filepath.Dir(rel), dst, handle, log); err != nil {
			log.Error("Unable to process archive", zap.String("file", path), zap.Error(err))
		}
	}
	if count == 0 {
		log.Debug("Nothing to process", zap.String("dir", dir))
	}
	return nil
}

// processArchive walks all files inside archive, finds SnapGene files under
// "pathIn" and processes them. "pathOut" is prepended to the archive entry
// names when building output paths.
func processArchive(ctx context.Context, path, pathIn, pathOut, dst string, handle fileHandler, log *zap.Logger) (err error) {
	env := state.EnvFromContext(ctx)
	exts := env.Cfg.Document.Extensions

	count := 0
	defer func() {
		if err == nil && count == 0 {
			log.Debug("Nothing to process", zap.String("archive", path))
		}
	}()

	return archive.Walk(path, pathIn, func(arc string, f *zip.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		name := entryName(f, env, log)
		if !hasSnapGeneExt(name, exts) {
			log.Debug("Skipping file, not recognized as SnapGene file", zap.String("archive", arc), zap.String("file", name))
			return nil
		}

		count++

		data, err := archive.ReadFile(f, maxFileSize)
		if err != nil {
			log.Error("Unable to process file in archive",
				zap.String("archive", arc), zap.String("file", name), zap.Error(err))
			return nil
		}
		if err := processFile(ctx, handle, data, filepath.Join(pathOut, filepath.FromSlash(name)), dst, log); err != nil {
			log.Error("Unable to process file in archive",
				zap.String("archive", arc), zap.String("file", name), zap.Error(err))
		}
		return nil
	})
}

// entryName returns archive entry name, converted from forced code page when
// entry is not marked as UTF-8.
func entryName(f *zip.File, env *state.LocalEnv, log *zap.Logger) string {
	name := f.FileHeader.Name
	if env.CodePage == nil || !f.FileHeader.NonUTF8 {
		return name
	}
	n, err := env.CodePage.NewDecoder().String(name)
	if err != nil {
		cp, _ := ianaindex.IANA.Name(env.CodePage)
		log.Warn("Unable to convert archive name from specified encoding",
			zap.String("charset", cp), zap.String("path", name), zap.Error(err))
		return name
	}
	return n
}

// processFile runs handler for a single file. "src" is part of the source path
// (always including file name) relative to the original path. When actual file
// was specified it will be just base file name without a path. When looking
// inside archive or directory it will be relative path inside archive or
// directory (including base file name).
func processFile(ctx context.Context, handle fileHandler, data []byte, src, dst string, log *zap.Logger) (rerr error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	log.Info("Processing file", zap.String("from", src), zap.Int("size", len(data)))

	// keep input in debug report, failed files are the interesting ones
	state.EnvFromContext(ctx).Rpt.StoreData("sources/"+filepath.ToSlash(src), data)

	defer func(start time.Time) {
		// one broken file must not stop processing of the rest
		if r := recover(); r != nil {
			log.Error("Processing ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("processing panic: %v", r)
		} else if rerr == nil {
			log.Debug("File processed", zap.String("from", src), zap.Duration("elapsed", time.Since(start)))
		}
	}(time.Now())

	return handle(ctx, data, src, dst, log)
}

// prepareOutput makes sure output file could be written: destination
// directory exists and previous result is removed when overwriting is allowed.
func prepareOutput(outputName string, env *state.LocalEnv, log *zap.Logger) error {
	if _, err := os.Stat(outputName); err == nil {
		if !env.Overwrite {
			return fmt.Errorf("output file already exists: %s", outputName)
		}
		log.Warn("Overwriting existing file", zap.String("file", outputName))
		return os.Remove(outputName)
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outputName), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}
	return nil
}

// storeResult puts produced file into debug report, if one was requested.
func storeResult(env *state.LocalEnv, dst, outputName string) {
	if env.Rpt == nil {
		return
	}
	name := filepath.Base(outputName)
	if rel, err := filepath.Rel(dst, outputName); err == nil {
		name = filepath.ToSlash(rel)
	}
	env.Rpt.Store("results/"+name, outputName)
}
