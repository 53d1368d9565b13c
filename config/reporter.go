package config

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"sgtool/misc"
)

type ReporterConfig struct {
	Destination string `yaml:"destination" sanitize:"path_clean,assure_dir_exists_for_file" validate:"required,filepath"`
}

// Prepare creates empty report. When destination cannot be created report
// goes to temporary directory.
func (conf *ReporterConfig) Prepare() (*Report, error) {
	f, err := os.Create(conf.Destination)
	if err != nil {
		if f, err = os.CreateTemp("", misc.GetAppName()+"-report.*.zip"); err != nil {
			return nil, fmt.Errorf("unable to create report: %w", err)
		}
	}
	return &Report{file: f, entries: make(map[string]entry)}, nil
}

// entry is either a file on disk, read when report is closed, or data
// captured at the time of the call.
type entry struct {
	path  string
	data  []byte
	stamp time.Time
}

func (e entry) source() string {
	if len(e.path) > 0 {
		return e.path
	}
	return fmt.Sprintf("<%d bytes>", len(e.data))
}

// Report collects configuration, logs, processed sources and produced outputs
// into a single zip archive for troubleshooting. All methods are no-ops on
// nil report so callers do not have to check whether it was requested.
// NOTE: not safe for concurrent use.
type Report struct {
	entries map[string]entry
	file    *os.File
}

// Name returns absolute name of the report archive.
func (r *Report) Name() string {
	if r == nil || r.file == nil {
		return ""
	}
	if n, err := filepath.Abs(r.file.Name()); err == nil {
		return n
	}
	return r.file.Name()
}

// Store remembers file to be put in the report under name. File content is
// read when report is closed, so logs and outputs may keep changing.
func (r *Report) Store(name, path string) {
	if r == nil {
		return
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if old, exists := r.entries[name]; exists && old.path != path {
		panic(fmt.Sprintf("report entry [%s] already refers to %s, refusing %s", name, old.source(), path))
	}
	r.entries[name] = entry{path: path, stamp: time.Now()}
}

// StoreData puts copy of data in the report. Repeated names get numeric
// suffix, so the same source may be recorded more than once.
func (r *Report) StoreData(name string, data []byte) {
	if r == nil {
		return
	}
	r.entries[r.uniqueName(name)] = entry{data: bytes.Clone(data), stamp: time.Now()}
}

func (r *Report) uniqueName(name string) string {
	if _, exists := r.entries[name]; !exists {
		return name
	}
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 1; ; i++ {
		n := fmt.Sprintf("%s-%d%s", stem, i, ext)
		if _, exists := r.entries[n]; !exists {
			return n
		}
	}
}

// Close writes the archive.
func (r *Report) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	return errors.Join(r.write(r.file), r.file.Close())
}

func (r *Report) write(w io.Writer) (err error) {
	arc := zip.NewWriter(w)
	defer func() {
		err = errors.Join(err, arc.Close())
	}()

	names := slices.Sorted(maps.Keys(r.entries))

	var manifest bytes.Buffer
	for _, name := range names {
		e := r.entries[name]
		fmt.Fprintf(&manifest, "%s\t%s\t%s\n", e.stamp.UTC().Format(time.UnixDate), name, e.source())
	}
	if err := addToArchive(arc, "MANIFEST", time.Now(), manifest.Bytes()); err != nil {
		return err
	}

	for _, name := range names {
		e := r.entries[name]
		if len(e.path) == 0 {
			if err := addToArchive(arc, name, e.stamp, e.data); err != nil {
				return err
			}
			continue
		}
		data, err := os.ReadFile(e.path)
		if errors.Is(err, os.ErrNotExist) {
			// output may not have been produced
			continue
		}
		if err != nil {
			return fmt.Errorf("report entry [%s]: %w", name, err)
		}
		stamp := e.stamp
		if fi, err := os.Stat(e.path); err == nil {
			stamp = fi.ModTime()
		}
		if err := addToArchive(arc, name, stamp, data); err != nil {
			return err
		}
	}
	return nil
}

func addToArchive(arc *zip.Writer, name string, stamp time.Time, data []byte) error {
	w, err := arc.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: stamp})
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
