package config

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readReport(t *testing.T, name string) map[string]string {
	t.Helper()
	zr, err := zip.OpenReader(name)
	if err != nil {
		t.Fatalf("open report: %v", err)
	}
	defer zr.Close()

	out := make(map[string]string)
	for _, f := range zr.File {
		r, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(r)
		r.Close()
		if err != nil {
			t.Fatalf("read %s: %v", f.Name, err)
		}
		out[f.Name] = string(data)
	}
	return out
}

func TestReport_Entries(t *testing.T) {
	tmpDir := t.TempDir()
	conf := ReporterConfig{Destination: filepath.Join(tmpDir, "report.zip")}

	r, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}

	out := filepath.Join(tmpDir, "plasmid_dump.csv")
	if err := os.WriteFile(out, []byte("first"), 0644); err != nil {
		t.Fatalf("write output: %v", err)
	}

	source := []byte("original")
	r.StoreData("config/sgtool.yaml", []byte("version: 1\n"))
	r.StoreData("sources/plasmid.dna", source)
	r.Store("results/plasmid_dump.csv", out)
	r.Store("results/never-written.csv", filepath.Join(tmpDir, "missing.csv"))

	// data is captured at the time of the call, files when report is closed
	copy(source, "changed!")
	if err := os.WriteFile(out, []byte("second"), 0644); err != nil {
		t.Fatalf("rewrite output: %v", err)
	}

	if err := r.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	files := readReport(t, conf.Destination)
	if files["config/sgtool.yaml"] != "version: 1\n" {
		t.Errorf("config entry = %q", files["config/sgtool.yaml"])
	}
	if files["sources/plasmid.dna"] != "original" {
		t.Errorf("source entry = %q, want original", files["sources/plasmid.dna"])
	}
	if files["results/plasmid_dump.csv"] != "second" {
		t.Errorf("stored entry = %q, want second", files["results/plasmid_dump.csv"])
	}
	if _, ok := files["results/never-written.csv"]; ok {
		t.Error("missing file must not be put in report")
	}
	for _, name := range []string{"sources/plasmid.dna", "results/plasmid_dump.csv", "results/never-written.csv"} {
		if !strings.Contains(files["MANIFEST"], name) {
			t.Errorf("MANIFEST does not list %s: %q", name, files["MANIFEST"])
		}
	}
}

func TestReport_StoreDataRepeatedName(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	r.StoreData("sources/a.dna", []byte("1"))
	r.StoreData("sources/a.dna", []byte("2"))
	r.StoreData("sources/a.dna", []byte("3"))

	for name, want := range map[string]string{
		"sources/a.dna":   "1",
		"sources/a-1.dna": "2",
		"sources/a-2.dna": "3",
	} {
		if got := string(r.entries[name].data); got != want {
			t.Errorf("entry %s = %q, want %q", name, got, want)
		}
	}
}

func TestReport_StoreConflictPanics(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	r.Store("final.log", "a.log")
	// same file again is fine
	r.Store("final.log", "a.log")
	defer func() {
		if recover() == nil {
			t.Error("expected panic when entry is redirected to another file")
		}
	}()
	r.Store("final.log", "b.log")
}

func TestReportClose_NilReport(t *testing.T) {
	var r *Report
	if err := r.Close(); err != nil {
		t.Errorf("Close on nil report should not error, got: %v", err)
	}
	if r.Name() != "" {
		t.Errorf("Name on nil report = %q", r.Name())
	}
	r.Store("x", "y")
	r.StoreData("x", nil)
}

func TestReportClose_NilFile(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	if err := r.Close(); err != nil {
		t.Errorf("Close with nil file should not error, got: %v", err)
	}
}
