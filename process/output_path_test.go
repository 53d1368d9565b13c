package process

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"

	"sgtool/config"
	"sgtool/state"
)

func setupTestEnvForOutputPath(t *testing.T, noDirs, transliterate bool) *state.LocalEnv {
	t.Helper()
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	cfg.Document.FileNameTransliterate = transliterate
	return &state.LocalEnv{
		Log:    zaptest.NewLogger(t),
		Cfg:    cfg,
		NoDirs: noDirs,
	}
}

func TestBuildOutputPath(t *testing.T) {
	dst := filepath.Join("out", "dir")
	tests := []struct {
		name          string
		src           string
		noDirs        bool
		transliterate bool
		suffix, ext   string
		want          string
	}{
		{"simple", "pUC19.dna", false, false, "_dump", ".csv", filepath.Join(dst, "pUC19_dump.csv")},
		{"keeps dirs", filepath.Join("a", "b", "pUC19.dna"), false, false, "_dump", ".txt", filepath.Join(dst, "a", "b", "pUC19_dump.txt")},
		{"no dirs", filepath.Join("a", "b", "pUC19.dna"), true, false, "_dump", ".txt", filepath.Join(dst, "pUC19_dump.txt")},
		{"resave", "pUC19.dna", false, false, "_", ".dna", filepath.Join(dst, "pUC19_.dna")},
		{"multiple dots", "v1.2.final.dna", false, false, "", ".sqlite", filepath.Join(dst, "v1.2.final.sqlite")},
		{"transliterate", "Плазмида 1.dna", false, true, "_dump", ".csv", filepath.Join(dst, "plazmida-1_dump.csv")},
		{"leading dots cleaned", "..hidden.dna", false, false, "_dump", ".csv", filepath.Join(dst, "hidden_dump.csv")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnvForOutputPath(t, tt.noDirs, tt.transliterate)
			got := buildOutputPath(tt.src, dst, tt.suffix, tt.ext, env)
			if got != tt.want {
				t.Errorf("buildOutputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHasSnapGeneExt(t *testing.T) {
	exts := []string{".dna", ".prot"}
	for name, want := range map[string]bool{
		"a.dna":      true,
		"A.DNA":      true,
		"x/y/b.prot": true,
		"c.txt":      false,
		"dna":        false,
		"d.dna.zip":  false,
	} {
		if got := hasSnapGeneExt(name, exts); got != want {
			t.Errorf("hasSnapGeneExt(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestIsArchiveFile(t *testing.T) {
	dir := t.TempDir()
	arc := filepath.Join(dir, "a.bin")
	writeTestZip(t, arc, map[string][]byte{"x.dna": sampleFile()})
	plain := filepath.Join(dir, "x.zip")
	writeTestFile(t, plain, sampleFile())
	empty := filepath.Join(dir, "empty")
	writeTestFile(t, empty, nil)

	for path, want := range map[string]bool{arc: true, plain: false, empty: false} {
		got, err := isArchiveFile(path)
		if err != nil {
			t.Fatalf("isArchiveFile(%s): %v", path, err)
		}
		if got != want {
			t.Errorf("isArchiveFile(%s) = %v, want %v", path, got, want)
		}
	}
	if _, err := isArchiveFile(filepath.Join(dir, "missing")); err == nil {
		t.Error("expected error for missing file")
	}
}
