package system

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFindLatestSVG(t *testing.T) {
	dir := t.TempDir()

	files := []string{"old.svg", "mid.svg", "new.svg", "skip.txt"}
	base := time.Now().Add(-time.Hour)
	for i, name := range files {
		path := filepath.Join(dir, name)
		os.WriteFile(path, []byte("test"), 0644)
		modTime := base.Add(time.Duration(i) * time.Minute)
		os.Chtimes(path, modTime, modTime)
	}

	latest, err := FindLatestSVG(dir)
	if err != nil {
		t.Fatalf("FindLatestSVG: %v", err)
	}
	if filepath.Base(latest) != "new.svg" {
		t.Errorf("Expected new.svg, got %s", latest)
	}
}

func TestFindLatestSVGEmpty(t *testing.T) {
	if _, err := FindLatestSVG(t.TempDir()); err == nil {
		t.Error("Expected an error for a directory without SVG files")
	}
}

func TestFindLatestDocument(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.yaml", "b.yml"} {
		os.WriteFile(filepath.Join(dir, name), []byte("test"), 0644)
	}

	latest, err := FindLatestDocument(dir)
	if err != nil {
		t.Fatalf("FindLatestDocument: %v", err)
	}
	ext := filepath.Ext(latest)
	if ext != ".yaml" && ext != ".yml" {
		t.Errorf("Unexpected document: %s", latest)
	}
}
