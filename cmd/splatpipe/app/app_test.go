package app

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWritePriorsDisabled(t *testing.T) {
	c := NewConfig()
	c.Priors.Enabled = false

	dir, err := writePriors(c, t.TempDir(), t.TempDir(), testLogger())
	if err != nil {
		t.Fatalf("writePriors: %v", err)
	}
	if dir != "" {
		t.Errorf("prior dir = %q, want empty when disabled", dir)
	}
}

func TestWritePriorsNoTelemetry(t *testing.T) {
	imgDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(imgDir, "a.jpg"), []byte("jpegdata"), 0o644); err != nil {
		t.Fatal(err)
	}

	dir, err := writePriors(NewConfig(), imgDir, t.TempDir(), testLogger())
	if err != nil {
		t.Fatalf("writePriors: %v", err)
	}
	if dir != "" {
		t.Errorf("prior dir = %q, want empty without telemetry", dir)
	}
}

func TestWritePriorsProducesFiles(t *testing.T) {
	imgDir := t.TempDir()
	sidecar := `{"Latitude": 37.0, "Longitude": -122.0, "AbsoluteAltitude": 50.0, "FocalLength": "3700/1000"}`
	if err := os.WriteFile(filepath.Join(imgDir, "a.jpg"), []byte("jpegdata"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(imgDir, "a.json"), []byte(sidecar), 0o644); err != nil {
		t.Fatal(err)
	}

	outDir := t.TempDir()
	dir, err := writePriors(NewConfig(), imgDir, outDir, testLogger())
	if err != nil {
		t.Fatalf("writePriors: %v", err)
	}
	if dir != filepath.Join(outDir, "priors") {
		t.Errorf("prior dir = %q", dir)
	}

	for _, name := range []string{"cameras.txt", "images.txt", "project.ini"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

func TestWritePriorsMalformedSidecarIsFatal(t *testing.T) {
	imgDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(imgDir, "a.jpg"), []byte("jpegdata"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(imgDir, "a.json"), []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := writePriors(NewConfig(), imgDir, t.TempDir(), testLogger()); err == nil {
		t.Error("expected error for malformed sidecar")
	}
}
