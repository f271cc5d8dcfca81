package viewer

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "viewer")
	if err := Write(dir, "../splat.ply"); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "index.html"))
	if err != nil {
		t.Fatalf("reading scaffold: %v", err)
	}

	page := string(data)
	if !strings.Contains(page, "url:'../splat.ply'") {
		t.Error("scaffold does not reference the splat artifact")
	}
	if !strings.Contains(page, "SplatMesh") {
		t.Error("scaffold missing splat renderer wiring")
	}
}

func TestWriteIdempotent(t *testing.T) {
	dir := t.TempDir()
	if err := Write(dir, "model.ply"); err != nil {
		t.Fatalf("first Write: %v", err)
	}
	first, err := os.ReadFile(filepath.Join(dir, "index.html"))
	if err != nil {
		t.Fatal(err)
	}

	if err := Write(dir, "model.ply"); err != nil {
		t.Fatalf("second Write: %v", err)
	}
	second, err := os.ReadFile(filepath.Join(dir, "index.html"))
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(first, second) {
		t.Error("scaffold changed between identical runs")
	}
}
