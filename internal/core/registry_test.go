package core

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

type indexRecord struct {
	Identifier struct {
		ID string `json:"id"`
	} `json:"identifier"`
	Version          string        `json:"version"`
	Location         indexLocation `json:"location"`
	RelativeLocation string        `json:"relativeLocation"`
}

func readIndex(t *testing.T, path string) []indexRecord {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading index: %v", err)
	}
	var records []indexRecord
	if err := json.Unmarshal(data, &records); err != nil {
		t.Fatalf("index is not plain JSON: %v\n%s", err, data)
	}
	return records
}

func TestExtensionsIndex_UpsertCreates(t *testing.T) {
	dir := t.TempDir()
	x := NewExtensionsIndex(dir)
	if x.Exists() {
		t.Fatal("Exists() = true for empty dir")
	}

	installDir := filepath.Join(dir, "pub.ext-1.0.0")
	if err := x.Upsert(candidate("1.0.0", ""), installDir, 1); err != nil {
		t.Fatalf("Upsert() error: %v", err)
	}

	records := readIndex(t, x.Path())
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	r := records[0]
	if r.Identifier.ID != "pub.ext" || r.Version != "1.0.0" || r.RelativeLocation != "pub.ext-1.0.0" {
		t.Errorf("record = %+v", r)
	}
	if r.Location.Scheme != "file" || r.Location.Mid != 1 || r.Location.Path != fileURIPath(installDir) {
		t.Errorf("location = %+v", r.Location)
	}
}

func TestExtensionsIndex_UpsertReplaces(t *testing.T) {
	dir := t.TempDir()
	content := `[
	// written by the editor
	{"identifier": {"id": "PUB.ext"}, "version": "0.9.0", "relativeLocation": "pub.ext-0.9.0"},
	{"identifier": {"id": "other.ext"}, "version": "3.0.0", "relativeLocation": "other.ext-3.0.0"},
	{"identifier": {"id": "pub.ext"}, "version": "0.8.0", "relativeLocation": "pub.ext-0.8.0"},
]`
	x := NewExtensionsIndex(dir)
	if err := os.WriteFile(x.Path(), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := x.Upsert(candidate("1.0.0", PlatformDarwinArm64), filepath.Join(dir, "pub.ext-1.0.0-darwin-arm64"), 1); err != nil {
		t.Fatalf("Upsert() error: %v", err)
	}

	records := readIndex(t, x.Path())
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d: %+v", len(records), records)
	}
	if records[0].Identifier.ID != "other.ext" {
		t.Errorf("records[0] = %+v, want other.ext kept", records[0])
	}
	if records[1].Identifier.ID != "pub.ext" || records[1].Version != "1.0.0" ||
		records[1].RelativeLocation != "pub.ext-1.0.0-darwin-arm64" {
		t.Errorf("records[1] = %+v", records[1])
	}
}

func TestExtensionsIndex_RejectsNonArray(t *testing.T) {
	dir := t.TempDir()
	x := NewExtensionsIndex(dir)
	if err := os.WriteFile(x.Path(), []byte(`{"not":"an array"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := x.Upsert(candidate("1.0.0", ""), dir, 1); err == nil {
		t.Fatal("expected error for non-array index")
	}
}

func TestFileURIPath(t *testing.T) {
	if got := fileURIPath("/home/u/.vscode/extensions/x"); got != "/home/u/.vscode/extensions/x" {
		t.Errorf("fileURIPath() = %q", got)
	}
}

func TestExtensionsIndex_Remove(t *testing.T) {
	dir := t.TempDir()
	x := NewExtensionsIndex(dir)

	removed, err := x.Remove("pub.ext")
	if err != nil || removed {
		t.Fatalf("Remove() without index = %v, %v; want false, nil", removed, err)
	}
	if x.Exists() {
		t.Fatal("Remove() created an index")
	}

	content := `[
	{"identifier": {"id": "pub.ext"}, "version": "0.9.0"},
	{"identifier": {"id": "other.ext"}, "version": "3.0.0"},
	{"identifier": {"id": "Pub.Ext"}, "version": "1.0.0"},
]`
	if err := os.WriteFile(x.Path(), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	removed, err = x.Remove("pub.ext")
	if err != nil || !removed {
		t.Fatalf("Remove() = %v, %v; want true, nil", removed, err)
	}
	records := readIndex(t, x.Path())
	if len(records) != 1 || records[0].Identifier.ID != "other.ext" {
		t.Errorf("records = %+v, want only other.ext", records)
	}

	removed, err = x.Remove("pub.ext")
	if err != nil || removed {
		t.Errorf("second Remove() = %v, %v; want false, nil", removed, err)
	}
}
