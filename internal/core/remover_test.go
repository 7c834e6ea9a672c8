package core

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRemover_Remove(t *testing.T) {
	dir := t.TempDir()
	old := writeInstalled(t, dir, "pub.ext-0.9.0", `{"publisher":"pub","name":"ext","version":"0.9.0"}`)
	cur := writeInstalled(t, dir, "pub.ext-1.0.0", `{"publisher":"pub","name":"ext","version":"1.0.0"}`)
	other := writeInstalled(t, dir, "other.ext-1.0.0", `{"publisher":"other","name":"ext","version":"1.0.0"}`)

	index := `[{"identifier":{"id":"pub.ext"},"version":"1.0.0"},{"identifier":{"id":"other.ext"},"version":"1.0.0"}]`
	if err := os.WriteFile(filepath.Join(dir, extensionsIndexFile), []byte(index), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := NewRemover(dir).Remove("pub.ext")
	if err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	if len(result.Removed) != 2 || !result.Indexed {
		t.Errorf("result = %+v, want 2 removed and indexed", result)
	}
	for _, p := range []string{old, cur} {
		if dirExists(p) {
			t.Errorf("%s still exists", p)
		}
	}
	if !dirExists(other) {
		t.Error("unrelated extension was removed")
	}

	records := readIndex(t, filepath.Join(dir, extensionsIndexFile))
	if len(records) != 1 || records[0].Identifier.ID != "other.ext" {
		t.Errorf("index = %+v, want only other.ext", records)
	}
}

func TestRemover_NotInstalled(t *testing.T) {
	_, err := NewRemover(t.TempDir()).Remove("pub.ext")
	if !errors.Is(err, ErrExtensionNotFound) {
		t.Fatalf("error = %v, want ErrExtensionNotFound", err)
	}
	if !strings.Contains(err.Error(), "not installed") {
		t.Errorf("error %q does not say not installed", err)
	}
}

func TestRemover_InvalidID(t *testing.T) {
	_, err := NewRemover(t.TempDir()).Remove("nodot")
	if !errors.Is(err, ErrInvalidExtensionID) {
		t.Errorf("error = %v, want ErrInvalidExtensionID", err)
	}
}

func TestRemover_BrokenIndexIsNotFatal(t *testing.T) {
	dir := t.TempDir()
	writeInstalled(t, dir, "pub.ext-1.0.0", `{"publisher":"pub","name":"ext","version":"1.0.0"}`)
	if err := os.WriteFile(filepath.Join(dir, extensionsIndexFile), []byte(`{"not":"an array"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := NewRemover(dir).Remove("pub.ext")
	if err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	if result.Indexed {
		t.Error("Indexed = true for an unreadable index")
	}
}
