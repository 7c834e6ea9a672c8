package core

import (
	"os"
	"path/filepath"
	"testing"
)

func writeInstalled(t *testing.T, dir, dirName, manifest string) string {
	t.Helper()
	path := filepath.Join(dir, dirName)
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatal(err)
	}
	if manifest != "" {
		if err := os.WriteFile(filepath.Join(path, packageManifestFile), []byte(manifest), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return path
}

func TestScanner_Scan(t *testing.T) {
	dir := t.TempDir()
	writeInstalled(t, dir, "zed.tool-1.0.0", `{"publisher":"zed","name":"tool","version":"1.0.0"}`)
	writeInstalled(t, dir, "pub.ext-1.0.0-darwin-arm64", `{"publisher":"pub","name":"ext","version":"1.0.0","displayName":"Ext"}`)
	writeInstalled(t, dir, "pub.ext-1.10.0", `{"publisher":"pub","name":"ext","version":"1.10.0"}`)
	writeInstalled(t, dir, "broken-1.0.0", `{not json`)
	writeInstalled(t, dir, "empty", "")
	writeInstalled(t, dir, ".vsix-extract-123", `{"publisher":"tmp","name":"tmp","version":"0.0.1"}`)
	if err := os.WriteFile(filepath.Join(dir, extensionsIndexFile), []byte("[]"), 0o644); err != nil {
		t.Fatal(err)
	}

	exts, err := NewScanner(dir).Scan()
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if len(exts) != 3 {
		t.Fatalf("Scan() found %d extensions, want 3: %+v", len(exts), exts)
	}

	want := []struct {
		id, version string
		platform    Platform
	}{
		{"pub.ext", "1.10.0", ""},
		{"pub.ext", "1.0.0", PlatformDarwinArm64},
		{"zed.tool", "1.0.0", ""},
	}
	for i, w := range want {
		if exts[i].ID != w.id || exts[i].Version != w.version || exts[i].Platform != w.platform {
			t.Errorf("exts[%d] = %+v, want %s %s %q", i, exts[i], w.id, w.version, w.platform)
		}
	}
	if exts[1].DisplayName != "Ext" {
		t.Errorf("DisplayName = %q, want Ext", exts[1].DisplayName)
	}
}

func TestScanner_MissingDir(t *testing.T) {
	exts, err := NewScanner(filepath.Join(t.TempDir(), "nope")).Scan()
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if len(exts) != 0 {
		t.Errorf("Scan() = %+v, want none", exts)
	}
}

func TestScanner_Find(t *testing.T) {
	dir := t.TempDir()
	writeInstalled(t, dir, "pub.ext-1.0.0", `{"publisher":"Pub","name":"Ext","version":"1.0.0"}`)
	writeInstalled(t, dir, "other.ext-1.0.0", `{"publisher":"other","name":"ext","version":"1.0.0"}`)

	found, err := NewScanner(dir).Find("pub.ext")
	if err != nil {
		t.Fatalf("Find() error: %v", err)
	}
	if len(found) != 1 || found[0].ID != "Pub.Ext" {
		t.Errorf("Find() = %+v, want Pub.Ext", found)
	}
}

func TestPlatformFromDirName(t *testing.T) {
	tests := map[string]Platform{
		"pub.ext-1.0.0":              "",
		"pub.ext-1.0.0-linux-x64":    PlatformLinuxX64,
		"pub.ext-1.0.0-alpine-arm64": PlatformAlpineArm64,
		"pub.ext-1.0.0-universal":    "",
	}
	for name, want := range tests {
		if got := platformFromDirName(name); got != want {
			t.Errorf("platformFromDirName(%q) = %q, want %q", name, got, want)
		}
	}
}
