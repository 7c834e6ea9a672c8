package host

import (
	"os"
	"path/filepath"
	"testing"
)

func TestHostRegistry(t *testing.T) {
	all := All()
	if len(all) != 5 {
		t.Fatalf("expected 5 hosts, got %d", len(all))
	}

	expected := []string{"vscode", "vscode-insiders", "cursor", "windsurf", "vscodium"}
	names := make(map[string]bool)
	for _, h := range all {
		names[h.Name()] = true
	}
	for _, name := range expected {
		if !names[name] {
			t.Errorf("expected host %q not found in registry", name)
		}
	}
}

func TestByName(t *testing.T) {
	h, ok := ByName("cursor")
	if !ok {
		t.Fatal("ByName(cursor) not found")
	}
	if h.DisplayName() != "Cursor" {
		t.Errorf("DisplayName() = %q", h.DisplayName())
	}
	if h.CLIName() != "cursor" {
		t.Errorf("CLIName() = %q", h.CLIName())
	}
}

func TestByName_CLIAlias(t *testing.T) {
	h, ok := ByName("Code")
	if !ok {
		t.Fatal("ByName(Code) not found")
	}
	if h.Name() != "vscode" {
		t.Errorf("Name() = %q, want vscode", h.Name())
	}
}

func TestMustByName_Unknown(t *testing.T) {
	_, err := MustByName("notepad")
	if err == nil {
		t.Fatal("expected error for unknown host")
	}
}

func TestCLINamesAreUnique(t *testing.T) {
	seen := make(map[string]string)
	for _, h := range All() {
		if other, dup := seen[h.CLIName()]; dup {
			t.Errorf("hosts %q and %q share CLI name %q", other, h.Name(), h.CLIName())
		}
		seen[h.CLIName()] = h.Name()
	}
}

func TestExtensionsDir_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	h, _ := ByName("vscode")
	want := filepath.Join(home, ".vscode", "extensions")
	if got := h.ExtensionsDir(); got != want {
		t.Errorf("ExtensionsDir() = %q, want %q", got, want)
	}
}

func TestWithExtensionsDir(t *testing.T) {
	h, _ := ByName("vscodium")
	dir := t.TempDir()

	o := WithExtensionsDir(h, dir)
	if o.ExtensionsDir() != dir {
		t.Errorf("ExtensionsDir() = %q, want %q", o.ExtensionsDir(), dir)
	}
	if o.Name() != "vscodium" || o.CLIName() != "codium" {
		t.Errorf("override changed identity: %s/%s", o.Name(), o.CLIName())
	}
	if WithExtensionsDir(h, "") != h {
		t.Error("empty override should return the host unchanged")
	}
}

func TestDetect(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	if got := Detect(); len(got) != 0 {
		t.Fatalf("Detect() on empty home = %v", Names(got))
	}

	if err := os.MkdirAll(filepath.Join(home, ".windsurf"), 0o755); err != nil {
		t.Fatal(err)
	}
	got := Detect()
	if len(got) != 1 || got[0].Name() != "windsurf" {
		t.Fatalf("Detect() = %v, want [windsurf]", Names(got))
	}
}
