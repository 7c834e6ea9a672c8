package core

import (
	"errors"
	"os/exec"
	"testing"

	"github.com/barysiuk/vsix/internal/core/host"
)

func testHost(t *testing.T, name string) host.Host {
	t.Helper()
	h, err := host.MustByName(name)
	if err != nil {
		t.Fatal(err)
	}
	return host.WithExtensionsDir(h, t.TempDir())
}

func TestSelectStrategy_CLIOnPath(t *testing.T) {
	var looked []string
	s := &Selector{
		PreferCLI: true,
		LookPath: func(file string) (string, error) {
			looked = append(looked, file)
			return "/opt/bin/" + file, nil
		},
	}

	m, err := s.SelectStrategy(testHost(t, "cursor"))
	if err != nil {
		t.Fatalf("SelectStrategy() error: %v", err)
	}
	cli, ok := m.(HostCLI)
	if !ok {
		t.Fatalf("method = %T, want HostCLI", m)
	}
	if cli.Path != "/opt/bin/cursor" {
		t.Errorf("Path = %q", cli.Path)
	}
	if len(looked) != 1 || looked[0] != "cursor" {
		t.Errorf("looked up %v", looked)
	}
}

func TestSelectStrategy_CLIAbsent(t *testing.T) {
	s := &Selector{
		PreferCLI: true,
		LookPath: func(file string) (string, error) {
			return "", &exec.Error{Name: file, Err: exec.ErrNotFound}
		},
	}
	h := testHost(t, "vscode")

	m, err := s.SelectStrategy(h)
	if err != nil {
		t.Fatalf("SelectStrategy() error: %v", err)
	}
	de, ok := m.(DirectExtraction)
	if !ok {
		t.Fatalf("method = %T, want DirectExtraction", m)
	}
	if de.Dir != h.ExtensionsDir() {
		t.Errorf("Dir = %q, want %q", de.Dir, h.ExtensionsDir())
	}
}

func TestSelectStrategy_ReevaluatesEveryCall(t *testing.T) {
	onPath := false
	s := &Selector{
		PreferCLI: true,
		LookPath: func(file string) (string, error) {
			if onPath {
				return "/usr/bin/" + file, nil
			}
			return "", exec.ErrNotFound
		},
	}
	h := testHost(t, "vscodium")

	m, _ := s.SelectStrategy(h)
	if _, ok := m.(DirectExtraction); !ok {
		t.Fatalf("first call = %T, want DirectExtraction", m)
	}

	onPath = true
	m, _ = s.SelectStrategy(h)
	if _, ok := m.(HostCLI); !ok {
		t.Fatalf("second call = %T, want HostCLI", m)
	}
}

func TestSelectStrategy_CLIDisabled(t *testing.T) {
	s := &Selector{
		PreferCLI: false,
		LookPath: func(string) (string, error) {
			t.Error("LookPath should not be called when CLIs are disabled")
			return "", errors.New("unexpected")
		},
	}
	m, err := s.SelectStrategy(testHost(t, "windsurf"))
	if err != nil {
		t.Fatalf("SelectStrategy() error: %v", err)
	}
	if _, ok := m.(DirectExtraction); !ok {
		t.Fatalf("method = %T, want DirectExtraction", m)
	}
}
