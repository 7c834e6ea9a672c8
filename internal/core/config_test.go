package core

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfigManager_LoadDefault(t *testing.T) {
	cm := NewConfigManagerWithDir(t.TempDir())

	cfg, err := cm.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.CLIPreferred() {
		t.Error("default config should prefer host CLIs")
	}
	if cfg.Timeout() != defaultHTTPTimeout {
		t.Errorf("Timeout() = %v, want %v", cfg.Timeout(), defaultHTTPTimeout)
	}
}

func TestConfigManager_SaveAndLoad(t *testing.T) {
	cm := NewConfigManagerWithDir(filepath.Join(t.TempDir(), "nested"))

	preferCLI := false
	cfg := &Config{
		MarketplaceURL: "https://open-vsx.example",
		DefaultTarget:  "cursor",
		PreferCLI:      &preferCLI,
		TimeoutSeconds: 5,
		ExtensionsDirs: map[string]string{"vscode": "/opt/ext"},
	}
	if err := cm.Save(cfg); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := cm.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.MarketplaceURL != cfg.MarketplaceURL || loaded.DefaultTarget != "cursor" {
		t.Errorf("loaded = %+v", loaded)
	}
	if loaded.CLIPreferred() {
		t.Error("preferCli false was not kept")
	}
	if loaded.Timeout() != 5*time.Second {
		t.Errorf("Timeout() = %v", loaded.Timeout())
	}
	if loaded.ExtensionsDirs["vscode"] != "/opt/ext" {
		t.Errorf("ExtensionsDirs = %v", loaded.ExtensionsDirs)
	}
}

func TestConfigManager_LoadJSONC(t *testing.T) {
	dir := t.TempDir()
	content := `{
	// marketplace mirror
	"marketplaceUrl": "https://mirror.example",
	"preferCli": true,
}
`
	if err := os.WriteFile(filepath.Join(dir, configFileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewConfigManagerWithDir(dir).Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.MarketplaceURL != "https://mirror.example" {
		t.Errorf("MarketplaceURL = %q", cfg.MarketplaceURL)
	}
}

func TestConfigManager_LoadInvalid(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, configFileName), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewConfigManagerWithDir(dir).Load(); err == nil {
		t.Fatal("expected error for invalid config")
	}
}

func TestResolveMarketplaceURL(t *testing.T) {
	cfg := &Config{MarketplaceURL: "https://config.example"}

	t.Setenv(MarketplaceEnv, "")
	if got := ResolveMarketplaceURL("", &Config{}); got != DefaultMarketplaceURL {
		t.Errorf("default = %q", got)
	}
	if got := ResolveMarketplaceURL("", cfg); got != "https://config.example" {
		t.Errorf("config = %q", got)
	}

	t.Setenv(MarketplaceEnv, "https://env.example")
	if got := ResolveMarketplaceURL("", cfg); got != "https://env.example" {
		t.Errorf("env = %q", got)
	}
	if got := ResolveMarketplaceURL("https://flag.example", cfg); got != "https://flag.example" {
		t.Errorf("flag = %q", got)
	}
}
