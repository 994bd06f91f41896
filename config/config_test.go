package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type serverConfig struct {
	Command string `toml:"command"`
	Timeout int    `toml:"timeout"`
}

func (c *serverConfig) Validate() error {
	if c.Timeout < 0 {
		return errors.New("timeout must not be negative")
	}
	return nil
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	content := "command = \"gopls\"\ntimeout = 30\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadTOML[serverConfig](path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Command != "gopls" || cfg.Timeout != 30 {
		t.Errorf("loaded %+v", cfg)
	}
}

func TestLoadTOMLMissingFileReturnsDefaults(t *testing.T) {
	defaults := &serverConfig{Command: "fallback"}
	cfg, err := LoadTOML[serverConfig](filepath.Join(t.TempDir(), "absent.toml"), defaults)
	if err != nil {
		t.Fatal(err)
	}
	if cfg != defaults {
		t.Error("missing file did not return defaults")
	}
}

func TestLoadTOMLValidates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	if err := os.WriteFile(path, []byte("timeout = -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadTOML[serverConfig](path, nil); err == nil {
		t.Fatal("invalid config accepted")
	}
}

func TestStoreSwapNotifiesListeners(t *testing.T) {
	store := NewStore(&serverConfig{Timeout: 1})

	var gotOld, gotNew int
	store.OnChange(func(old, new_ *serverConfig) {
		gotOld = old.Timeout
		gotNew = new_.Timeout
	})

	store.Swap(&serverConfig{Timeout: 2})

	if gotOld != 1 || gotNew != 2 {
		t.Errorf("listener saw %d -> %d, want 1 -> 2", gotOld, gotNew)
	}
	if store.Get().Timeout != 2 {
		t.Error("Get did not observe the swap")
	}
}
