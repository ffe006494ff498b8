package config

import (
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

// withTempHome points the config layer at a throwaway home directory and
// clears viper's global state.
func withTempHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	viper.Reset()
	t.Cleanup(viper.Reset)
	return home
}

func TestLoadDefaults(t *testing.T) {
	withTempHome(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Provider != "openai" {
		t.Errorf("Provider = %q, want openai", cfg.Provider)
	}
	if cfg.Model != "gpt-4o" {
		t.Errorf("Model = %q, want gpt-4o", cfg.Model)
	}
	if cfg.Mode != "casual" {
		t.Errorf("Mode = %q, want casual", cfg.Mode)
	}
	if cfg.DebounceMs != 1500 {
		t.Errorf("DebounceMs = %d, want 1500", cfg.DebounceMs)
	}
	if cfg.MinCheckChars != 5 {
		t.Errorf("MinCheckChars = %d, want 5", cfg.MinCheckChars)
	}
	if cfg.IndicatorCap != 9 {
		t.Errorf("IndicatorCap = %d, want 9", cfg.IndicatorCap)
	}
	if !cfg.RateLimitEnabled {
		t.Error("RateLimitEnabled = false, want true")
	}
	if cfg.RequestTimeoutSeconds != 30 {
		t.Errorf("RequestTimeoutSeconds = %d, want 30", cfg.RequestTimeoutSeconds)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	withTempHome(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	cfg.Model = "gpt-4o-mini"
	cfg.DebounceMs = 800
	cfg.TranslationLanguage = "de"

	if err := Save(cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	viper.Reset()
	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() after Save error = %v", err)
	}
	if loaded.Model != "gpt-4o-mini" {
		t.Errorf("Model = %q, want gpt-4o-mini", loaded.Model)
	}
	if loaded.DebounceMs != 800 {
		t.Errorf("DebounceMs = %d, want 800", loaded.DebounceMs)
	}
	if loaded.TranslationLanguage != "de" {
		t.Errorf("TranslationLanguage = %q, want de", loaded.TranslationLanguage)
	}
}

func TestSetValidation(t *testing.T) {
	withTempHome(t)

	if err := Set("", "value"); err == nil {
		t.Error("Set() with empty key succeeded")
	}
	if err := Set("bad key", "value"); err == nil {
		t.Error("Set() with whitespace in key succeeded")
	}
	if err := Set("model", "gpt-4o"); err != nil {
		t.Errorf("Set() error = %v", err)
	}
}

func TestDir(t *testing.T) {
	home := withTempHome(t)
	dir, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error = %v", err)
	}
	if dir != filepath.Join(home, ".redraft") {
		t.Errorf("Dir() = %q", dir)
	}
}
