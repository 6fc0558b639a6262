package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type sample struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
}

func (s *sample) Validate() error {
	if s.Count < 0 {
		return errors.New("count must not be negative")
	}
	return nil
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoad_ExpandsEnvAndKeepsDefaults(t *testing.T) {
	t.Setenv("LINKSHELF_TEST_NAME", "from-env")
	p := writeConfig(t, "name: ${LINKSHELF_TEST_NAME}\n")

	cfg := sample{Count: 3}
	if err := Load(p, &cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "from-env" || cfg.Count != 3 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoad_UnknownKey(t *testing.T) {
	p := writeConfig(t, "nmae: typo\n")
	var cfg sample
	if err := Load(p, &cfg); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	p := writeConfig(t, "")
	cfg := sample{Name: "kept"}
	if err := Load(p, &cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "kept" {
		t.Errorf("name = %q", cfg.Name)
	}
}

func TestLoad_ValidationFails(t *testing.T) {
	p := writeConfig(t, "count: -1\n")
	var cfg sample
	err := Load(p, &cfg)
	if err == nil || !strings.Contains(err.Error(), "config validation failed") {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLoad_Missing(t *testing.T) {
	var cfg sample
	err := Load(filepath.Join(t.TempDir(), "absent.yaml"), &cfg)
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
}

func TestLoadOptional_Missing(t *testing.T) {
	cfg := sample{Name: "default"}
	if err := LoadOptional(filepath.Join(t.TempDir(), "absent.yaml"), &cfg); err != nil {
		t.Fatalf("LoadOptional: %v", err)
	}
	if cfg.Name != "default" {
		t.Errorf("name = %q", cfg.Name)
	}

	bad := sample{Count: -5}
	if err := LoadOptional(filepath.Join(t.TempDir(), "absent.yaml"), &bad); err == nil {
		t.Error("defaults should still be validated")
	}
}
