package internal

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig_Valid(t *testing.T) {
	if err := NewDefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should pass: %v", err)
	}
}

func TestApplicationConfig_EmptyFormatDefaultsText(t *testing.T) {
	cfg := ApplicationConfig{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty format should default to text: %v", err)
	}
	if cfg.LogFormat != LogFormatText {
		t.Errorf("format = %q, want %q", cfg.LogFormat, LogFormatText)
	}
}

func TestApplicationConfig_InvalidFormat(t *testing.T) {
	cfg := ApplicationConfig{LogFormat: "xml"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("invalid log format should fail validation")
	}
}

func TestEntriesConfig_RootRequired(t *testing.T) {
	cfg := EntriesConfig{}
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "root") {
		t.Fatalf("expected root error, got %v", err)
	}
}

func TestEntriesConfig_DefaultURLMustBeURL(t *testing.T) {
	cfg := EntriesConfig{Root: "entries", DefaultURL: "not a url"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("invalid default URL should fail")
	}
}

func TestFetchConfig_Bounds(t *testing.T) {
	cfg := FetchConfig{Timeout: 10 * time.Millisecond, MaxBytes: 1 << 20}
	if err := cfg.Validate(); err == nil {
		t.Error("sub-second timeout should fail")
	}
	cfg = FetchConfig{Timeout: time.Second, MaxBytes: 10}
	if err := cfg.Validate(); err == nil {
		t.Error("tiny max_bytes should fail")
	}
}

func TestFullConfig_ImagesValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Images.Concurrency = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("full config validate should catch images error")
	}
}
