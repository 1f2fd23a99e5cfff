package config

import (
	"testing"
	"time"
)

func TestLoadResolvesConfiguredTZ(t *testing.T) {
	t.Setenv("APP_TZ", "America/New_York")

	cfg := Load()

	if cfg.TZName != "America/New_York" {
		t.Errorf("TZName = %q", cfg.TZName)
	}
	if cfg.Location == nil || cfg.Location.String() != "America/New_York" {
		t.Errorf("Location = %v, want America/New_York", cfg.Location)
	}
}

func TestLoadFallsBackOnInvalidTZ(t *testing.T) {
	t.Setenv("APP_TZ", "Not/AZone")

	cfg := Load()

	if cfg.TZName != "Asia/Tokyo" {
		t.Errorf("TZName = %q, want Asia/Tokyo fallback", cfg.TZName)
	}
	if cfg.Location == nil {
		t.Fatal("Location should never be nil")
	}
	// Whether the fallback resolved tzdata or had to settle for a fixed
	// zone, day keys must derive at +9h.
	_, offset := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC).In(cfg.Location).Zone()
	if offset != 9*60*60 {
		t.Errorf("offset = %ds, want +9h", offset)
	}
	if cfg.Location.String() == "Asia/Tokyo" {
		return
	}
	// Fixed-offset last resort must not masquerade as an IANA zone name.
	if cfg.Location.String() != "UTC+9" {
		t.Errorf("fallback zone name = %q, want UTC+9", cfg.Location.String())
	}
}
