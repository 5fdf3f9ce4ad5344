package deck

import (
	"testing"

	"gfx.cafe/gfx/deck/lib/util/ring"
)

func TestConfig_Validate(t *testing.T) {
	for _, f := range []Format{FormatText, FormatJSON, FormatLegacy} {
		conf := defaultConfig()
		conf.Format = string(f)
		if err := conf.Validate(); err != nil {
			t.Error("expected", f, "to be valid but got", err)
		}
	}

	conf := defaultConfig()
	conf.Format = "yaml"
	if err := conf.Validate(); err == nil {
		t.Error("expected yaml to be rejected")
	}

	for _, c := range []int{-1, ring.MaxCapacity + 1} {
		conf = defaultConfig()
		conf.MaxCapacity = c
		if err := conf.Validate(); err == nil {
			t.Error("expected max capacity", c, "to be rejected")
		}
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("DECK_FORMAT", "json")
	t.Setenv("DECK_FAIL_FAST", "true")
	t.Setenv("DECK_MAX_CAPACITY", "64")

	conf, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if conf.Format != string(FormatJSON) || !conf.FailFast || conf.MaxCapacity != 64 {
		t.Error("expected environment to be loaded, got", conf)
	}
}

func TestLoad_BadFormat(t *testing.T) {
	t.Setenv("DECK_FORMAT", "xml")
	if _, err := Load(); err == nil {
		t.Error("expected an unknown format to be rejected")
	}
}
