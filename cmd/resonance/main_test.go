package main

import (
	"testing"

	"github.com/ternarybob/resonance/internal/config"
)

func TestParseGenFlags(t *testing.T) {
	flags, err := parseGenFlags([]string{"--count", "100", "--out", "spiral.html"})
	if err != nil {
		t.Fatalf("parseGenFlags failed: %v", err)
	}
	if flags.count != 100 {
		t.Errorf("count = %d, want 100", flags.count)
	}
	if flags.out != "spiral.html" {
		t.Errorf("out = %q, want spiral.html", flags.out)
	}

	flags, err = parseGenFlags([]string{"--limit", "500", "--preset", "p.toml"})
	if err != nil {
		t.Fatalf("parseGenFlags failed: %v", err)
	}
	if flags.limit != 500 || flags.preset != "p.toml" {
		t.Errorf("unexpected flags: %+v", flags)
	}
}

func TestParseGenFlags_Errors(t *testing.T) {
	cases := [][]string{
		{"--count"},
		{"--count", "abc"},
		{"--limit", "x"},
		{"--bogus"},
	}
	for _, args := range cases {
		if _, err := parseGenFlags(args); err == nil {
			t.Errorf("parseGenFlags(%v) should fail", args)
		}
	}
}

func TestResolveOptions_FlagsWin(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Field.Limit = 1000

	opts := resolveOptions(cfg, genFlags{count: 50})
	if opts.Count != 50 || opts.Limit != 0 {
		t.Errorf("flag count should clear configured limit, got %+v", opts)
	}

	opts = resolveOptions(cfg, genFlags{})
	if opts.Limit != 1000 {
		t.Errorf("configured limit should apply, got %+v", opts)
	}

	opts = resolveOptions(cfg, genFlags{limit: 20})
	if opts.Limit != 20 || opts.Count != 0 {
		t.Errorf("flag limit should win, got %+v", opts)
	}
}
