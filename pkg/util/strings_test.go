package util

import "testing"

func TestParseIntDefault(t *testing.T) {
	if got := ParseIntDefault("42", 0); got != 42 {
		t.Fatalf("unexpected %d", got)
	}
	if got := ParseIntDefault("", 7); got != 7 {
		t.Fatalf("expected default for empty, got %d", got)
	}
	if got := ParseIntDefault("nope", 7); got != 7 {
		t.Fatalf("expected default for garbage, got %d", got)
	}
}

func TestNormalizeQuery(t *testing.T) {
	if got := NormalizeQuery("  Desk Lamp "); got != "desk lamp" {
		t.Fatalf("unexpected %q", got)
	}
	if got := NormalizeQuery(""); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
}
