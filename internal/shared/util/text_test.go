package util

import "testing"

func TestFirstLine(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Senior Go Engineer\nWe build things", "Senior Go Engineer"},
		{"\n\n  Staff SRE  \nrest", "Staff SRE"},
		{"", ""},
		{"   \n\t", ""},
	}
	for _, tt := range tests {
		if got := FirstLine(tt.in); got != tt.want {
			t.Fatalf("FirstLine(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := TruncateRunes("héllo wörld", 5); got != "héllo" {
		t.Fatalf("unexpected truncation %q", got)
	}
	if got := TruncateRunes("short", 100); got != "short" {
		t.Fatalf("unexpected %q", got)
	}
	if got := TruncateRunes("abc", 0); got != "" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := FirstNonEmpty("", "  ", " b ", "c"); got != "b" {
		t.Fatalf("unexpected %q", got)
	}
}
