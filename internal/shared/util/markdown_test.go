package util

import (
	"strings"
	"testing"
)

func TestMarkdownFromHTMLPlainTextUntouched(t *testing.T) {
	in := "  Backend Engineer\nGo, Postgres & <3 for tests  "
	if got := MarkdownFromHTML(in); got != strings.TrimSpace(in) {
		t.Fatalf("MarkdownFromHTML = %q", got)
	}
}

func TestMarkdownFromHTMLConvertsTags(t *testing.T) {
	got := MarkdownFromHTML("<h2>Senior Engineer</h2><ul><li>Go</li><li>SQL</li></ul>")
	if strings.Contains(got, "<li>") || strings.Contains(got, "<h2>") {
		t.Fatalf("tags left in output: %q", got)
	}
	if !strings.Contains(got, "Senior Engineer") || !strings.Contains(got, "- Go") {
		t.Fatalf("unexpected markdown: %q", got)
	}
}

func TestLooksLikeHTML(t *testing.T) {
	tests := map[string]bool{
		"<p>hello</p>":        true,
		"line<br/>break":      true,
		"a < b and c > d":     false,
		"use <T> generics":    false,
		`<a href="x">link</a>`: true,
	}
	for in, want := range tests {
		if got := LooksLikeHTML(in); got != want {
			t.Fatalf("LooksLikeHTML(%q) = %v, want %v", in, got, want)
		}
	}
}
