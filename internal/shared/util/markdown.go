package util

import (
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

var htmlTag = regexp.MustCompile(`(?i)</?(p|div|br|ul|ol|li|h[1-6]|span|strong|b|em|i|a|table|tr|td|section|article)(\s[^>]*)?/?>`)

// LooksLikeHTML reports whether s contains common block or inline HTML tags.
func LooksLikeHTML(s string) bool {
	return htmlTag.MatchString(s)
}

// MarkdownFromHTML converts HTML fragments to markdown. Plain text is returned trimmed and
// unchanged; a conversion failure falls back to the input.
func MarkdownFromHTML(s string) string {
	trimmed := strings.TrimSpace(s)
	if !LooksLikeHTML(trimmed) {
		return trimmed
	}
	md, err := htmltomarkdown.ConvertString(trimmed)
	if err != nil {
		return trimmed
	}
	return strings.TrimSpace(md)
}
