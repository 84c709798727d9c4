package textproc

import (
	"regexp"
	"strings"
)

var (
	multiSpace       = regexp.MustCompile(` +`)
	multiNewline     = regexp.MustCompile(`\n{3,}`)
	spaceBeforePunct = regexp.MustCompile(`\s+([.,!?;:])`)
)

// Clean formats raw extracted text: collapses runs of spaces, caps
// consecutive newlines at two, and removes spaces before punctuation.
func Clean(text string) string {
	if text == "" {
		return ""
	}
	text = multiSpace.ReplaceAllString(text, " ")
	text = multiNewline.ReplaceAllString(text, "\n\n")
	text = spaceBeforePunct.ReplaceAllString(text, "$1")
	return strings.TrimSpace(text)
}

// NormalizeLineBreaks converts CRLF and lone CR line endings to LF.
func NormalizeLineBreaks(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

// Preprocess is the complete pipeline applied to backend output before it is
// cached or returned.
func Preprocess(text string) string {
	return Clean(NormalizeLineBreaks(text))
}
