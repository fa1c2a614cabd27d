package chunker

import (
	"regexp"
	"strings"
)

var (
	hspaceRun   = regexp.MustCompile(`[ \t]+`)
	newlineRun  = regexp.MustCompile(`\n{3,}`)
)

// Normalize canonicalizes text before chunking: CRLF becomes LF, leading
// and trailing whitespace is stripped, runs of spaces and tabs collapse to
// a single space, and runs of three or more newlines collapse to exactly
// two. Word content and single/double newline structure are preserved.
func Normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.TrimSpace(s)
	s = hspaceRun.ReplaceAllString(s, " ")
	s = newlineRun.ReplaceAllString(s, "\n\n")
	return s
}
