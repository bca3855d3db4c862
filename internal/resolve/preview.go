package resolve

import (
	"os"
	"strings"
	"unicode/utf8"
)

// defaultPreviewRunes caps the snippet length included in log lines.
const defaultPreviewRunes = 160

// Stats holds basic local text features of a script's content, used only for
// logging previews.
type Stats struct {
	Bytes int
	Runes int
	Words int
	Lines int
}

// Preview is a clamped look at a script's content for log output. The full
// content is never placed in a result payload.
type Preview struct {
	Snippet   string
	Truncated bool
	Stats     Stats
}

// ContentPreview reads the file at absPath and returns a snippet of at most
// maxRunes runes (defaulting when <= 0) together with content stats. Errors
// are returned untouched; callers treat a failed preview as log-only noise.
func ContentPreview(absPath string, maxRunes int) (Preview, error) {
	if maxRunes <= 0 {
		maxRunes = defaultPreviewRunes
	}
	b, err := os.ReadFile(absPath)
	if err != nil {
		return Preview{}, err
	}
	s := string(b)

	snippet, truncated := clampRunes(s, maxRunes)
	// Keep multi-line scripts on one log line.
	snippet = strings.ReplaceAll(snippet, "\n", "\\n")

	return Preview{
		Snippet:   snippet,
		Truncated: truncated,
		Stats:     countStats(s),
	}, nil
}

// countStats computes byte, rune, word, and line counts for s.
func countStats(s string) Stats {
	lines := 0
	if s != "" {
		lines = 1 + strings.Count(s, "\n")
	}
	return Stats{
		Bytes: len(s),
		Runes: utf8.RuneCountInString(s),
		Words: len(strings.Fields(s)),
		Lines: lines,
	}
}

// clampRunes truncates s to at most n runes, reporting whether it did.
func clampRunes(s string, n int) (string, bool) {
	r := []rune(s)
	if len(r) <= n {
		return s, false
	}
	return string(r[:n]), true
}
