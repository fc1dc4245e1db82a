package detectors

import (
	"strings"
	"unicode/utf8"
)

// MaxSnippet caps CodeSnippet length in characters.
const MaxSnippet = 100

// forEachLine calls fn with the 1-based number and text of every line that
// is not silenced by an inline marker. Markers:
//
//	codeshield:ignore             skip this line
//	codeshield:ignore-next-line   skip the following line
//	codeshield:ignore-start/end   skip a region
func forEachLine(content string, fn func(n int, text string)) {
	ignoreRegion := false
	skipNext := false
	for i, t := range strings.Split(content, "\n") {
		t = strings.TrimSuffix(t, "\r")
		if strings.Contains(t, "codeshield:ignore-start") {
			ignoreRegion = true
			continue
		}
		if strings.Contains(t, "codeshield:ignore-end") {
			ignoreRegion = false
			continue
		}
		if ignoreRegion {
			continue
		}
		if strings.Contains(t, "codeshield:ignore-next-line") {
			skipNext = true
			continue
		}
		if skipNext {
			skipNext = false
			continue
		}
		if strings.Contains(t, "codeshield:ignore") {
			continue
		}
		fn(i+1, t)
	}
}

// isComment reports whether the trimmed line starts with one of markers.
func isComment(trimmed string, markers ...string) bool {
	for _, m := range markers {
		if strings.HasPrefix(trimmed, m) {
			return true
		}
	}
	return false
}

// snippet is the trimmed line capped at MaxSnippet characters.
func snippet(text string) string {
	s := strings.TrimSpace(text)
	if utf8.RuneCountInString(s) <= MaxSnippet {
		return s
	}
	return string([]rune(s)[:MaxSnippet])
}

// containsAny reports whether s contains any of subs.
func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
