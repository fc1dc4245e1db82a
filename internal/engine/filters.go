package engine

import "strings"

// DefaultSkipDirs are pruned during directory scans.
func DefaultSkipDirs() map[string]bool {
	return map[string]bool{
		".git":         true,
		"node_modules": true,
		"__pycache__":  true,
		".venv":        true,
		"venv":         true,
		"dist":         true,
		"build":        true,
		".next":        true,
		"vendor":       true,
		"target":       true,
		"coverage":     true,
		".tox":         true,
		".mypy_cache":  true,
	}
}

// DefaultSkipExtensions are never read during directory scans.
func DefaultSkipExtensions() map[string]bool {
	m := map[string]bool{}
	for _, e := range []string{
		".jpg", ".jpeg", ".png", ".gif", ".ico", ".svg", ".webp",
		".pdf", ".zip", ".tar", ".gz", ".tgz", ".7z",
		".exe", ".bin", ".dll", ".so", ".class", ".jar", ".pyc", ".wasm",
		".lock", ".sum", ".map",
	} {
		m[e] = true
	}
	return m
}

// NormalizeExtensions lower-cases and dot-prefixes user supplied extensions.
func NormalizeExtensions(exts []string) map[string]bool {
	m := map[string]bool{}
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		m[e] = true
	}
	return m
}

// SetOf builds a lookup set, dropping blanks.
func SetOf(items []string) map[string]bool {
	m := map[string]bool{}
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			m[it] = true
		}
	}
	return m
}

func hasSkippedExtension(name string, skip map[string]bool) bool {
	lower := strings.ToLower(name)
	// compound suffixes such as .min.js or .tar.gz
	for ext := range skip {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
