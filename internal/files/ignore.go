// Package files edits the small project files the fix command touches.
package files

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// AppendIgnore ensures the given pattern is present in .gitignore at repoRoot.
// It creates the file if missing. Idempotent.
func AppendIgnore(repoRoot, pattern string) (bool, error) {
	return AppendPattern(filepath.Join(repoRoot, ".gitignore"), pattern)
}

// AppendPattern adds pattern as its own line to the ignore-style file at
// path unless an identical line exists. It reports whether it wrote.
func AppendPattern(path, pattern string) (bool, error) {
	lines, endsWithNewline, err := readLines(path)
	if err != nil {
		return false, err
	}
	for _, l := range lines {
		if strings.TrimSpace(l) == pattern {
			return false, nil
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return false, err
	}
	defer f.Close()
	prefix := ""
	if len(lines) > 0 && !endsWithNewline {
		prefix = "\n"
	}
	if _, err := f.WriteString(prefix + pattern + "\n"); err != nil {
		return false, err
	}
	return true, nil
}

// EnsureEnvExample appends each KEY=placeholder entry to .env.example unless
// the key is already declared. It returns the entries it added.
func EnsureEnvExample(repoRoot string, entries []string) ([]string, error) {
	path := filepath.Join(repoRoot, ".env.example")
	lines, endsWithNewline, err := readLines(path)
	if err != nil {
		return nil, err
	}
	declared := map[string]bool{}
	for _, l := range lines {
		if k := envKey(l); k != "" {
			declared[k] = true
		}
	}
	var add []string
	for _, e := range entries {
		k := envKey(e)
		if k == "" || declared[k] {
			continue
		}
		declared[k] = true
		add = append(add, e)
	}
	if len(add) == 0 {
		return nil, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var b strings.Builder
	if len(lines) > 0 && !endsWithNewline {
		b.WriteString("\n")
	}
	for _, e := range add {
		b.WriteString(e + "\n")
	}
	if _, err := f.WriteString(b.String()); err != nil {
		return nil, err
	}
	return add, nil
}

func envKey(line string) string {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return ""
	}
	line = strings.TrimPrefix(line, "export ")
	k, _, ok := strings.Cut(line, "=")
	if !ok {
		return ""
	}
	return strings.TrimSpace(k)
}

// readLines returns the lines of path; a missing file reads as empty.
func readLines(path string) ([]string, bool, error) {
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var lines []string
	sc := bufio.NewScanner(strings.NewReader(string(b)))
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines, len(b) == 0 || b[len(b)-1] == '\n', sc.Err()
}
