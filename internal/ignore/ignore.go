// Package ignore reads .codeshieldignore files: one gitignore-style glob per
// line, blank lines and # comments skipped.
package ignore

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"path"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
)

// FileName is looked up in the scan root.
const FileName = ".codeshieldignore"

// Matcher reports whether a slash-separated relative path is ignored.
type Matcher struct {
	patterns []string
}

// Load reads patterns from p. A missing file yields an empty matcher.
func Load(p string) (Matcher, error) {
	f, err := os.Open(p)
	if errors.Is(err, fs.ErrNotExist) {
		return Matcher{}, nil
	}
	if err != nil {
		return Matcher{}, err
	}
	defer f.Close()
	var m Matcher
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		m.patterns = append(m.patterns, line)
	}
	return m, sc.Err()
}

// Match applies each pattern to the full path, its base name and, for
// directory patterns ending in "/", every leading directory.
func (m Matcher) Match(rel string) bool {
	rel = strings.TrimPrefix(strings.ReplaceAll(rel, "\\", "/"), "./")
	for _, p := range m.patterns {
		if strings.HasSuffix(p, "/") {
			dir := strings.TrimSuffix(p, "/")
			for _, seg := range leadingDirs(rel) {
				if ok, _ := doublestar.Match(dir, seg); ok {
					return true
				}
				if ok, _ := doublestar.Match(dir, path.Base(seg)); ok {
					return true
				}
			}
			continue
		}
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(p, path.Base(rel)); ok {
			return true
		}
	}
	return false
}

// MatchDir reports whether a whole directory is ignored, so a walk can
// prune it.
func (m Matcher) MatchDir(rel string) bool {
	rel = strings.TrimPrefix(strings.ReplaceAll(rel, "\\", "/"), "./")
	for _, p := range m.patterns {
		p = strings.TrimSuffix(p, "/")
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(p, path.Base(rel)); ok {
			return true
		}
	}
	return false
}

// Empty reports whether no patterns were loaded.
func (m Matcher) Empty() bool { return len(m.patterns) == 0 }

func leadingDirs(rel string) []string {
	var out []string
	for d := path.Dir(rel); d != "." && d != "/"; d = path.Dir(d) {
		out = append(out, d)
	}
	return out
}
