package engine

import (
	"context"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
	"github.com/codeshield/codeshield/internal/ignore"
)

// collect walks root and returns eligible files in traversal order.
func (s *Scanner) collect(ctx context.Context, root string) ([]string, error) {
	ign, err := ignore.Load(filepath.Join(root, ignore.FileName))
	if err != nil {
		s.log.WithError(err).Warn("could not read ignore file")
	}
	var files []string
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			s.warn(p, err)
			if d != nil && d.IsDir() && p != root {
				return filepath.SkipDir
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		rel, _ := filepath.Rel(root, p)
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if p != root && (s.opts.SkipDirs[d.Name()] || ign.MatchDir(rel)) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			s.warn(p, err)
			return nil
		}
		if s.eligible(p, rel, info.Size(), ign) {
			files = append(files, p)
		}
		return nil
	})
	return files, err
}

// eligible applies the extension, glob, ignore-file and size filters to one
// file. rel is slash-separated and relative to the scan root.
func (s *Scanner) eligible(p, rel string, size int64, ign ignore.Matcher) bool {
	if hasSkippedExtension(path.Base(rel), s.opts.SkipExtensions) {
		return false
	}
	for _, dir := range strings.Split(path.Dir(rel), "/") {
		if s.opts.SkipDirs[dir] {
			return false
		}
	}
	if !s.allowedByGlobs(rel) || ign.Match(rel) {
		return false
	}
	if s.opts.MaxBytes > 0 && size > s.opts.MaxBytes {
		s.log.WithField("path", p).Debug("skipping file over size limit")
		return false
	}
	return true
}

func (s *Scanner) allowedByGlobs(rel string) bool {
	if len(s.includes) > 0 && !matchAnyGlob(rel, s.includes) {
		return false
	}
	if len(s.excludes) > 0 && matchAnyGlob(rel, s.excludes) {
		return false
	}
	return true
}

func parseGlobsList(globs []string) []string {
	var out []string
	for _, g := range globs {
		for _, p := range strings.Split(g, ",") {
			p = strings.TrimSpace(p)
			if p != "" {
				out = append(out, p, trimGlobPrefix(p))
			}
		}
	}
	return out
}

func matchAnyGlob(pathToMatch string, globs []string) bool {
	for _, g := range globs {
		if ok, _ := doublestar.Match(g, pathToMatch); ok {
			return true
		}
		if ok, _ := doublestar.Match(g, filepath.Base(pathToMatch)); ok {
			return true
		}
	}
	return false
}

func trimGlobPrefix(g string) string {
	s := strings.TrimPrefix(g, "./")
	for strings.HasPrefix(s, "**/") {
		s = strings.TrimPrefix(s, "**/")
	}
	return s
}

func looksBinary(b []byte) bool {
	const sniff = 800
	n := sniff
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if b[i] == 0 {
			return true
		}
	}
	return false
}
