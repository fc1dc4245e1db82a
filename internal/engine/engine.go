package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/codeshield/codeshield/internal/detectors"
	"github.com/codeshield/codeshield/internal/ignore"
	"github.com/codeshield/codeshield/internal/logging"
	"github.com/codeshield/codeshield/internal/report"
	"github.com/codeshield/codeshield/internal/types"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ErrNotFound is returned when the path handed to ScanFile or ScanDirectory
// does not exist.
var ErrNotFound = errors.New("path not found")

// Options controls which files a directory scan reads and how.
type Options struct {
	SkipDirs       map[string]bool // directory base names pruned during walks
	SkipExtensions map[string]bool // lower-case, dot-prefixed
	IncludeGlobs   []string        // comma lists allowed in each entry
	ExcludeGlobs   []string
	MaxBytes       int64 // 0 disables the size limit
	Workers        int   // 0 means GOMAXPROCS
	Logger         logrus.FieldLogger
}

// DefaultOptions mirrors the CLI defaults.
func DefaultOptions() Options {
	return Options{
		SkipDirs:       DefaultSkipDirs(),
		SkipExtensions: DefaultSkipExtensions(),
		MaxBytes:       1 << 20,
	}
}

// Warning is a non-fatal problem met while scanning a path.
type Warning struct {
	Path string
	Err  error
}

func (w Warning) String() string { return w.Path + ": " + w.Err.Error() }

// Scanner is a scan session. Findings accumulate across calls and are never
// removed; use a new Scanner for an independent scan.
type Scanner struct {
	dets     []detectors.Detector
	opts     Options
	log      logrus.FieldLogger
	includes []string
	excludes []string

	mu       sync.Mutex
	findings []types.Finding
	warnings []Warning
	files    int
}

// New creates a session running dets in the given order.
func New(opts Options, dets ...detectors.Detector) *Scanner {
	if opts.SkipDirs == nil {
		opts.SkipDirs = map[string]bool{}
	}
	if opts.SkipExtensions == nil {
		opts.SkipExtensions = map[string]bool{}
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	return &Scanner{
		dets:     dets,
		opts:     opts,
		log:      logging.OrDiscard(opts.Logger),
		includes: parseGlobsList(opts.IncludeGlobs),
		excludes: parseGlobsList(opts.ExcludeGlobs),
	}
}

// ScanFile scans one file and appends its findings to the session. An
// unreadable file yields no findings and a warning rather than an error.
func (s *Scanner) ScanFile(path string) ([]types.Finding, error) {
	found, err := s.scanPath(path, false)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.findings = append(s.findings, found...)
	s.mu.Unlock()
	return found, nil
}

// ScanContent runs the detectors over in-memory text under identifier.
func (s *Scanner) ScanContent(content, identifier string) []types.Finding {
	found := s.run(content, identifier)
	s.mu.Lock()
	s.findings = append(s.findings, found...)
	s.files++
	s.mu.Unlock()
	return found
}

// ScanDirectory scans every eligible file under root on a bounded worker
// pool. Results are merged in walk order. When ctx is cancelled no further
// files are started; findings already produced are kept and ctx.Err() is
// returned.
func (s *Scanner) ScanDirectory(ctx context.Context, root string) ([]types.Finding, error) {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, root)
		}
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return s.ScanFile(root)
	}

	files, walkErr := s.collect(ctx, root)
	s.log.WithField("root", root).WithField("files", len(files)).Debug("walk complete")

	out := s.scanAll(ctx, files)
	if err := ctx.Err(); err != nil {
		return out, err
	}
	if walkErr != nil {
		return out, fmt.Errorf("walk %s: %w", root, walkErr)
	}
	return out, nil
}

// ScanPaths scans an explicit list of files, such as those changed in a git
// work tree, applying the same filters a directory scan under root would.
// Missing paths are skipped with a warning.
func (s *Scanner) ScanPaths(ctx context.Context, root string, paths []string) ([]types.Finding, error) {
	ign, err := ignore.Load(filepath.Join(root, ignore.FileName))
	if err != nil {
		s.log.WithError(err).Warn("could not read ignore file")
	}
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			s.warn(p, err)
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			rel = p
		}
		if s.eligible(p, filepath.ToSlash(rel), info.Size(), ign) {
			files = append(files, p)
		}
	}
	out := s.scanAll(ctx, files)
	return out, ctx.Err()
}

// scanAll runs files through the worker pool, merges results in input order
// and appends them to the session.
func (s *Scanner) scanAll(ctx context.Context, files []string) []types.Finding {
	results := make([][]types.Finding, len(files))
	var g errgroup.Group
	g.SetLimit(s.opts.Workers)
	for i, p := range files {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			found, err := s.scanPath(p, true)
			if errors.Is(err, ErrNotFound) {
				// removed between walk and read
				s.warn(p, err)
				return nil
			}
			results[i] = found
			return nil
		})
	}
	_ = g.Wait()

	var out []types.Finding
	for _, found := range results {
		out = append(out, found...)
	}
	s.mu.Lock()
	s.findings = append(s.findings, out...)
	s.mu.Unlock()
	return out
}

// Findings returns a copy of everything found so far in this session.
func (s *Scanner) Findings() []types.Finding {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Finding, len(s.findings))
	copy(out, s.findings)
	return out
}

// Warnings returns the non-fatal problems collected so far.
func (s *Scanner) Warnings() []Warning {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Warning, len(s.warnings))
	copy(out, s.warnings)
	return out
}

// FilesScanned counts files whose content reached the detectors.
func (s *Scanner) FilesScanned() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.files
}

// Report renders the session's findings as text. A session without
// findings yields report.CleanReport unchanged; callers wanting the file
// count set opts.FilesScanned themselves.
func (s *Scanner) Report(opts report.Options) string {
	return report.Generate(s.Findings(), opts)
}

// scanPath reads and scans one file without touching the session findings.
// Directory walks pass skipBinary so NUL-bearing files are left alone.
func (s *Scanner) scanPath(path string, skipBinary bool) ([]types.Finding, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		s.warn(path, err)
		return nil, nil
	}
	if info.IsDir() {
		s.warn(path, errors.New("is a directory"))
		return nil, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		s.warn(path, err)
		return nil, nil
	}
	if skipBinary && looksBinary(b) {
		s.log.WithField("path", path).Debug("skipping binary file")
		return nil, nil
	}
	s.log.WithField("path", path).Debug("scanning file")
	found := s.run(strings.ToValidUTF8(string(b), ""), path)
	s.mu.Lock()
	s.files++
	s.mu.Unlock()
	return found, nil
}

// run applies every detector and orders the result by line, keeping
// registration order between findings on the same line.
func (s *Scanner) run(content, identifier string) []types.Finding {
	var out []types.Finding
	for _, d := range s.dets {
		out = append(out, d.Scan(content, identifier)...)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Line < out[j].Line })
	return out
}

func (s *Scanner) warn(path string, err error) {
	s.log.WithField("path", path).WithError(err).Warn("could not scan file")
	s.mu.Lock()
	s.warnings = append(s.warnings, Warning{Path: path, Err: err})
	s.mu.Unlock()
}
