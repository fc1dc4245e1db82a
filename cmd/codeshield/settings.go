package codeshield

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/codeshield/codeshield/internal/audit"
	"github.com/codeshield/codeshield/internal/cache"
	"github.com/codeshield/codeshield/internal/config"
	"github.com/codeshield/codeshield/internal/detectors"
	"github.com/codeshield/codeshield/internal/engine"
	"github.com/codeshield/codeshield/internal/logging"
	"github.com/codeshield/codeshield/internal/rules"
	"github.com/codeshield/codeshield/internal/types"
	"github.com/sirupsen/logrus"
)

const defaultBaseline = "codeshield.baseline.json"

// stateGlobs keeps the files codeshield itself writes out of later scans.
var stateGlobs = "." + cache.FileName + ",." + audit.FileName + ",codeshield-export-*"

// scanFlags are the scan options a command collected from its flags. Zero
// values fall back to the local config, then the global config.
type scanFlags struct {
	Include  string
	Exclude  string
	MaxBytes int64
	Enable   string
	Disable  string
	Rules    string
	FailOn   string
	Baseline string
}

// settings are fully resolved scan options for one root.
type settings struct {
	Root     string // as given, findings keep paths relative to it
	Dir      string // absolute directory holding config, cache and history
	Opts     engine.Options
	Enable   string
	Disable  string
	Rules    string
	FailOn   string
	Baseline string
	NoColor  bool
}

// stateDir is the directory owning config, cache and history for root: root
// itself, or its parent when root is a file.
func stateDir(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	if fi, err := os.Stat(abs); err == nil && !fi.IsDir() {
		return filepath.Dir(abs), nil
	}
	return abs, nil
}

// resolve merges CLI flags over local and global config files.
func resolve(root string, f scanFlags, log logrus.FieldLogger) (settings, error) {
	log = logging.OrDiscard(log)
	dir, err := stateDir(root)
	if err != nil {
		return settings{}, err
	}
	var gcfg, lcfg config.FileConfig
	if c, err := config.LoadGlobal(); err == nil {
		gcfg = c
	} else {
		log.WithError(err).Debug("global config not loaded")
	}
	if c, err := config.LoadLocal(dir); err == nil {
		lcfg = c
	} else {
		log.WithError(err).Debug("local config not loaded")
	}

	opts := engine.DefaultOptions()
	opts.Logger = log
	opts.Workers = pickInt(flagThreads, lcfg.Threads, gcfg.Threads)
	if inc := pickString(f.Include, lcfg.Include, gcfg.Include); inc != "" {
		opts.IncludeGlobs = []string{inc}
	}
	opts.ExcludeGlobs = []string{stateGlobs}
	if exc := pickString(f.Exclude, lcfg.Exclude, gcfg.Exclude); exc != "" {
		opts.ExcludeGlobs = append(opts.ExcludeGlobs, exc)
	}
	if mb := pickInt64(f.MaxBytes, lcfg.MaxBytes, gcfg.MaxBytes); mb != 0 {
		opts.MaxBytes = max(mb, 0)
	}
	for _, d := range slices.Concat(gcfg.SkipDirs, lcfg.SkipDirs) {
		opts.SkipDirs[d] = true
	}
	for ext := range engine.NormalizeExtensions(slices.Concat(gcfg.SkipExtensions, lcfg.SkipExtensions)) {
		opts.SkipExtensions[ext] = true
	}

	s := settings{
		Root:     root,
		Dir:      dir,
		Opts:     opts,
		Enable:   pickString(f.Enable, lcfg.Enable, gcfg.Enable),
		Disable:  pickString(f.Disable, lcfg.Disable, gcfg.Disable),
		FailOn:   pickString(f.FailOn, lcfg.FailOn, gcfg.FailOn),
		Baseline: pickString(f.Baseline, lcfg.Baseline, gcfg.Baseline),
		NoColor:  pickBool(flagNoColor, lcfg.NoColor, gcfg.NoColor),
	}
	switch {
	case f.Rules != "":
		s.Rules = f.Rules
	case lcfg.Rules != nil && *lcfg.Rules != "":
		// relative to the repository that declares it
		s.Rules = *lcfg.Rules
		if !filepath.IsAbs(s.Rules) {
			s.Rules = filepath.Join(dir, s.Rules)
		}
	case gcfg.Rules != nil:
		s.Rules = *gcfg.Rules
	}
	if s.Baseline == "" {
		s.Baseline = defaultBaseline
	}
	if err := validateFailOn(s.FailOn); err != nil {
		return settings{}, err
	}
	if err := validateDetectorIDs(s.Enable, s.Disable); err != nil {
		return settings{}, err
	}
	return s, nil
}

func validateFailOn(v string) error {
	if v == "" || strings.EqualFold(v, "none") {
		return nil
	}
	if _, ok := types.ParseSeverity(v); !ok {
		return fmt.Errorf("invalid fail-on %q: want critical, high, medium, low or none", v)
	}
	return nil
}

func validateDetectorIDs(lists ...string) error {
	known := detectors.IDs()
	for _, l := range lists {
		for _, id := range splitList(l) {
			if !slices.Contains(known, id) {
				return fmt.Errorf("unknown detector %q (run 'codeshield detectors' for the list)", id)
			}
		}
	}
	return nil
}

// scanner builds a fresh scan session for s.
func (s settings) scanner(log logrus.FieldLogger) (*engine.Scanner, error) {
	var custom []rules.SecretRule
	if s.Rules != "" {
		rs, err := rules.LoadFile(s.Rules)
		if err != nil {
			return nil, fmt.Errorf("load rules %s: %w", s.Rules, err)
		}
		custom = rs
	}
	dets := detectors.Select(detectors.Default(log, custom...), s.Enable, s.Disable)
	if len(dets) == 0 {
		return nil, errors.New("no detectors left after --enable/--disable")
	}
	return engine.New(s.Opts, dets...), nil
}

// rootDir is Root, or its directory when Root names a file. Unlike Dir it
// stays relative so it lines up with finding paths.
func (s settings) rootDir() string {
	if fi, err := os.Stat(s.Root); err == nil && !fi.IsDir() {
		return filepath.Dir(s.Root)
	}
	return s.Root
}
