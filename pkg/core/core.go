package core

import (
	"context"
	"fmt"
	"time"

	"github.com/codeshield/codeshield/internal/detectors"
	"github.com/codeshield/codeshield/internal/engine"
	"github.com/codeshield/codeshield/internal/report"
	"github.com/codeshield/codeshield/internal/rules"
	"github.com/codeshield/codeshield/internal/types"
	"github.com/sirupsen/logrus"
)

// Finding is re-exported so callers never import internal packages.
type Finding = types.Finding

// Config selects what to scan. The zero value scans the current directory
// with every detector and the CLI defaults.
type Config struct {
	Root         string // file or directory; "." when empty
	IncludeGlobs string // comma-separated
	ExcludeGlobs string
	MaxBytes     int64 // 0 keeps the 1 MiB default; negative disables the limit
	Threads      int
	Enable       string // comma-separated detector IDs
	Disable      string
	RulesFile    string // extra secret rules, YAML
	Logger       logrus.FieldLogger
}

// Result carries findings plus scan statistics.
type Result struct {
	Findings     []Finding
	FilesScanned int
	Duration     time.Duration
	Warnings     []string
}

func newScanner(cfg Config) (*engine.Scanner, error) {
	var custom []rules.SecretRule
	if cfg.RulesFile != "" {
		rs, err := rules.LoadFile(cfg.RulesFile)
		if err != nil {
			return nil, fmt.Errorf("load rules %s: %w", cfg.RulesFile, err)
		}
		custom = rs
	}
	opts := engine.DefaultOptions()
	if cfg.IncludeGlobs != "" {
		opts.IncludeGlobs = []string{cfg.IncludeGlobs}
	}
	if cfg.ExcludeGlobs != "" {
		opts.ExcludeGlobs = []string{cfg.ExcludeGlobs}
	}
	switch {
	case cfg.MaxBytes > 0:
		opts.MaxBytes = cfg.MaxBytes
	case cfg.MaxBytes < 0:
		opts.MaxBytes = 0
	}
	opts.Workers = cfg.Threads
	opts.Logger = cfg.Logger
	dets := detectors.Select(detectors.Default(cfg.Logger, custom...), cfg.Enable, cfg.Disable)
	return engine.New(opts, dets...), nil
}

// ScanWithStats scans cfg.Root and reports statistics alongside findings.
func ScanWithStats(ctx context.Context, cfg Config) (Result, error) {
	s, err := newScanner(cfg)
	if err != nil {
		return Result{}, err
	}
	root := cfg.Root
	if root == "" {
		root = "."
	}
	start := time.Now()
	found, err := s.ScanDirectory(ctx, root)
	res := Result{Findings: found, FilesScanned: s.FilesScanned(), Duration: time.Since(start)}
	for _, w := range s.Warnings() {
		res.Warnings = append(res.Warnings, w.String())
	}
	return res, err
}

// Scan is the stable entrypoint for other programs.
func Scan(cfg Config) ([]Finding, error) {
	res, err := ScanWithStats(context.Background(), cfg)
	return res.Findings, err
}

// ScanWithReport scans and renders the plain-text report.
func ScanWithReport(cfg Config) ([]Finding, string, error) {
	res, err := ScanWithStats(context.Background(), cfg)
	if err != nil {
		return res.Findings, "", err
	}
	return res.Findings, report.Generate(res.Findings, report.Options{FilesScanned: res.FilesScanned}), nil
}

// ScanContent runs every detector over in-memory text. identifier is used
// as the finding file and picks the autofix language by extension.
func ScanContent(content, identifier string) []Finding {
	s, _ := newScanner(Config{})
	return s.ScanContent(content, identifier)
}

// DetectorIDs returns the built-in detector IDs in registration order.
func DetectorIDs() []string { return detectors.IDs() }

// ShouldFail applies the CLI exit policy: true when any finding is at or
// above failOn ("high" when empty, "none" never fails).
func ShouldFail(findings []Finding, failOn string) bool {
	return report.ShouldFail(findings, failOn)
}
