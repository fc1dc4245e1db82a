package codeshield

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/codeshield/codeshield/internal/audit"
	"github.com/codeshield/codeshield/internal/cache"
	"github.com/codeshield/codeshield/internal/detectors"
	"github.com/codeshield/codeshield/internal/engine"
	"github.com/codeshield/codeshield/internal/git"
	"github.com/codeshield/codeshield/internal/report"
	"github.com/codeshield/codeshield/internal/rules"
	"github.com/codeshield/codeshield/internal/tui"
	"github.com/codeshield/codeshield/internal/types"
	"github.com/codeshield/codeshield/internal/update"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	flagPath         string
	flagStdinName    string
	flagFormat       string
	flagScan         scanFlags
	flagTUI          bool
	flagChanged      bool
	flagNoCache      bool
	flagUploadURL    string
	flagUploadToken  string
	flagNoUploadMeta bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan files for security issues",
		Long: `Scan a file or directory for hardcoded secrets, dangerous function calls,
SQL injection and XSS patterns. Use -p - to scan standard input.

Exit status is 1 when a finding not in the baseline is at or above --fail-on
(high by default), 2 on errors.`,
		Example: `  codeshield scan
  codeshield scan -p src --format table
  codeshield scan --changed --fail-on medium
  cat app.py | codeshield scan -p - --stdin-name app.py`,
		RunE: runScan,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringVarP(&flagPath, "path", "p", ".", "file or directory to scan (- for stdin)")
	cmd.Flags().StringVar(&flagStdinName, "stdin-name", "stdin.py", "file name reported for stdin; its extension picks the autofix language")
	cmd.Flags().StringVarP(&flagFormat, "format", "f", "text", "output format: text | table | json | sarif | github")
	cmd.Flags().StringVar(&flagScan.FailOn, "fail-on", "", "exit 1 on findings at or above: critical | high | medium | low | none (default high)")
	cmd.Flags().StringVar(&flagScan.Include, "include", "", "comma-separated include globs")
	cmd.Flags().StringVar(&flagScan.Exclude, "exclude", "", "comma-separated exclude globs")
	cmd.Flags().Int64Var(&flagScan.MaxBytes, "max-bytes", 0, "skip files larger than this (0 = 1 MiB, negative = no limit)")
	cmd.Flags().StringVar(&flagScan.Enable, "enable", "", "only run these detectors (comma-separated IDs)")
	cmd.Flags().StringVar(&flagScan.Disable, "disable", "", "disable these detectors (comma-separated IDs)")
	cmd.Flags().StringVar(&flagScan.Rules, "rules", "", "YAML file with extra secret rules")
	cmd.Flags().StringVar(&flagScan.Baseline, "baseline", "", "baseline file of accepted findings (default "+defaultBaseline+")")
	cmd.Flags().BoolVar(&flagTUI, "tui", false, "browse findings in the interactive viewer")
	cmd.Flags().BoolVar(&flagChanged, "changed", false, "only scan files changed in the git work tree")
	cmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "do not store results for report/view or record scan history")
	cmd.Flags().StringVar(&flagUploadURL, "upload", "", "POST findings (JSON) to this URL after scan")
	cmd.Flags().StringVar(&flagUploadToken, "upload-token", "", "Bearer token for upload auth")
	cmd.Flags().BoolVar(&flagNoUploadMeta, "no-upload-metadata", false, "do not include repo/commit/branch in upload envelope")
}

func runScan(cmd *cobra.Command, _ []string) error {
	if err := validateFormat(flagFormat); err != nil {
		return err
	}
	stdin := flagPath == "-"
	if stdin && flagTUI {
		return errors.New("--tui cannot be combined with stdin input")
	}
	if stdin && flagChanged {
		return errors.New("--changed cannot be combined with stdin input")
	}
	root := flagPath
	if stdin {
		root = "."
	}

	log := newLogger(cmd)
	set, err := resolve(root, flagScan, log)
	if err != nil {
		return err
	}
	s, err := set.scanner(log)
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	if humanFormat(flagFormat) && !flagTUI {
		if !flagNoUpdateCheck {
			if latest, newer, _ := update.NewChecker().Check(version, false); newer {
				fmt.Fprintf(stderr, "(new version available: v%s)  run 'codeshield update' to upgrade\n", latest)
			}
		}
		if !stdin {
			fmt.Fprintf(stderr, "Scanning %s with %d detectors...\n", set.Dir, len(activeIDs(set)))
		}
	}
	if cmd.Flags().Changed("enable") || cmd.Flags().Changed("disable") {
		fmt.Fprintf(stderr, "detectors active: %s\n", strings.Join(activeIDs(set), ","))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	start := time.Now()
	if err := runSession(ctx, cmd.InOrStdin(), s, set, stdin); err != nil {
		return err
	}
	elapsed := time.Since(start)

	all := s.Findings()
	base, err := report.LoadBaseline(set.Baseline)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	fresh := report.FilterNewFindings(all, base)
	if fresh == nil {
		fresh = []types.Finding{}
	}

	if !flagNoCache && !stdin {
		saveState(log, set, all, fresh, s.FilesScanned(), elapsed)
	}

	if flagTUI {
		return tui.Run(all, tui.Options{
			Root:         set.rootDir(),
			Baseline:     base,
			BaselinePath: set.Baseline,
			Rescan:       rescanner(set, log),
			ScannedAt:    time.Now(),
		})
	}

	out := cmd.OutOrStdout()
	err = render(out, flagFormat, output{
		Findings:     fresh,
		FilesScanned: s.FilesScanned(),
		Duration:     elapsed,
		Dir:          set.Dir,
		Color:        !set.NoColor && isTerminal(out),
	})
	if err != nil {
		return err
	}

	// upload problems never fail the scan
	if flagUploadURL != "" {
		env := envelope(set.Dir, s.FilesScanned(), fresh, !flagNoUploadMeta)
		if err := uploadFindings(ctx, flagUploadURL, flagUploadToken, env); err != nil {
			fmt.Fprintln(stderr, "upload warning:", err)
		}
	}

	if report.ShouldFail(fresh, set.FailOn) {
		return errFailPolicy
	}
	return nil
}

// runSession feeds the scanner from stdin, the changed files of a work tree
// or a directory walk.
func runSession(ctx context.Context, in io.Reader, s *engine.Scanner, set settings, stdin bool) error {
	switch {
	case stdin:
		b, err := io.ReadAll(in)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		s.ScanContent(strings.ToValidUTF8(string(b), ""), flagStdinName)
		return nil
	case flagChanged:
		changed, err := git.ChangedFiles(set.Dir)
		if err != nil {
			return err
		}
		var paths []string
		for _, p := range changed {
			rel, err := filepath.Rel(set.Dir, p)
			if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
				continue
			}
			paths = append(paths, filepath.Join(set.Root, rel))
		}
		_, err = s.ScanPaths(ctx, set.Root, paths)
		return err
	default:
		_, err := s.ScanDirectory(ctx, set.Root)
		if errors.Is(err, engine.ErrNotFound) {
			return err
		}
		if err != nil {
			return fmt.Errorf("scan error: %w", err)
		}
		return nil
	}
}

// saveState stores the results for report, view and fix and appends the
// scan to the history. Failures are logged only.
func saveState(log logrus.FieldLogger, set settings, all, fresh []types.Finding, files int, d time.Duration) {
	err := cache.SaveResults(set.Dir, cache.ScanResults{Findings: all, FilesScanned: files, RulesVersion: rules.Version})
	if err != nil {
		log.WithError(err).Warn("could not save scan results")
	}
	rec := audit.NewRecord(set.Dir, all, fresh, files, d, set.Baseline)
	rec.Commit = git.RepoMetadata(set.Dir).Commit
	if err := audit.New(set.Dir).LogScan(rec); err != nil {
		log.WithError(err).Warn("could not record scan history")
	}
}

// rescanner returns a function the viewer calls to scan set.Root again
// with a fresh session.
func rescanner(set settings, log logrus.FieldLogger) func() ([]types.Finding, error) {
	return func() ([]types.Finding, error) {
		s, err := set.scanner(log)
		if err != nil {
			return nil, err
		}
		if _, err := s.ScanDirectory(context.Background(), set.Root); err != nil {
			return nil, err
		}
		all := s.Findings()
		if err := cache.SaveResults(set.Dir, cache.ScanResults{Findings: all, FilesScanned: s.FilesScanned(), RulesVersion: rules.Version}); err != nil {
			log.WithError(err).Warn("could not save scan results")
		}
		return all, nil
	}
}

func activeIDs(set settings) []string {
	var ids []string
	for _, d := range detectors.Select(detectors.Default(nil), set.Enable, set.Disable) {
		ids = append(ids, d.ID())
	}
	return ids
}
