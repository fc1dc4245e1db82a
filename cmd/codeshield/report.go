package codeshield

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/codeshield/codeshield/internal/cache"
	"github.com/codeshield/codeshield/internal/report"
	"github.com/codeshield/codeshield/internal/types"
	"github.com/spf13/cobra"
)

func init() {
	var (
		path     string
		format   string
		baseline string
		failOn   string
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show the results of the last scan without scanning again",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}
			set, err := resolve(path, scanFlags{Baseline: baseline, FailOn: failOn}, newLogger(cmd))
			if err != nil {
				return err
			}
			res, err := loadLastScan(set.Dir)
			if err != nil {
				return err
			}
			base, err := report.LoadBaseline(set.Baseline)
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			fresh := report.FilterNewFindings(res.Findings, base)
			if fresh == nil {
				fresh = []types.Finding{}
			}
			out := cmd.OutOrStdout()
			if humanFormat(format) {
				fmt.Fprintf(cmd.ErrOrStderr(), "Last scan: %s (rules %s)\n", res.Timestamp.Format("2006-01-02 15:04:05"), res.RulesVersion)
			}
			err = render(out, format, output{
				Findings:     fresh,
				FilesScanned: res.FilesScanned,
				Dir:          set.Dir,
				Color:        !set.NoColor && isTerminal(out),
			})
			if err != nil {
				return err
			}
			if report.ShouldFail(fresh, set.FailOn) {
				return errFailPolicy
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "path", "p", ".", "directory the scan ran in")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text | table | json | sarif | github")
	cmd.Flags().StringVar(&baseline, "baseline", "", "baseline file of accepted findings (default "+defaultBaseline+")")
	cmd.Flags().StringVar(&failOn, "fail-on", "none", "exit 1 on findings at or above: critical | high | medium | low | none")
	rootCmd.AddCommand(cmd)
}

// loadLastScan reads the cached results for dir with a hint when there are
// none yet.
func loadLastScan(dir string) (cache.ScanResults, error) {
	res, err := cache.LoadResults(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return res, fmt.Errorf("no saved scan in %s; run 'codeshield scan' first", dir)
	}
	return res, err
}
