package codeshield

import (
	"github.com/codeshield/codeshield/internal/report"
	"github.com/codeshield/codeshield/internal/tui"
	"github.com/spf13/cobra"
)

func init() {
	var path, baseline string
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Browse the last scan in the interactive viewer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := newLogger(cmd)
			set, err := resolve(path, scanFlags{Baseline: baseline}, log)
			if err != nil {
				return err
			}
			res, err := loadLastScan(set.Dir)
			if err != nil {
				return err
			}
			// a missing baseline is simply empty
			base, _ := report.LoadBaseline(set.Baseline)
			return tui.Run(res.Findings, tui.Options{
				Root:         set.rootDir(),
				Baseline:     base,
				BaselinePath: set.Baseline,
				Rescan:       rescanner(set, log),
				ScannedAt:    res.Timestamp,
				Cached:       true,
			})
		},
	}
	cmd.Flags().StringVarP(&path, "path", "p", ".", "directory the scan ran in")
	cmd.Flags().StringVar(&baseline, "baseline", "", "baseline file of accepted findings (default "+defaultBaseline+")")
	rootCmd.AddCommand(cmd)
}
