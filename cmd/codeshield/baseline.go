package codeshield

import (
	"fmt"

	"github.com/codeshield/codeshield/internal/report"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Manage baselines",
	}

	var path, file string
	updCmd := &cobra.Command{
		Use:   "update",
		Short: "Accept every current finding into the baseline",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := newLogger(cmd)
			set, err := resolve(path, scanFlags{Baseline: file}, log)
			if err != nil {
				return err
			}
			s, err := set.scanner(log)
			if err != nil {
				return err
			}
			results, err := s.ScanDirectory(cmd.Context(), set.Root)
			if err != nil {
				return err
			}
			if err := report.SaveBaseline(set.Baseline, results); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Baseline updated: %d finding(s) accepted in %s\n", len(results), set.Baseline)
			return nil
		},
	}
	updCmd.Flags().StringVarP(&path, "path", "p", ".", "path to scan")
	updCmd.Flags().StringVar(&file, "baseline", "", "baseline file to write (default "+defaultBaseline+")")

	rootCmd.AddCommand(cmd)
	cmd.AddCommand(updCmd)
}
