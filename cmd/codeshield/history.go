package codeshield

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"

	"github.com/codeshield/codeshield/internal/audit"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func init() {
	var (
		path   string
		limit  int
		deleteN int
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List previous scans of this repository",
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := stateDir(path)
			if err != nil {
				return err
			}
			log := audit.New(dir)
			out := cmd.OutOrStdout()
			if deleteN > 0 {
				if err := log.DeleteRecord(deleteN - 1); err != nil {
					return err
				}
				fmt.Fprintf(out, "Deleted scan #%d\n", deleteN)
				return nil
			}
			records, err := log.LoadHistory()
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(out, "No scans recorded yet.")
				return nil
			}
			if limit > 0 && len(records) > limit {
				records = records[:limit]
			}
			t := tablewriter.NewWriter(out)
			t.Header("#", "TIME", "COMMIT", "FILES", "TOTAL", "NEW", "CRIT", "HIGH", "MED", "LOW", "DURATION")
			for i, r := range records {
				commit := r.Commit
				if len(commit) > 8 {
					commit = commit[:8]
				}
				row := []string{
					strconv.Itoa(i + 1),
					r.Timestamp.Local().Format("2006-01-02 15:04"),
					commit,
					strconv.Itoa(r.FilesScanned),
					strconv.Itoa(r.TotalFindings),
					strconv.Itoa(r.NewFindings),
					strconv.Itoa(r.Counts.Critical),
					strconv.Itoa(r.Counts.High),
					strconv.Itoa(r.Counts.Medium),
					strconv.Itoa(r.Counts.Low),
					r.Duration,
				}
				if err := t.Append(row); err != nil {
					return err
				}
			}
			return t.Render()
		},
	}
	cmd.Flags().StringVarP(&path, "path", "p", ".", "repository the scans ran in")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "show at most this many scans (0 = all)")
	cmd.Flags().IntVar(&deleteN, "delete", 0, "delete scan number N as listed")
	rootCmd.AddCommand(cmd)
}
