package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/codeshield/codeshield/internal/types"
	"github.com/olekukonko/tablewriter"
)

type PrintOptions struct {
	NoColor      bool
	Duration     time.Duration
	FilesScanned int
}

// PrintTable writes one row per finding in severity order.
func PrintTable(w io.Writer, findings []types.Finding, opts PrintOptions) error {
	if len(findings) == 0 {
		fmt.Fprintln(w, "No security issues found ✅")
	} else {
		table := tablewriter.NewWriter(w)
		table.Header("SEVERITY", "CATEGORY", "FILE", "LINE", "RULE", "DETAIL")
		for _, sev := range types.Severities {
			for _, f := range findings {
				if f.Severity != sev {
					continue
				}
				label := string(f.Severity)
				if !opts.NoColor {
					label = paint(true, f.Severity, label)
				}
				detail := f.MaskedValue
				if detail == "" {
					detail = f.CodeSnippet
				}
				if err := table.Append([]string{label, string(f.Category), f.File, strconv.Itoa(f.Line), f.Rule, detail}); err != nil {
					return err
				}
			}
		}
		if err := table.Render(); err != nil {
			return err
		}
	}
	if opts.Duration > 0 || opts.FilesScanned > 0 {
		c := Count(findings)
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Findings: %d (critical: %d, high: %d, medium: %d, low: %d)\n", c.Total, c.Critical, c.High, c.Medium, c.Low)
		if opts.Duration > 0 {
			fmt.Fprintf(w, "Scan duration: %.2fs\n", opts.Duration.Seconds())
		}
		if opts.FilesScanned > 0 {
			fmt.Fprintf(w, "Files scanned: %d\n", opts.FilesScanned)
		}
	}
	return nil
}
