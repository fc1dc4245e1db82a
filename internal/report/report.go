package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/codeshield/codeshield/internal/types"
)

// Options tunes the text report. Generate is pure: the same findings and
// options always give the same text.
type Options struct {
	Color        bool
	FilesScanned int // shown in the summary when > 0
}

// Counts tallies findings per severity.
type Counts struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
	Total    int `json:"total"`
}

// Blocking is the number of CRITICAL and HIGH findings.
func (c Counts) Blocking() int { return c.Critical + c.High }

// Of returns the count for one severity.
func (c Counts) Of(s types.Severity) int {
	switch s {
	case types.SevCritical:
		return c.Critical
	case types.SevHigh:
		return c.High
	case types.SevMedium:
		return c.Medium
	case types.SevLow:
		return c.Low
	}
	return 0
}

// Count tallies findings.
func Count(findings []types.Finding) Counts {
	var c Counts
	for _, f := range findings {
		switch f.Severity {
		case types.SevCritical:
			c.Critical++
		case types.SevHigh:
			c.High++
		case types.SevMedium:
			c.Medium++
		case types.SevLow:
			c.Low++
		}
		c.Total++
	}
	return c
}

// AffectedFiles counts distinct files with at least one finding.
func AffectedFiles(findings []types.Finding) int {
	seen := map[string]bool{}
	for _, f := range findings {
		seen[f.File] = true
	}
	return len(seen)
}

const (
	rule    = "======================================================================"
	subrule = "----------------------------------------------------------------------"
	title   = "CODESHIELD - SECURITY SCAN REPORT"
)

// CleanReport is returned when there is nothing to report.
const CleanReport = rule + "\n" +
	"SCAN COMPLETE - NO SECURITY ISSUES FOUND!\n" +
	rule + "\n\n" +
	"No hardcoded secrets, dangerous calls, SQL injection or XSS patterns were detected.\n"

var sevColor = map[types.Severity]lipgloss.Color{
	types.SevCritical: lipgloss.Color("196"),
	types.SevHigh:     lipgloss.Color("208"),
	types.SevMedium:   lipgloss.Color("220"),
	types.SevLow:      lipgloss.Color("39"),
}

func paint(on bool, s types.Severity, text string) string {
	if !on {
		return text
	}
	return lipgloss.NewStyle().Bold(true).Foreground(sevColor[s]).Render(text)
}

// Generate renders findings grouped by severity, most severe first, keeping
// insertion order within a group.
func Generate(findings []types.Finding, opts Options) string {
	if len(findings) == 0 {
		out := CleanReport
		if opts.FilesScanned > 0 {
			out += fmt.Sprintf("Files scanned: %d\n", opts.FilesScanned)
		}
		return out
	}
	c := Count(findings)
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n%s\n\n", rule, title, rule)
	fmt.Fprintf(&b, "TOTAL ISSUES FOUND: %d\n", c.Total)
	fmt.Fprintf(&b, "CRITICAL: %d  |  HIGH: %d  |  MEDIUM: %d  |  LOW: %d\n\n", c.Critical, c.High, c.Medium, c.Low)

	for _, sev := range types.Severities {
		var group []types.Finding
		for _, f := range findings {
			if f.Severity == sev {
				group = append(group, f)
			}
		}
		if len(group) == 0 {
			continue
		}
		b.WriteString(paint(opts.Color, sev, fmt.Sprintf("%s SEVERITY ISSUES (%d found)", sev, len(group))))
		b.WriteString("\n" + subrule + "\n")
		for i, f := range group {
			writeFinding(&b, i+1, f)
		}
	}

	b.WriteString(rule + "\n")
	b.WriteString("SUMMARY\n")
	fmt.Fprintf(&b, "Total issues: %d in %d file(s)\n", c.Total, AffectedFiles(findings))
	if opts.FilesScanned > 0 {
		fmt.Fprintf(&b, "Files scanned: %d\n", opts.FilesScanned)
	}
	if n := c.Blocking(); n > 0 {
		fmt.Fprintf(&b, "%d critical/high issue(s) should be fixed before deploying.\n", n)
	}
	b.WriteString(rule + "\n")
	return b.String()
}

func writeFinding(b *strings.Builder, n int, f types.Finding) {
	fmt.Fprintf(b, "\nIssue #%d [%s]\n", n, f.Category)
	fmt.Fprintf(b, "  File: %s\n", f.File)
	if f.Column > 0 {
		fmt.Fprintf(b, "  Line: %d, Column: %d\n", f.Line, f.Column)
	} else {
		fmt.Fprintf(b, "  Line: %d\n", f.Line)
	}
	fmt.Fprintf(b, "  Code: %s\n", f.CodeSnippet)
	fmt.Fprintf(b, "  Issue: %s\n", f.Message)
	if f.MaskedValue != "" {
		fmt.Fprintf(b, "  Secret: %s\n", f.MaskedValue)
	}
	fmt.Fprintf(b, "  Fix: %s\n", f.Recommendation)
	if a := f.Autofix; a != nil {
		fmt.Fprintf(b, "\n  AUTOFIX (%s)\n", a.Language)
		fmt.Fprintf(b, "  RISK: %s\n", a.Risk)
		b.WriteString("  HOW TO FIX:\n")
		for i, s := range a.Steps {
			fmt.Fprintf(b, "    %d. %s\n", i+1, s)
		}
		b.WriteString("  SECURE CODE:\n")
		for _, l := range strings.Split(a.FixCode, "\n") {
			b.WriteString("    " + l + "\n")
		}
		fmt.Fprintf(b, "  ADD TO .env FILE:\n    %s\n", a.EnvExample)
	}
	b.WriteString("\n")
}
