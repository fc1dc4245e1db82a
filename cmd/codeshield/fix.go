package codeshield

import (
	"fmt"
	"path/filepath"

	"github.com/codeshield/codeshield/internal/files"
	"github.com/codeshield/codeshield/internal/ignore"
	"github.com/codeshield/codeshield/internal/types"
	"github.com/spf13/cobra"
)

func init() {
	fix := &cobra.Command{Use: "fix", Short: "Forward remediation helpers"}
	rootCmd.AddCommand(fix)

	var path string
	var dryRun, rescan bool
	envCmd := &cobra.Command{
		Use:   "env",
		Short: "Declare the env vars suggested for hardcoded secrets in .env.example and ignore .env",
		Long: `Collect the environment variables suggested by the autofix of every secret
finding, append placeholders for the missing ones to .env.example and make
sure .env is listed in .gitignore. Uses the last saved scan unless --rescan
is given or none exists.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := newLogger(cmd)
			set, err := resolve(path, scanFlags{}, log)
			if err != nil {
				return err
			}
			var findings []types.Finding
			if res, err := loadLastScan(set.Dir); err == nil && !rescan {
				findings = res.Findings
			} else {
				s, err := set.scanner(log)
				if err != nil {
					return err
				}
				if findings, err = s.ScanDirectory(cmd.Context(), set.Root); err != nil {
					return err
				}
			}
			entries := envEntries(findings)
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No secret findings with env var suggestions.")
				return nil
			}
			if dryRun {
				for _, e := range entries {
					fmt.Fprintln(out, "(dry-run) would declare in .env.example:", e)
				}
				fmt.Fprintln(out, "(dry-run) would ensure .env is in .gitignore")
				return nil
			}
			added, err := files.EnsureEnvExample(set.Dir, entries)
			if err != nil {
				return fmt.Errorf("update .env.example: %w", err)
			}
			for _, e := range added {
				fmt.Fprintln(out, "Declared in .env.example:", e)
			}
			if len(added) == 0 {
				fmt.Fprintln(out, ".env.example already declares every suggested variable")
			}
			ignored, err := files.AppendIgnore(set.Dir, ".env")
			if err != nil {
				return fmt.Errorf("update .gitignore: %w", err)
			}
			if ignored {
				fmt.Fprintln(out, "Added .env to .gitignore")
			}
			return nil
		},
	}
	envCmd.Flags().StringVarP(&path, "path", "p", ".", "repository root")
	envCmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the changes without writing files")
	envCmd.Flags().BoolVar(&rescan, "rescan", false, "scan again instead of using the last saved scan")
	fix.AddCommand(envCmd)

	var ignoreRoot string
	ignoreCmd := &cobra.Command{
		Use:   "ignore <pattern>",
		Short: "Exclude a file or glob from future scans via " + ignore.FileName,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := filepath.Join(ignoreRoot, ignore.FileName)
			added, err := files.AppendPattern(p, filepath.ToSlash(args[0]))
			if err != nil {
				return err
			}
			if !added {
				fmt.Fprintln(cmd.OutOrStdout(), args[0], "is already ignored")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s to %s\n", args[0], p)
			return nil
		},
	}
	ignoreCmd.Flags().StringVarP(&ignoreRoot, "path", "p", ".", "scan root holding "+ignore.FileName)
	fix.AddCommand(ignoreCmd)
}

// envEntries returns the distinct .env.example lines suggested by the
// autofixes of findings, in finding order.
func envEntries(findings []types.Finding) []string {
	seen := map[string]bool{}
	var out []string
	for _, f := range findings {
		if f.Autofix == nil || f.Autofix.EnvExample == "" || seen[f.Autofix.EnvExample] {
			continue
		}
		seen[f.Autofix.EnvExample] = true
		out = append(out, f.Autofix.EnvExample)
	}
	return out
}
