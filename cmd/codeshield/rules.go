package codeshield

import (
	"fmt"

	"github.com/codeshield/codeshield/internal/rules"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func init() {
	var rulesFile string
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the built-in pattern tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			secrets := rules.Secrets()
			if rulesFile != "" {
				custom, err := rules.LoadFile(rulesFile)
				if err != nil {
					return fmt.Errorf("load rules %s: %w", rulesFile, err)
				}
				secrets = append(secrets, custom...)
			}
			return printRules(cmd, secrets)
		},
	}
	cmd.Flags().StringVar(&rulesFile, "rules", "", "also list the secret rules in this YAML file")
	rootCmd.AddCommand(cmd)
}

func printRules(cmd *cobra.Command, secrets []rules.SecretRule) error {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Rules version: %s\n\nSecrets (%d):\n", rules.Version, len(secrets))
	t := tablewriter.NewWriter(w)
	t.Header("ID", "SEVERITY", "ENV VAR", "DESCRIPTION")
	for _, r := range secrets {
		if err := t.Append([]string{r.ID, string(r.Severity), r.EnvVar, r.Description}); err != nil {
			return err
		}
	}
	if err := t.Render(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nDangerous functions (%d):\n", len(rules.DangerousFunctions))
	t = tablewriter.NewWriter(w)
	t.Header("FUNCTION", "RECOMMENDATION")
	for _, d := range rules.DangerousFunctions {
		if err := t.Append([]string{d.Name + "()", d.Recommendation}); err != nil {
			return err
		}
	}
	if err := t.Render(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nSQL injection (%d, first match wins):\n", len(rules.SQLPatterns))
	t = tablewriter.NewWriter(w)
	t.Header("ID", "MESSAGE")
	for _, p := range rules.SQLPatterns {
		if err := t.Append([]string{p.ID, p.Message}); err != nil {
			return err
		}
	}
	if err := t.Render(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nXSS (%d, first match wins):\n", len(rules.XSSPatterns))
	t = tablewriter.NewWriter(w)
	t.Header("ID", "MESSAGE")
	for _, p := range rules.XSSPatterns {
		if err := t.Append([]string{p.ID, p.Message}); err != nil {
			return err
		}
	}
	return t.Render()
}
