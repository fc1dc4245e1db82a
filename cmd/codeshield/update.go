package codeshield

import (
	"fmt"

	"github.com/codeshield/codeshield/internal/update"
	"github.com/spf13/cobra"
)

func init() {
	var checkOnly bool
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update codeshield to the latest release",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if checkOnly {
				latest, newer, err := update.NewChecker().Check(version, false)
				if err != nil {
					return err
				}
				switch {
				case newer:
					fmt.Fprintf(out, "v%s is available (running v%s)\n", latest, version)
				case latest == "":
					fmt.Fprintln(out, "could not determine the latest release")
				default:
					fmt.Fprintf(out, "v%s is the latest release\n", version)
				}
				return nil
			}
			installed, err := update.SelfUpdate(version)
			if err != nil {
				return err
			}
			if installed == version {
				fmt.Fprintf(out, "already up to date (v%s)\n", version)
				return nil
			}
			fmt.Fprintf(out, "updated to v%s; re-run your command\n", installed)
			return nil
		},
	}
	cmd.Flags().BoolVar(&checkOnly, "check", false, "only report whether a newer release exists")
	rootCmd.AddCommand(cmd)
}
