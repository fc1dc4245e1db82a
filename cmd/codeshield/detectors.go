package codeshield

import (
	"fmt"

	"github.com/codeshield/codeshield/internal/detectors"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "detectors",
		Short: "List available detectors",
		Run: func(cmd *cobra.Command, _ []string) {
			for _, id := range detectors.IDs() {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
		},
	}
	rootCmd.AddCommand(cmd)
}
