package codeshield

import (
	"errors"
	"fmt"
	"os"

	"github.com/codeshield/codeshield/internal/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	flagThreads       int
	flagNoColor       bool
	flagVerbose       bool
	flagNoUpdateCheck bool

	version = "0.1.0"
)

// errFailPolicy is returned when findings meet the --fail-on threshold.
// Execute turns it into exit status 1 without printing anything.
var errFailPolicy = errors.New("findings at or above the fail-on threshold")

// rootCmd is the base Cobra command for the CodeShield CLI.
var rootCmd = &cobra.Command{
	Use:           "codeshield",
	Short:         "Find security issues in source code",
	Long:          "CodeShield scans source files for hardcoded secrets, dangerous dynamic-execution calls, SQL injection and XSS patterns, and explains how to fix each one.",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CodeShield CLI. It should be called by the main package.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errFailPolicy) {
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagThreads, "threads", 0, "worker count (0 = GOMAXPROCS)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colorized output")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "log every scanned file and skipped rule")
	rootCmd.PersistentFlags().BoolVar(&flagNoUpdateCheck, "no-update-check", false, "disable update check")
}

// newLogger writes log lines to the command's stderr so they never mix
// with machine-readable output.
func newLogger(cmd *cobra.Command) *logrus.Logger {
	return logging.New(cmd.ErrOrStderr(), flagVerbose)
}
