package codeshield

import (
	"fmt"
	"os"
	"strings"

	"github.com/codeshield/codeshield/internal/config"
	"github.com/codeshield/codeshield/internal/detectors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	cfgPreset   string
	cfgOutput   string
	cfgEnable   string
	cfgDisable  string
	cfgThreads  int
	cfgMaxBytes int64
	cfgFailOn   string
	cfgNoColor  bool
	cfgForce    bool
)

func init() {
	cfgCmd := &cobra.Command{Use: "config", Short: "Configuration helpers"}
	rootCmd.AddCommand(cfgCmd)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a .codeshield.yml with selected detectors and options",
		RunE:  runConfigInit,
	}
	cfgCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&cfgPreset, "preset", "all", "detector preset: all | secrets | code")
	initCmd.Flags().StringVar(&cfgOutput, "output", ".codeshield.yml", "output file path")
	initCmd.Flags().StringVar(&cfgEnable, "enable", "", "comma-separated detector IDs to enable (overrides preset if set)")
	initCmd.Flags().StringVar(&cfgDisable, "disable", "", "comma-separated detector IDs to disable")
	initCmd.Flags().IntVar(&cfgThreads, "threads", 0, "worker threads (0=GOMAXPROCS)")
	initCmd.Flags().Int64Var(&cfgMaxBytes, "max-bytes", 1<<20, "skip files larger than this")
	initCmd.Flags().StringVar(&cfgFailOn, "fail-on", "high", "fail threshold: critical | high | medium | low | none")
	initCmd.Flags().BoolVar(&cfgNoColor, "no-color", false, "disable color output by default")
	initCmd.Flags().BoolVar(&cfgForce, "force", false, "overwrite an existing file")
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	enable := strings.TrimSpace(cfgEnable)
	if enable == "" {
		switch strings.ToLower(cfgPreset) {
		case "secrets":
			enable = detectors.IDSecrets
		case "code":
			enable = strings.Join([]string{detectors.IDDangerous, detectors.IDSQL, detectors.IDXSS}, ",")
		case "all":
			enable = strings.Join(detectors.IDs(), ",")
		default:
			return fmt.Errorf("unknown preset %q: want all, secrets or code", cfgPreset)
		}
	}
	if err := validateDetectorIDs(enable, cfgDisable); err != nil {
		return err
	}
	if err := validateFailOn(cfgFailOn); err != nil {
		return err
	}
	if _, err := os.Stat(cfgOutput); err == nil && !cfgForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", cfgOutput)
	}

	fc := config.FileConfig{
		MaxBytes: int64Ptr(cfgMaxBytes),
		Enable:   strPtr(enable),
		Disable:  optStrPtr(cfgDisable),
		Threads:  intPtr(cfgThreads),
		FailOn:   optStrPtr(cfgFailOn),
		NoColor:  boolPtr(cfgNoColor),
		Baseline: strPtr(defaultBaseline),
	}

	b, err := yaml.Marshal(&fc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(cfgOutput, b, 0644); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Wrote", cfgOutput)
	return nil
}
