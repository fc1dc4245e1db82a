package codeshield

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// ciTemplates maps a provider to the pipeline file it reads and a job that
// runs codeshield on every push.
var ciTemplates = map[string]struct{ path, content string }{
	"github": {".github/workflows/codeshield.yml", `name: CodeShield
on: [push, pull_request]
permissions:
  contents: read
  security-events: write
jobs:
  scan:
    runs-on: ubuntu-latest
    steps:
      - uses: actions/checkout@v4
      - uses: actions/setup-go@v5
        with:
          go-version: '1.25.x'
      - run: go install github.com/codeshield/codeshield@latest
      - run: codeshield scan --format github --no-cache
      - run: codeshield scan --format sarif --fail-on none --no-cache > codeshield.sarif
        if: always()
      - uses: github/codeql-action/upload-sarif@v3
        if: always()
        with:
          sarif_file: codeshield.sarif
`},
	"gitlab": {".gitlab-ci.yml", `stages: [scan]
codeshield:
  stage: scan
  image: golang:1.25
  script:
    - go install github.com/codeshield/codeshield@latest
    - codeshield scan --format json --no-cache | tee codeshield-findings.json
  artifacts:
    when: always
    paths:
      - codeshield-findings.json
`},
	"bitbucket": {"bitbucket-pipelines.yml", `pipelines:
  default:
    - step:
        name: CodeShield Scan
        image: golang:1.25
        caches:
          - go
        script:
          - go install github.com/codeshield/codeshield@latest
          - codeshield scan --format json --no-cache | tee codeshield-findings.json
        artifacts:
          - codeshield-findings.json
`},
	"azure": {"azure-pipelines.yml", `trigger:
- main

pool:
  vmImage: 'ubuntu-latest'

steps:
- task: GoTool@0
  inputs:
    version: '1.25.x'
- script: |
    go install github.com/codeshield/codeshield@latest
    $(go env GOPATH)/bin/codeshield scan --format json --no-cache | tee codeshield-findings.json
  displayName: 'CodeShield Scan'
- publish: codeshield-findings.json
  artifact: codeshield-findings
  condition: succeededOrFailed()
`},
}

func init() {
	ci := &cobra.Command{Use: "ci", Short: "CI template helpers for multiple providers"}
	rootCmd.AddCommand(ci)

	var provider, dir string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a CI pipeline template for your provider",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tpl, ok := ciTemplates[provider]
			if !ok {
				return fmt.Errorf("unknown --provider %q. Supported: github, gitlab, bitbucket, azure", provider)
			}
			path := filepath.Join(dir, filepath.FromSlash(tpl.path))
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return err
			}
			if err := os.WriteFile(path, []byte(tpl.content), 0644); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Wrote", path)
			return nil
		},
	}
	initCmd.Flags().StringVar(&provider, "provider", "", "CI provider: github | gitlab | bitbucket | azure")
	initCmd.Flags().StringVar(&dir, "dir", ".", "repository root to write the template into")
	if err := initCmd.MarkFlagRequired("provider"); err != nil {
		fmt.Fprintln(os.Stderr, "warning: could not mark --provider as required:", err)
	}
	ci.AddCommand(initCmd)
}
