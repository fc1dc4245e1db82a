// Package report renders findings for people and machines: the grouped text
// report, a compact table, JSON, SARIF and GitHub Actions annotations. It
// also owns baselines and the fail-on policy.
package report
