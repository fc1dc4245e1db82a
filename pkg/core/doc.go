// Package core is a small, stable facade over the CodeShield engine for
// programs that embed the scanner instead of shelling out to the CLI.
//
// Example:
//
//	findings, err := core.Scan(core.Config{Root: "."})
//	if err != nil { /* handle */ }
//	_ = core.MarshalFindings(os.Stdout, findings)
package core
