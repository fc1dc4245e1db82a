// Package codeshield provides the command-line interface for CodeShield. It
// wires the scan engine, reporters, configuration files, baselines and the
// interactive viewer into cobra subcommands (scan, report, view, baseline,
// fix, history, etc.).
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/codeshield/codeshield/cmd/codeshield"
//	func main() { codeshield.Execute() }
package codeshield
