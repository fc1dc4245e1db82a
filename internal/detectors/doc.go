// Package detectors holds the line-oriented detectors that turn file text
// into findings: hardcoded secrets, dangerous dynamic-execution calls, SQL
// injection and XSS construction. Detectors share the Detector interface,
// keep no state between calls and never fail.
//
// Any line containing codeshield:ignore is skipped, codeshield:ignore-next-line
// silences the line after it and codeshield:ignore-start / codeshield:ignore-end
// bracket a region.
package detectors
