package detectors

import "strings"

// Mask hides a secret while keeping its length: values of 8 characters or
// fewer are fully starred, longer ones keep the first and last 4.
func Mask(v string) string {
	r := []rune(v)
	if len(r) <= 8 {
		return strings.Repeat("*", len(r))
	}
	return string(r[:4]) + strings.Repeat("*", len(r)-8) + string(r[len(r)-4:])
}
