// Package engine runs detectors over files and directory trees. A Scanner is
// one scan session: it walks, reads, fans work out to a bounded pool and
// keeps the accumulated findings in walk order.
package engine
