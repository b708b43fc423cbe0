// Package descriptor parses the package descriptor files exported by the
// Zircon build and the manifest that lists them.
//
// A descriptor is ini-like text. Each [section] holds either an ordered list
// of bare lines or a set of key=value attributes, never both.
package descriptor
