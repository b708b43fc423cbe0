// Package config defines the settings of a generation run and provides
// helpers to load, validate and save them in YAML format.
//
// The file describes where the Fuchsia and Zircon trees live, how the
// Zircon packaging build is invoked and which packages make up the sysroot.
// Per-run values (output and build directories) come from the command line.
package config
