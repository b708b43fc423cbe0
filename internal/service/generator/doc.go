// Package generator turns Zircon package descriptors into GN build files.
//
// Run drives a whole generation: it exports the descriptors through the
// packaging build, parses them and writes one build file per supported
// package below the output directory. Context holds the immutable settings
// shared by the record builders.
package generator
