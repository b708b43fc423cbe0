// Package render turns build file records into GN text.
//
// Templates are embedded in the binary and can be replaced one by one from
// a directory, which lets a checkout tweak the generated syntax without
// rebuilding the tool.
package render
