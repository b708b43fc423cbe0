// Package buildfile holds the records rendered into GN build files and the
// rules deciding which record a package descriptor becomes.
//
// Records are plain values built fresh for every package; they are the whole
// contract between the generator and the templates.
package buildfile
