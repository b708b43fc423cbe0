// Package buildfile implements persistence for generated build files.
//
// The FileRepository owns an output root on disk: it wipes it at the start
// of a run and writes every rendered build file below it. The generator
// depends only on the Repository interface.
package buildfile
