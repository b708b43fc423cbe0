// Package packaging runs the Zircon packaging build that exports package
// descriptors.
//
// The build command is a shell command line interpreted in-process by
// mvdan.cc/sh. It runs in the Zircon source tree with BUILDDIR pointing at a
// scratch directory and must leave export/manifest behind in it.
package packaging
