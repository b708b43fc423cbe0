package buildfile

import (
	"path"
	"path/filepath"
	"slices"
)

// labelPrefix marks a path as relative to the GN source root.
const labelPrefix = "//"

// Label turns a project-root relative path into a GN source-absolute label.
func Label(rel string) string {
	cleaned := path.Clean(filepath.ToSlash(rel))
	if cleaned == "." {
		return labelPrefix
	}

	return labelPrefix + cleaned
}

// StringSet is a set of strings rendered in sorted order.
type StringSet map[string]struct{}

// Add inserts value into the set.
func (s StringSet) Add(value string) {
	s[value] = struct{}{}
}

// Sorted returns the members in lexical order.
func (s StringSet) Sorted() []string {
	values := make([]string, 0, len(s))
	for value := range s {
		values = append(values, value)
	}

	slices.Sort(values)

	return values
}

// SourceLibrary is a library compiled from sources by the GN build.
type SourceLibrary struct {
	Name        string
	IncludeDirs StringSet
	Sources     []string
	Deps        []string
}

// NewSourceLibrary returns an empty source library record.
func NewSourceLibrary(name string) *SourceLibrary {
	return &SourceLibrary{
		Name:        name,
		IncludeDirs: make(StringSet),
	}
}

// CompiledLibrary is a library already built by Zircon and only referenced by GN.
type CompiledLibrary struct {
	Name        string
	IncludeDirs StringSet
	Deps        []string
	// LibName is the file name of the artifact to link against.
	LibName string
	// IsShared is set when the package provides a stripped and a debug shared object.
	IsShared bool
	// Prebuilt is the label of the static archive or of the stripped shared object.
	Prebuilt string
	// DebugPrebuilt is the label of the unstripped shared object.
	DebugPrebuilt string
}

// NewCompiledLibrary returns an empty precompiled library record.
func NewCompiledLibrary(name string) *CompiledLibrary {
	return &CompiledLibrary{
		Name:        name,
		IncludeDirs: make(StringSet),
	}
}

// SysrootFile maps an installed sysroot path to its source label.
type SysrootFile struct {
	Dest   string
	Source string
}

// Sysroot is the set of headers and libraries installed as the base environment.
type Sysroot struct {
	Files map[string]string
}

// NewSysroot returns an empty sysroot record.
func NewSysroot() *Sysroot {
	return &Sysroot{Files: make(map[string]string)}
}

// SortedFiles returns the files ordered by installed path.
func (s *Sysroot) SortedFiles() []SysrootFile {
	dests := make([]string, 0, len(s.Files))
	for dest := range s.Files {
		dests = append(dests, dest)
	}

	slices.Sort(dests)

	files := make([]SysrootFile, 0, len(dests))
	for _, dest := range dests {
		files = append(files, SysrootFile{Dest: dest, Source: s.Files[dest]})
	}

	return files
}
