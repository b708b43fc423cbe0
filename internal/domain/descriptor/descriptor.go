package descriptor

import (
	"errors"
	"fmt"
	"slices"
)

// Well-known section names.
const (
	SectionPackage    = "package"
	SectionIncludes   = "includes"
	SectionSources    = "src"
	SectionLibs       = "lib"
	SectionDeps       = "deps"
	SectionStaticDeps = "static-deps"
)

// ErrMissingPackageInfo is returned when the package section or one of its keys is absent.
var ErrMissingPackageInfo = errors.New("missing package information")

// Entry is one key=value line of a map section.
type Entry struct {
	Key   string
	Value string
}

// Section is the content of one [name] block.
// Exactly one of the list or map forms is populated; an empty section is an empty map.
type Section struct {
	list []string
	keys []string
	vals map[string]string
}

// IsList reports whether the section holds bare lines.
func (s *Section) IsList() bool {
	return s != nil && s.list != nil
}

// List returns the bare lines in file order.
func (s *Section) List() []string {
	if s == nil {
		return nil
	}

	return slices.Clone(s.list)
}

// Entries returns the attributes in the order their keys first appeared.
func (s *Section) Entries() []Entry {
	if s == nil {
		return nil
	}

	entries := make([]Entry, 0, len(s.keys))
	for _, key := range s.keys {
		entries = append(entries, Entry{Key: key, Value: s.vals[key]})
	}

	return entries
}

// Keys returns the attribute names in first-appearance order.
func (s *Section) Keys() []string {
	if s == nil {
		return nil
	}

	return slices.Clone(s.keys)
}

// Value returns the attribute stored under key.
func (s *Section) Value(key string) (string, bool) {
	if s == nil || s.vals == nil {
		return "", false
	}

	v, ok := s.vals[key]

	return v, ok
}

// Len returns the number of lines or attributes.
func (s *Section) Len() int {
	if s == nil {
		return 0
	}

	if s.list != nil {
		return len(s.list)
	}

	return len(s.keys)
}

// Info is the mandatory [package] section of a descriptor.
type Info struct {
	Name string
	Type string
	Arch string
}

// Package is a parsed descriptor.
type Package struct {
	sections map[string]*Section
	order    []string
}

// Section returns the named section or nil.
func (p *Package) Section(name string) *Section {
	return p.sections[name]
}

// SectionNames returns the section names in the order they were first declared.
func (p *Package) SectionNames() []string {
	return slices.Clone(p.order)
}

// List returns the bare lines of a section, or nil when the section is absent or a map.
func (p *Package) List(name string) []string {
	return p.sections[name].List()
}

// Entries returns the attributes of a section, or nil when the section is absent or a list.
func (p *Package) Entries(name string) []Entry {
	s := p.sections[name]
	if s.IsList() {
		return nil
	}

	return s.Entries()
}

// Info extracts the name, type and architecture of the package.
func (p *Package) Info() (Info, error) {
	section := p.sections[SectionPackage]
	if section == nil {
		return Info{}, fmt.Errorf("%w: no [%s] section", ErrMissingPackageInfo, SectionPackage)
	}

	var (
		info   Info
		fields = []struct {
			key string
			dst *string
		}{
			{"name", &info.Name},
			{"type", &info.Type},
			{"arch", &info.Arch},
		}
	)

	for _, field := range fields {
		value, ok := section.Value(field.key)
		if !ok {
			return Info{}, fmt.Errorf("%w: [%s] has no %q key", ErrMissingPackageInfo, SectionPackage, field.key)
		}

		*field.dst = value
	}

	return info, nil
}
