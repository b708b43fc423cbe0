package descriptor

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	// ErrAmbiguousSection is returned when a section mixes key=value and bare lines.
	ErrAmbiguousSection = errors.New("found both map-style and list-style section")
	// ErrOrphanEntry is returned when content appears before the first section header.
	ErrOrphanEntry = errors.New("entry outside of any section")

	sectionHeader = regexp.MustCompile(`^\[([^\]]+)\]$`)
)

// maxLineLength bounds a single descriptor or manifest line.
const maxLineLength = 1024 * 1024

// sectionBuilder accumulates the lines of the section being read.
type sectionBuilder struct {
	name string
	list []string
	keys []string
	vals map[string]string
}

func newSectionBuilder(name string) *sectionBuilder {
	return &sectionBuilder{
		name: name,
		vals: make(map[string]string),
	}
}

func (b *sectionBuilder) add(line string) {
	if key, value, ok := strings.Cut(line, "="); ok && key != "" {
		if _, seen := b.vals[key]; !seen {
			b.keys = append(b.keys, key)
		}

		b.vals[key] = value

		return
	}

	b.list = append(b.list, strings.TrimSpace(line))
}

func (b *sectionBuilder) build() (*Section, error) {
	if len(b.list) > 0 && len(b.keys) > 0 {
		return nil, fmt.Errorf("%w: [%s]", ErrAmbiguousSection, b.name)
	}

	if len(b.list) > 0 {
		return &Section{list: b.list}, nil
	}

	return &Section{keys: b.keys, vals: b.vals}, nil
}

// ParseLines parses the lines of a descriptor.
// A section declared twice keeps only the content of its last declaration.
func ParseLines(lines []string) (*Package, error) {
	pkg := &Package{sections: make(map[string]*Section)}

	var current *sectionBuilder

	finalize := func() error {
		if current == nil {
			return nil
		}

		section, err := current.build()
		if err != nil {
			return err
		}

		if _, seen := pkg.sections[current.name]; !seen {
			pkg.order = append(pkg.order, current.name)
		}

		pkg.sections[current.name] = section

		return nil
	}

	for i, raw := range lines {
		line := strings.TrimRight(raw, "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}

		if match := sectionHeader.FindStringSubmatch(strings.TrimSpace(line)); match != nil {
			if err := finalize(); err != nil {
				return nil, err
			}

			current = newSectionBuilder(match[1])

			continue
		}

		if current == nil {
			return nil, fmt.Errorf("%w: line %d: %q", ErrOrphanEntry, i+1, line)
		}

		current.add(line)
	}

	if err := finalize(); err != nil {
		return nil, err
	}

	return pkg, nil
}

// Parse reads a descriptor from r.
func Parse(r io.Reader) (*Package, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	return ParseLines(lines)
}

// ParseFile reads and parses the descriptor stored at path.
func ParseFile(path string) (*Package, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open descriptor: %w", err)
	}

	defer func() {
		_ = f.Close()
	}()

	pkg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return pkg, nil
}

// ParseManifest returns the descriptor file names listed in r, one per line.
func ParseManifest(r io.Reader) ([]string, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(lines))
	for _, line := range lines {
		if name := strings.TrimSpace(line); name != "" {
			names = append(names, name)
		}
	}

	return names, nil
}

// ReadManifest reads the manifest file stored at path.
func ReadManifest(path string) ([]string, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}

	defer func() {
		_ = f.Close()
	}()

	names, err := ParseManifest(f)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}

	return names, nil
}

func readLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan lines: %w", err)
	}

	return lines, nil
}
