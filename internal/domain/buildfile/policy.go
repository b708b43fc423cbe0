package buildfile

import (
	"slices"

	"github.com/oshokin/zircon-gn/internal/domain/descriptor"
)

const (
	// TypeLibrary is the only descriptor type turned into build files.
	TypeLibrary = "lib"
	// ArchSource marks a library distributed as sources.
	ArchSource = "src"
)

// Kind is the outcome of classifying a package descriptor.
type Kind int

const (
	// KindSysrootPart is a package already provided by the sysroot; it is skipped.
	KindSysrootPart Kind = iota
	// KindUnsupported is a package whose type has no build file shape; it is skipped.
	KindUnsupported
	// KindSource is a library compiled from sources.
	KindSource
	// KindCompiled is a library prebuilt by Zircon.
	KindCompiled
	// KindSysroot is the package turned into the sysroot build file.
	KindSysroot
)

// String returns the name used in diagnostics.
func (k Kind) String() string {
	switch k {
	case KindSysrootPart:
		return "sysroot part"
	case KindUnsupported:
		return "unsupported"
	case KindSource:
		return "source"
	case KindCompiled:
		return "prebuilt"
	case KindSysroot:
		return "sysroot"
	default:
		return "unknown"
	}
}

// Generated reports whether packages of this kind produce a build file.
func (k Kind) Generated() bool {
	return k == KindSource || k == KindCompiled || k == KindSysroot
}

// SysrootPolicy knows which packages the sysroot provides.
type SysrootPolicy struct {
	// Package is the descriptor rendered as the sysroot itself.
	Package string
	// Packages are implicitly available and never declared as dependencies.
	Packages []string
}

// NewSysrootPolicy returns a policy for the given sysroot package and allow-list.
func NewSysrootPolicy(sysrootPackage string, packages []string) SysrootPolicy {
	return SysrootPolicy{
		Package:  sysrootPackage,
		Packages: slices.Clone(packages),
	}
}

// Provides reports whether name is part of the sysroot.
func (p SysrootPolicy) Provides(name string) bool {
	return slices.Contains(p.Packages, name)
}

// FilterDeps drops the sysroot packages from deps, keeping the order of the rest.
func (p SysrootPolicy) FilterDeps(deps []string) []string {
	filtered := make([]string, 0, len(deps))
	for _, dep := range deps {
		if !p.Provides(dep) {
			filtered = append(filtered, dep)
		}
	}

	return filtered
}

// Classify decides which build file, if any, a package turns into.
// The sysroot package itself is a member of the allow-list, so it is matched first.
func (p SysrootPolicy) Classify(info descriptor.Info) Kind {
	switch {
	case info.Type == TypeLibrary && info.Name == p.Package:
		return KindSysroot
	case p.Provides(info.Name):
		return KindSysrootPart
	case info.Type != TypeLibrary:
		return KindUnsupported
	case info.Arch == ArchSource:
		return KindSource
	default:
		return KindCompiled
	}
}
