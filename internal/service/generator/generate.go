package generator

import (
	"context"
	"fmt"

	"github.com/oshokin/zircon-gn/internal/domain/buildfile"
	"github.com/oshokin/zircon-gn/internal/domain/descriptor"
	"github.com/oshokin/zircon-gn/internal/logger"
)

// Generate writes the build file of every supported package.
// Unsupported packages and sysroot parts are skipped; the first failure stops generation.
func (c *Context) Generate(ctx context.Context, pkgs []*descriptor.Package) error {
	for _, pkg := range pkgs {
		info, err := pkg.Info()
		if err != nil {
			return err
		}

		kind := c.Policy.Classify(info)

		switch kind {
		case buildfile.KindSysrootPart:
			logger.InfoKV(ctx, "Ignoring sysroot part", "package", info.Name)

			continue
		case buildfile.KindUnsupported:
			logger.WarnKV(ctx, "Unsupported package type, skipping",
				"package", info.Name, "type", info.Type, "arch", info.Arch)

			continue
		case buildfile.KindSource:
			err = c.generateSourceLibrary(ctx, pkg, info.Name)
		case buildfile.KindCompiled:
			err = c.generateCompiledLibrary(ctx, pkg, info.Name)
		case buildfile.KindSysroot:
			err = c.generateSysroot(ctx, pkg)
		}

		if err != nil {
			return fmt.Errorf("generate %s (%s): %w", info.Name, kind, err)
		}

		logger.DebugKV(ctx, "Processed", "package", info.Name, "kind", kind.String())
	}

	return nil
}
