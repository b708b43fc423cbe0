package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/zircon-gn/internal/domain/descriptor"
)

// yamlIndent is the indentation of the printed descriptors.
const yamlIndent = 2

// newInspectCmd prints parsed descriptors as YAML documents, one per file.
func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect DESCRIPTOR...",
		Short: "Print parsed package descriptors as YAML",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			encoder := yaml.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent(yamlIndent)

			for _, path := range args {
				pkg, err := descriptor.ParseFile(path)
				if err != nil {
					return err
				}

				var node yaml.Node
				if err = node.Encode(pkg); err != nil {
					return fmt.Errorf("encode %s: %w", path, err)
				}

				node.HeadComment = path

				if err = encoder.Encode(&node); err != nil {
					return fmt.Errorf("print %s: %w", path, err)
				}
			}

			return encoder.Close()
		},
	}
}
