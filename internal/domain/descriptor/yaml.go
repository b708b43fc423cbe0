package descriptor

import (
	"gopkg.in/yaml.v3"
)

// MarshalYAML renders the package as a mapping of sections in declaration order.
// List sections become sequences and map sections become mappings in key order.
func (p *Package) MarshalYAML() (any, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}

	for _, name := range p.order {
		section := p.sections[name]

		value := &yaml.Node{Kind: yaml.MappingNode}

		if section.IsList() {
			value.Kind = yaml.SequenceNode

			for _, line := range section.list {
				value.Content = append(value.Content, scalar(line))
			}
		} else {
			for _, entry := range section.Entries() {
				value.Content = append(value.Content, scalar(entry.Key), scalar(entry.Value))
			}
		}

		root.Content = append(root.Content, scalar(name), value)
	}

	return root, nil
}

func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}
