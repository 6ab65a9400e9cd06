package extract

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"embedpack/internal/embeddings"
)

// YAMLExtractor reads a structured source: a YAML mapping from category
// name to a flow sequence of numbers, e.g.
//
//	nature: [0.1, -0.2, 0.3]
//	city: [1.0, 2.0, 3.0]
//
// Decoding goes through the yaml node API so document order is preserved;
// an ordinary map[string] decode would shuffle entries.
type YAMLExtractor struct {
	path string
}

// NewYAMLExtractor extracts from the YAML file at path.
func NewYAMLExtractor(path string) *YAMLExtractor {
	return &YAMLExtractor{path: path}
}

func (y *YAMLExtractor) Extract(ctx context.Context) ([]embeddings.Entry, error) {
	data, err := os.ReadFile(y.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, y.path)
		}
		return nil, fmt.Errorf("extract: read %s: %w", y.path, err)
	}
	return ParseYAML(data)
}

// ParseYAML decodes a YAML mapping of name to numeric sequence, preserving
// document order.
func ParseYAML(data []byte) ([]embeddings.Entry, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("extract: yaml: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("extract: yaml: top level must be a mapping, got %s at line %d", kindName(root.Kind), root.Line)
	}

	var entries []embeddings.Entry
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		if key.Value == "" {
			return nil, fmt.Errorf("extract: yaml: empty category name at line %d", key.Line)
		}
		if val.Kind != yaml.SequenceNode {
			return nil, fmt.Errorf("extract: yaml: %q must map to a sequence, got %s at line %d", key.Value, kindName(val.Kind), val.Line)
		}

		vec := make(embeddings.Vector, 0, len(val.Content))
		for _, item := range val.Content {
			f, err := strconv.ParseFloat(item.Value, 32)
			if err != nil {
				return nil, fmt.Errorf("extract: yaml: %q: invalid numeric literal %q at line %d", key.Value, item.Value, item.Line)
			}
			vec = append(vec, float32(f))
		}
		entries = append(entries, embeddings.Entry{Name: key.Value, Vector: vec})
	}
	return entries, nil
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
