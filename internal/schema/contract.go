package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/heartmarshall/users-conformance/internal/domain"
)

// contractFile is the on-disk YAML layout of a schema contract.
type contractFile struct {
	Table  string `yaml:"table"`
	Fields []struct {
		Name string `yaml:"name"`
		Type string `yaml:"type"`
	} `yaml:"fields"`
}

// LoadContract reads a YAML contract file and builds a Descriptor from it.
// Declared types go through the same normalization as catalog types.
func LoadContract(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: read contract: %w", err)
	}
	return ParseContract(data)
}

// ParseContract builds a Descriptor from YAML contract bytes.
func ParseContract(data []byte) (*Descriptor, error) {
	var cf contractFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("schema: parse contract: %w", err)
	}

	fields := make([]domain.FieldExpectation, 0, len(cf.Fields))
	for _, f := range cf.Fields {
		fields = append(fields, domain.FieldExpectation{
			Name: f.Name,
			Type: domain.NormalizeTypeTag(f.Type),
		})
	}

	d, err := NewDescriptor(cf.Table, fields)
	if err != nil {
		return nil, fmt.Errorf("schema: contract: %w", err)
	}
	return d, nil
}
