package tariff

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type fileSchema struct {
	VATRate *float64           `yaml:"vat_rate"`
	Tables  map[Category]Table `yaml:"tables"`
}

// LoadFile returns a model whose tables are the defaults overridden by the
// YAML document at path. Categories absent from the file keep their defaults.
func LoadFile(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tariff.LoadFile: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("tariff.LoadFile %s: %w", path, err)
	}
	return m, nil
}

// Parse builds a model from a YAML document.
func Parse(data []byte) (*Model, error) {
	var doc fileSchema
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding yaml: %w", err)
	}

	m := NewModel()
	if doc.VATRate != nil {
		if *doc.VATRate < 0 {
			return nil, fmt.Errorf("vat_rate must be non-negative, got %v", *doc.VATRate)
		}
		m.vatRate = *doc.VATRate
	}
	for cat, table := range doc.Tables {
		if !knownCategory(cat) {
			return nil, fmt.Errorf("unknown tariff category %q", cat)
		}
		if err := table.Validate(); err != nil {
			return nil, fmt.Errorf("table %s: %w", cat, err)
		}
		m.tables[cat] = table
	}
	return m, nil
}

func knownCategory(c Category) bool {
	switch c {
	case CategoryResidential, CategoryCommercial, CategoryIndustrial, CategoryAgricultural, CategoryDefault:
		return true
	}
	return false
}
