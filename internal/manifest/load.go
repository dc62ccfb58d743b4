package manifest

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// manifestFile is the on-disk shape of a candidate-item manifest. Both YAML
// and JSON parse through yaml.v3.
type manifestFile struct {
	Items []Item `yaml:"items"`
}

// LoadFile reads a candidate-item manifest from a YAML or JSON file.
// Items without an item_id are assigned a generated UUID before validation,
// so hand-written manifests do not need to invent identifiers.
func LoadFile(path string) ([]Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates manifest bytes.
func Parse(data []byte) ([]Item, error) {
	var file manifestFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	items := file.Items
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.NewString()
		}
	}

	if err := ValidateAll(items); err != nil {
		return nil, err
	}
	return items, nil
}
