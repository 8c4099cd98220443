// Package houses holds the static display metadata for the four houses.
// It is used only for presentation; house filtering is resolved upstream.
package houses

import (
	_ "embed"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed houses.yaml
var housesYAML []byte

// House is the display metadata for one house.
type House struct {
	Name        string `yaml:"name" json:"name"`
	Primary     string `yaml:"primary" json:"primary"`
	Secondary   string `yaml:"secondary" json:"secondary"`
	Symbol      string `yaml:"symbol" json:"symbol"`
	Description string `yaml:"description" json:"description"`
}

var all = mustParse(housesYAML)

// All returns the houses in display order.
func All() []House {
	return slices.Clone(all)
}

// Parse decodes a YAML list of houses.
func Parse(data []byte) ([]House, error) {
	var hs []House
	if err := yaml.Unmarshal(data, &hs); err != nil {
		return nil, fmt.Errorf("houses: parse: %w", err)
	}
	for i, h := range hs {
		if h.Name == "" {
			return nil, fmt.Errorf("houses: entry %d has no name", i)
		}
	}
	return hs, nil
}

func mustParse(data []byte) []House {
	hs, err := Parse(data)
	if err != nil {
		panic(err)
	}
	return hs
}
