// Package topics holds the catalog of topics a reader can pick from.
package topics

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed topics.yaml
var defaultCatalog []byte

type Topic struct {
	Value   string `yaml:"value" json:"value"`
	Label   string `yaml:"label" json:"label"`
	Premium bool   `yaml:"premium,omitempty" json:"premium"`
}

type Catalog struct {
	Topics []Topic `yaml:"topics"`
}

// Load reads the catalog at path, or the embedded default when path is empty.
func Load(path string) (*Catalog, error) {
	data := defaultCatalog
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading topics file: %w", err)
		}
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing topics: %w", err)
	}

	seen := make(map[string]bool, len(c.Topics))
	for i, t := range c.Topics {
		if t.Value == "" {
			return nil, fmt.Errorf("topic %d has no value", i)
		}
		if seen[t.Value] {
			return nil, fmt.Errorf("duplicate topic %q", t.Value)
		}
		seen[t.Value] = true
		if t.Label == "" {
			c.Topics[i].Label = t.Value
		}
	}
	return &c, nil
}

// Available returns the topics a reader may pick: free topics for everyone,
// plus premium topics for premium readers.
func (c *Catalog) Available(premium bool) []Topic {
	out := make([]Topic, 0, len(c.Topics))
	for _, t := range c.Topics {
		if t.Premium && !premium {
			continue
		}
		out = append(out, t)
	}
	return out
}

func (c *Catalog) Values() []string {
	values := make([]string, len(c.Topics))
	for i, t := range c.Topics {
		values[i] = t.Value
	}
	return values
}
