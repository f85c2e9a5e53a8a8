// Package catalog holds the service categories known to the platform.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed categories.yaml
var defaultCategories []byte

type entry struct {
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases"`
}

type file struct {
	Categories []entry `yaml:"categories"`
}

// Catalog resolves free-form category input to its canonical name. Lookups
// ignore case and surrounding whitespace.
type Catalog struct {
	names  []string
	lookup map[string]string
}

// Default returns the catalog embedded in the binary.
func Default() (*Catalog, error) {
	return Parse(bytes.NewReader(defaultCategories))
}

// Load reads a catalog from path, falling back to the embedded one when path
// is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes a YAML catalog.
func Parse(r io.Reader) (*Catalog, error) {
	var doc file
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	c := &Catalog{lookup: make(map[string]string)}
	for _, e := range doc.Categories {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			return nil, fmt.Errorf("catalog: category without a name")
		}
		if _, dup := c.lookup[key(name)]; dup {
			return nil, fmt.Errorf("catalog: duplicate category %q", name)
		}
		c.names = append(c.names, name)
		c.lookup[key(name)] = name
		for _, a := range e.Aliases {
			if k := key(a); k != "" {
				if _, dup := c.lookup[k]; !dup {
					c.lookup[k] = name
				}
			}
		}
	}
	if len(c.names) == 0 {
		return nil, fmt.Errorf("catalog: no categories")
	}
	return c, nil
}

func key(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (c *Catalog) Canonical(category string) (string, bool) {
	name, ok := c.lookup[key(category)]
	return name, ok
}

func (c *Catalog) Has(category string) bool {
	_, ok := c.Canonical(category)
	return ok
}

// All returns the canonical names in file order.
func (c *Catalog) All() []string {
	return append([]string(nil), c.names...)
}
