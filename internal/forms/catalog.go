package forms

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"signaldesk/internal/domain"
)

//go:embed forms.yaml
var defaultCatalog []byte

// Catalog holds the dashboard forms in display order
type Catalog struct {
	forms []domain.FormBinding
	byID  map[string]domain.FormBinding
}

type catalogFile struct {
	Forms []domain.FormBinding `yaml:"forms"`
}

// Default returns the built-in catalog
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("built-in forms catalog is invalid: %v", err))
	}
	return c
}

// Load reads a catalog from path, or returns the built-in one when path is empty
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read forms file %s: %w", path, err)
	}
	c, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("invalid forms file %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a YAML catalog
func Parse(b []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(b, &file); err != nil {
		return nil, fmt.Errorf("failed to parse forms: %w", err)
	}
	return New(file.Forms)
}

// New validates bindings and builds a catalog from them
func New(bindings []domain.FormBinding) (*Catalog, error) {
	if len(bindings) == 0 {
		return nil, fmt.Errorf("no forms defined")
	}

	c := &Catalog{byID: make(map[string]domain.FormBinding, len(bindings))}
	for i, b := range bindings {
		if b.ID == "" {
			return nil, fmt.Errorf("form #%d has no id", i+1)
		}
		if _, dup := c.byID[b.ID]; dup {
			return nil, fmt.Errorf("form %q defined twice", b.ID)
		}
		if !strings.HasPrefix(b.Path, "/") {
			return nil, fmt.Errorf("form %q: path %q must start with /", b.ID, b.Path)
		}
		switch b.Kind {
		case "":
			b.Kind = domain.FormGeneric
		case domain.FormGeneric, domain.FormAI:
		default:
			return nil, fmt.Errorf("form %q: unknown kind %q", b.ID, b.Kind)
		}
		if b.Title == "" {
			b.Title = b.ID
		}
		c.forms = append(c.forms, b)
		c.byID[b.ID] = b
	}
	return c, nil
}

// Lookup finds a form by id
func (c *Catalog) Lookup(id string) (domain.FormBinding, bool) {
	b, ok := c.byID[id]
	return b, ok
}

// All returns the forms in display order
func (c *Catalog) All() []domain.FormBinding {
	out := make([]domain.FormBinding, len(c.forms))
	copy(out, c.forms)
	return out
}
