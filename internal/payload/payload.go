package payload

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Field is one raw form entry as submitted
type Field struct {
	Name  string
	Value string
}

// Payload is the flat JSON object sent to the API.
// Values are Value, except the nested Market built for AI summaries.
type Payload map[string]any

// FromFields builds a payload from raw form entries.
// Empty entries are skipped, everything else goes through Coerce.
// When a name repeats, the last non-empty entry wins.
func FromFields(fields []Field) Payload {
	p := make(Payload, len(fields))
	for _, f := range fields {
		if f.Value == "" {
			continue
		}
		p[f.Name] = Coerce(f.Value)
	}
	return p
}

// FieldsFromValues flattens url.Values into fields with a stable key order
func FieldsFromValues(values url.Values) []Field {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]Field, 0, len(values))
	for _, k := range keys {
		for _, v := range values[k] {
			fields = append(fields, Field{Name: k, Value: v})
		}
	}
	return fields
}

// ParseAssignments parses NAME=VALUE pairs as given on a command line
func ParseAssignments(pairs []string) ([]Field, error) {
	fields := make([]Field, 0, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid field %q: expected NAME=VALUE", pair)
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("invalid field %q: name cannot be empty", pair)
		}
		fields = append(fields, Field{Name: name, Value: value})
	}
	return fields, nil
}

// Keys returns the payload keys in sorted order
func (p Payload) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
