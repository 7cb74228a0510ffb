package domain

// FormKind selects how a form is submitted
type FormKind string

const (
	// FormGeneric posts the flat payload, then refreshes the lists and resets the form
	FormGeneric FormKind = "generic"
	// FormAI nests the market snapshot and leaves lists and form alone
	FormAI FormKind = "ai"
)

// FormField describes one input of a dashboard form
type FormField struct {
	Name        string `yaml:"name" json:"name"`
	Label       string `yaml:"label" json:"label"`
	Type        string `yaml:"type" json:"type"` // text, number
	Placeholder string `yaml:"placeholder" json:"placeholder,omitempty"`
	Step        string `yaml:"step" json:"step,omitempty"`
}

// FormBinding ties a dashboard form to the endpoint it posts to
type FormBinding struct {
	ID     string      `yaml:"id" json:"id"`
	Title  string      `yaml:"title" json:"title"`
	Path   string      `yaml:"path" json:"path"`
	Kind   FormKind    `yaml:"kind" json:"kind"`
	Fields []FormField `yaml:"fields" json:"fields"`
}

// Mutates reports whether a successful submit changes the lists
func (b FormBinding) Mutates() bool {
	return b.Kind != FormAI
}
