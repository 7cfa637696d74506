// Package triplet holds the input model of the synthesis engine: scenarios
// made of (subject, relationship, object) facts whose object is a tree of
// named parameters carrying literal values.
//
// Values of these types are produced once by a parser or decoder and are
// treated as immutable afterwards. Identity during synthesis is structural:
// two nodes built by different triplets with the same name, the same set of
// children and the same values are the same declaration.
package triplet

// Parameter is one node of a triplet's object tree.
type Parameter struct {
	Name     string       `json:"name" yaml:"name" toml:"name"`
	Children []*Parameter `json:"children,omitempty" yaml:"children,omitempty" toml:"children,omitempty"`
	Values   []string     `json:"values,omitempty" yaml:"values,omitempty" toml:"values,omitempty"`
}

// Triplet is one "subject relationship object" fact.
type Triplet struct {
	Subject      string     `json:"subject" yaml:"subject" toml:"subject"`
	Relationship string     `json:"relationship" yaml:"relationship" toml:"relationship"`
	Object       *Parameter `json:"object" yaml:"object" toml:"object"`
}

// Scenario is a named, ordered group of triplets. Order is call order in the
// generated test.
type Scenario struct {
	Name     string    `json:"name" yaml:"name" toml:"name"`
	Triplets []Triplet `json:"triplets" yaml:"triplets" toml:"triplets"`
}

// NewParameter is a convenience constructor used by callers that build
// trees in code rather than decoding them.
func NewParameter(name string, values []string, children ...*Parameter) *Parameter {
	return &Parameter{Name: name, Children: children, Values: values}
}

// Flatten concatenates the triplets of all scenarios in scenario order.
func Flatten(scenarios []Scenario) []Triplet {
	n := 0
	for _, s := range scenarios {
		n += len(s.Triplets)
	}
	out := make([]Triplet, 0, n)
	for _, s := range scenarios {
		out = append(out, s.Triplets...)
	}
	return out
}
