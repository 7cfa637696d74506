package kotlin

import (
	"github.com/teranos/tripgen/errors"
	"github.com/teranos/tripgen/triplet"
	"github.com/teranos/tripgen/typegen/util"
)

// Variable is one subject implementation instance declared by a test.
type Variable struct {
	Name string
	Type string
}

// FunctionCall is one infix call in a test body:
// <ContextObject> <MethodName> <Constructor>.
type FunctionCall struct {
	ContextObject string
	MethodName    string
	Constructor   *ConstructorCall
}

// TestDecl is the test source for one scenario.
type TestDecl struct {
	Scenario  string
	FileName  string
	ClassName string

	// Subjects holds one variable per distinct subject, first appearance first
	Subjects []Variable

	Calls []FunctionCall

	// Types lists every class constructed by any call, for imports
	Types []string
}

// SynthesizeTest builds the test for one scenario: one call per triplet in
// triplet order. Distinct subjects whose variables share a name ("UserA" and
// "Usera") are a collision.
func SynthesizeTest(s triplet.Scenario) (TestDecl, error) {
	subjects := util.NewOrderedSet[string, Variable]()
	types := util.NewOrderedSet[string, struct{}]()
	calls := make([]FunctionCall, 0, len(s.Triplets))

	for _, t := range s.Triplets {
		call := FunctionCall{
			ContextObject: util.FieldName(t.Subject),
			MethodName:    util.MemberName(t.Relationship),
			Constructor:   BuildConstructorCall(t.Object, 0),
		}
		v := Variable{Name: call.ContextObject, Type: util.ClassName(t.Subject)}
		if existing, ok := subjects.Get(v.Name); ok && existing.Type != v.Type {
			return TestDecl{}, errors.WithDetailf(
				errors.Collisionf("subjects %s and %s share variable %s", existing.Type, v.Type, v.Name),
				"scenario %q", s.Name)
		}
		subjects.Add(v.Name, v)
		call.Constructor.TypeNames(types)
		calls = append(calls, call)
	}

	fileName := util.FileName(s.Name)
	return TestDecl{
		Scenario:  s.Name,
		FileName:  fileName,
		ClassName: util.ClassName(fileName),
		Subjects:  subjects.Values(),
		Calls:     calls,
		Types:     types.Keys(),
	}, nil
}
