// Package kotlin synthesizes Kotlin sources from scenarios: one interface per
// subject, one class per distinct parameter shape and one JUnit test per
// scenario.
package kotlin

import (
	"github.com/teranos/tripgen/triplet"
	"github.com/teranos/tripgen/typegen/util"
)

// ConstructorCall describes how to build one example instance of a
// parameter class. Unlike class declarations these are positional: every
// triplet gets its own call tree even when shapes repeat.
type ConstructorCall struct {
	// Depth is 0 for the triplet's object and grows by one per level
	Depth int

	// TypeName is the class being constructed
	TypeName string

	// FieldName is the named-argument label used when this call is nested
	// inside its parent's argument list
	FieldName string

	Children []*ConstructorCall
	Values   []string
}

// BuildConstructorCall lowers a parameter tree into a ConstructorCall tree,
// children in list order. root must already have passed Keyer validation.
func BuildConstructorCall(root *triplet.Parameter, depth int) *ConstructorCall {
	type pending struct {
		node *triplet.Parameter
		call *ConstructorCall
	}

	top := newConstructorCall(root, depth)
	stack := []pending{{root, top}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if len(p.node.Children) == 0 {
			continue
		}
		p.call.Children = make([]*ConstructorCall, len(p.node.Children))
		for i, child := range p.node.Children {
			c := newConstructorCall(child, p.call.Depth+1)
			p.call.Children[i] = c
			stack = append(stack, pending{child, c})
		}
	}
	return top
}

func newConstructorCall(p *triplet.Parameter, depth int) *ConstructorCall {
	return &ConstructorCall{
		Depth:     depth,
		TypeName:  util.ClassName(p.Name),
		FieldName: util.FieldName(p.Name),
		Values:    p.Values,
	}
}

// TypeNames returns every type constructed anywhere in the tree, pre-order,
// first occurrence only, appended to seen.
func (c *ConstructorCall) TypeNames(seen *util.OrderedSet[string, struct{}]) {
	stack := []*ConstructorCall{c}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		seen.Add(n.TypeName, struct{}{})
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
}
