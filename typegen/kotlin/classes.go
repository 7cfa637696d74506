package kotlin

import (
	"slices"
	"strings"

	"github.com/teranos/tripgen/errors"
	"github.com/teranos/tripgen/triplet"
	"github.com/teranos/tripgen/typegen/util"
)

// Field is one property of a generated data class.
type Field struct {
	Name string
	Type string
}

// ClassDecl is one parameter class.
type ClassDecl struct {
	Name   string
	Fields []Field
}

// Signature renders the declaration head, e.g. "Order(address: Address, value: String)".
func (d ClassDecl) Signature() string {
	parts := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		parts[i] = f.Name + ": " + f.Type
	}
	return d.Name + "(" + strings.Join(parts, ", ") + ")"
}

// shape is the field set of d independent of field order. Constructor calls
// pass every argument by name, so declarations listing the same fields in a
// different order are the same class.
func (d ClassDecl) shape() string {
	parts := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		parts[i] = f.Name + ": " + f.Type
	}
	slices.Sort(parts)
	return d.Name + "(" + strings.Join(parts, ", ") + ")"
}

// SynthesizeClasses returns one declaration per structurally distinct
// parameter node reachable from any triplet's object, in first-seen order.
//
// Distinct nodes that render to the same declaration (Tariff("simple") and
// Tariff("premium")) collapse into one, keeping the field order seen first.
// Declarations sharing a class name but not a field set are a collision.
func SynthesizeClasses(triplets []triplet.Triplet, keyer *triplet.Keyer) ([]ClassDecl, error) {
	nodes := util.NewOrderedSet[triplet.Key, *triplet.Parameter]()
	for _, t := range triplets {
		err := triplet.Walk(t.Object, func(p *triplet.Parameter) error {
			key, err := keyer.Key(p)
			if err != nil {
				return err
			}
			nodes.Add(key, p)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	decls := util.NewOrderedSet[string, ClassDecl]()
	for _, p := range nodes.Values() {
		d, err := classDecl(p)
		if err != nil {
			return nil, err
		}
		if existing, ok := decls.Get(d.Name); ok {
			if existing.shape() != d.shape() {
				return nil, errors.WithDetailf(
					errors.Collisionf("class %s has conflicting shapes", d.Name),
					"%s vs %s", existing.Signature(), d.Signature())
			}
			continue
		}
		decls.Add(d.Name, d)
	}
	return decls.Values(), nil
}

// classDecl builds the declaration of one node: a field per direct child,
// then the literal values as "value: String" or "values: List<String>".
// Two children with one field name would give a constructor call the same
// named argument twice.
func classDecl(p *triplet.Parameter) (ClassDecl, error) {
	name := util.ClassName(p.Name)
	fields := util.NewOrderedSet[string, Field]()
	for _, c := range p.Children {
		f := Field{Name: util.FieldName(c.Name), Type: util.ClassName(c.Name)}
		if !fields.Add(f.Name, f) {
			return ClassDecl{}, errors.Collisionf("class %s has two children named %q", name, f.Name)
		}
	}

	var values Field
	switch len(p.Values) {
	case 0:
	case 1:
		values = Field{Name: "value", Type: "String"}
	default:
		values = Field{Name: "values", Type: "List<String>"}
	}
	if values.Name != "" && !fields.Add(values.Name, values) {
		return ClassDecl{}, errors.Collisionf("class %s has a child named %q and literal values", name, values.Name)
	}

	return ClassDecl{Name: name, Fields: fields.Values()}, nil
}
