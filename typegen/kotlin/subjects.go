package kotlin

import (
	"github.com/teranos/tripgen/errors"
	"github.com/teranos/tripgen/triplet"
	"github.com/teranos/tripgen/typegen/util"
)

// Method is one infix function of a subject interface.
type Method struct {
	Name          string
	ParameterName string
	ParameterType string
}

// InterfaceDecl is one subject interface.
type InterfaceDecl struct {
	Name    string
	Methods []Method

	// Imports lists the parameter classes the methods reference
	Imports []string
}

type methodKey struct {
	member string
	object triplet.Key
}

type subjectGroup struct {
	subject string
	methods *util.OrderedSet[methodKey, Method]
}

// SynthesizeInterfaces groups triplets by subject and returns one interface
// per subject in first-seen order. Triplets sharing a relationship and a
// structurally equal object become one method.
//
// Two subject spellings that map to the same interface name ("user" and
// "User") are a collision.
func SynthesizeInterfaces(triplets []triplet.Triplet, keyer *triplet.Keyer) ([]InterfaceDecl, error) {
	groups := util.NewOrderedSet[string, *subjectGroup]()
	for _, t := range triplets {
		name := util.ClassName(t.Subject)
		g, ok := groups.Get(name)
		if !ok {
			g = &subjectGroup{subject: t.Subject, methods: util.NewOrderedSet[methodKey, Method]()}
			groups.Add(name, g)
		} else if g.subject != t.Subject {
			return nil, errors.Collisionf("subjects %q and %q both map to interface %s", g.subject, t.Subject, name)
		}

		key, err := keyer.Key(t.Object)
		if err != nil {
			return nil, errors.WithDetailf(err, "subject %q", t.Subject)
		}
		m := Method{
			Name:          util.MemberName(t.Relationship),
			ParameterName: util.FieldName(t.Object.Name),
			ParameterType: util.ClassName(t.Object.Name),
		}
		g.methods.Add(methodKey{member: m.Name, object: key}, m)
	}

	decls := make([]InterfaceDecl, 0, groups.Len())
	for _, name := range groups.Keys() {
		g, _ := groups.Get(name)

		// Structurally different objects with the same root class give the
		// same Kotlin signature.
		methods := util.NewOrderedSet[Method, struct{}]()
		imports := util.NewOrderedSet[string, struct{}]()
		for _, m := range g.methods.Values() {
			methods.Add(m, struct{}{})
			imports.Add(m.ParameterType, struct{}{})
		}
		decls = append(decls, InterfaceDecl{Name: name, Methods: methods.Keys(), Imports: imports.Keys()})
	}
	return decls, nil
}
