package triplet

import (
	"sort"
	"strconv"
	"strings"

	"github.com/teranos/tripgen/errors"
)

// Key is the canonical structural fingerprint of a parameter tree. Two trees
// have the same Key iff they are structurally equal: same name, same set of
// children (order and repetition ignored) and the same ordered values.
type Key string

// Keyer computes structural keys. It memoizes per node pointer, so one Keyer
// must only be used within a single synthesis run over immutable trees.
//
// Traversal uses an explicit stack; a node that is reached again while it is
// still being expanded is a cycle and yields ErrMalformedTree. Shared
// subtrees (the same node under two parents) are fine.
type Keyer struct {
	memo map[*Parameter]Key
}

// NewKeyer returns a Keyer with an empty memo.
func NewKeyer() *Keyer {
	return &Keyer{memo: make(map[*Parameter]Key)}
}

type keyFrame struct {
	node     *Parameter
	expanded bool
}

// Key returns the structural key of root.
func (k *Keyer) Key(root *Parameter) (Key, error) {
	if root == nil {
		return "", errors.Malformedf("nil parameter")
	}
	if key, ok := k.memo[root]; ok {
		return key, nil
	}

	onPath := make(map[*Parameter]bool)
	stack := []keyFrame{{node: root}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		n := top.node

		if _, done := k.memo[n]; done {
			stack = stack[:len(stack)-1]
			continue
		}

		if !top.expanded {
			if strings.TrimSpace(n.Name) == "" {
				return "", errors.Malformedf("parameter with empty name")
			}
			top.expanded = true
			onPath[n] = true
			for i := len(n.Children) - 1; i >= 0; i-- {
				c := n.Children[i]
				if c == nil {
					return "", errors.Malformedf("nil child %d of parameter %q", i, n.Name)
				}
				if onPath[c] {
					return "", errors.WithDetailf(
						errors.Malformedf("cycle through parameter %q", c.Name),
						"reached again from %q", n.Name)
				}
				if _, done := k.memo[c]; !done {
					stack = append(stack, keyFrame{node: c})
				}
			}
			continue
		}

		k.memo[n] = k.compose(n)
		delete(onPath, n)
		stack = stack[:len(stack)-1]
	}

	return k.memo[root], nil
}

// compose assumes every child of n is already memoized.
func (k *Keyer) compose(n *Parameter) Key {
	children := make([]string, 0, len(n.Children))
	seen := make(map[Key]bool, len(n.Children))
	for _, c := range n.Children {
		ck := k.memo[c]
		if seen[ck] {
			continue
		}
		seen[ck] = true
		children = append(children, string(ck))
	}
	sort.Strings(children)

	var b strings.Builder
	b.WriteString(strconv.Quote(n.Name))
	b.WriteByte('{')
	b.WriteString(strings.Join(children, ","))
	b.WriteString("}[")
	for i, v := range n.Values {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Quote(v))
	}
	b.WriteByte(']')
	return Key(b.String())
}

// Equal reports whether a and b are structurally equal. Malformed trees are
// never equal to anything.
func Equal(a, b *Parameter) bool {
	k := NewKeyer()
	ka, err := k.Key(a)
	if err != nil {
		return false
	}
	kb, err := k.Key(b)
	if err != nil {
		return false
	}
	return ka == kb
}

// Walk visits root and every descendant in pre-order, children in list
// order. A node reachable along several paths is visited once. Walk does not
// detect cycles by itself beyond never revisiting a node; validate the tree
// with a Keyer first.
func Walk(root *Parameter, visit func(*Parameter) error) error {
	if root == nil {
		return nil
	}
	visited := make(map[*Parameter]bool)
	stack := []*Parameter{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == nil || visited[n] {
			continue
		}
		visited[n] = true
		if err := visit(n); err != nil {
			return err
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
	return nil
}
