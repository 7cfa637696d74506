package triplet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/tripgen/errors"
)

func TestEqual(t *testing.T) {
	form := func() *Parameter { return NewParameter("form", []string{"registration"}) }

	tests := []struct {
		name  string
		a, b  *Parameter
		equal bool
	}{
		{
			name:  "same leaf",
			a:     form(),
			b:     form(),
			equal: true,
		},
		{
			name:  "different name",
			a:     NewParameter("form", []string{"x"}),
			b:     NewParameter("tariff", []string{"x"}),
			equal: false,
		},
		{
			name:  "value order matters",
			a:     NewParameter("tariff", []string{"a", "b"}),
			b:     NewParameter("tariff", []string{"b", "a"}),
			equal: false,
		},
		{
			name:  "child order does not matter",
			a:     NewParameter("order", nil, NewParameter("item", []string{"1"}), NewParameter("address", []string{"x"})),
			b:     NewParameter("order", nil, NewParameter("address", []string{"x"}), NewParameter("item", []string{"1"})),
			equal: true,
		},
		{
			name:  "children compared as a set",
			a:     NewParameter("order", nil, form(), form()),
			b:     NewParameter("order", nil, form()),
			equal: true,
		},
		{
			name:  "nested difference",
			a:     NewParameter("order", nil, NewParameter("item", []string{"1"})),
			b:     NewParameter("order", nil, NewParameter("item", []string{"2"})),
			equal: false,
		},
		{
			name:  "values are not children",
			a:     NewParameter("order", []string{"item"}),
			b:     NewParameter("order", nil, NewParameter("item", nil)),
			equal: false,
		},
		{
			name:  "quoting keeps names and values apart",
			a:     NewParameter("a", []string{`b","c`}),
			b:     NewParameter("a", []string{"b", "c"}),
			equal: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.equal, Equal(tt.a, tt.b))
			assert.Equal(t, tt.equal, Equal(tt.b, tt.a))
		})
	}
}

func TestKeyer_SharedSubtree(t *testing.T) {
	shared := NewParameter("address", []string{"street"})
	root := NewParameter("order", nil, NewParameter("billing", nil, shared), NewParameter("shipping", nil, shared))

	k := NewKeyer()
	key, err := k.Key(root)
	require.NoError(t, err)
	assert.NotEmpty(t, key)

	again, err := k.Key(root)
	require.NoError(t, err)
	assert.Equal(t, key, again)
}

func TestKeyer_Malformed(t *testing.T) {
	t.Run("self cycle", func(t *testing.T) {
		p := NewParameter("loop", nil)
		p.Children = []*Parameter{p}
		_, err := NewKeyer().Key(p)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrMalformedTree))
	})

	t.Run("indirect cycle", func(t *testing.T) {
		a := NewParameter("a", nil)
		b := NewParameter("b", nil, a)
		c := NewParameter("c", nil, b)
		a.Children = []*Parameter{c}
		_, err := NewKeyer().Key(NewParameter("root", nil, a))
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrMalformedTree))
		assert.Contains(t, err.Error(), "cycle")
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := NewKeyer().Key(NewParameter("order", nil, NewParameter(" ", nil)))
		assert.True(t, errors.Is(err, errors.ErrMalformedTree))
	})

	t.Run("nil child", func(t *testing.T) {
		_, err := NewKeyer().Key(&Parameter{Name: "order", Children: []*Parameter{nil}})
		assert.True(t, errors.Is(err, errors.ErrMalformedTree))
	})

	t.Run("nil root", func(t *testing.T) {
		_, err := NewKeyer().Key(nil)
		assert.True(t, errors.Is(err, errors.ErrMalformedTree))
	})
}

func TestKeyer_DeepTree(t *testing.T) {
	root := NewParameter("n", []string{"leaf"})
	for i := 0; i < 1000; i++ {
		root = NewParameter("n", nil, root)
	}
	_, err := NewKeyer().Key(root)
	require.NoError(t, err)
}

func TestWalk(t *testing.T) {
	shared := NewParameter("address", nil)
	root := NewParameter("order", nil,
		NewParameter("billing", nil, shared),
		NewParameter("item", []string{"1"}),
		shared,
	)

	var names []string
	err := Walk(root, func(p *Parameter) error {
		names = append(names, p.Name)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"order", "billing", "address", "item"}, names)

	stop := errors.New("stop")
	err = Walk(root, func(p *Parameter) error { return stop })
	assert.True(t, errors.Is(err, stop))
}

func TestValidateScenarios(t *testing.T) {
	ok := Triplet{Subject: "User", Relationship: "pay", Object: NewParameter("tariff", []string{"simple"})}

	tests := []struct {
		name      string
		scenarios []Scenario
		sentinel  error
	}{
		{"valid", []Scenario{{Name: "TariffTest", Triplets: []Triplet{ok}}}, nil},
		{"empty scenario", []Scenario{{Name: "Empty"}}, nil},
		{"no name", []Scenario{{Triplets: []Triplet{ok}}}, errors.ErrInvalidRequest},
		{"empty subject", []Scenario{{Name: "s", Triplets: []Triplet{{Relationship: "pay", Object: ok.Object}}}}, errors.ErrMalformedTree},
		{"empty relationship", []Scenario{{Name: "s", Triplets: []Triplet{{Subject: "User", Object: ok.Object}}}}, errors.ErrMalformedTree},
		{"no object", []Scenario{{Name: "s", Triplets: []Triplet{{Subject: "User", Relationship: "pay"}}}}, errors.ErrMalformedTree},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateScenarios(tt.scenarios)
			if tt.sentinel == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.sentinel), "got %v", err)
		})
	}
}

func TestFlatten(t *testing.T) {
	a := Triplet{Subject: "User", Relationship: "pay", Object: NewParameter("tariff", nil)}
	b := Triplet{Subject: "Admin", Relationship: "ban", Object: NewParameter("user", nil)}

	got := Flatten([]Scenario{{Name: "one", Triplets: []Triplet{a}}, {Name: "two"}, {Name: "three", Triplets: []Triplet{b, a}}})
	assert.Equal(t, []Triplet{a, b, a}, got)
	assert.Empty(t, Flatten(nil))
}
