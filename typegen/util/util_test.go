package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"user", "User"},
		{"User", "User"},
		{"tariffPlan", "TariffPlan"},
		{"x", "X"},
		{"état", "État"},
		{"2fa", "2fa"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassName(tt.input))
		})
	}
}

func TestMemberName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"pay", "pay"},
		{"register in", "`register in`"},
		{"sign up for", "`sign up for`"},
		{"registerIn", "registerIn"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, MemberName(tt.input))
		})
	}
}

func TestFieldAndFileName(t *testing.T) {
	assert.Equal(t, "tariff", FieldName("Tariff"))
	assert.Equal(t, "deliveryaddress", FieldName("deliveryAddress"))
	assert.Equal(t, "TariffTest", FileName("Tariff Test"))
	assert.Equal(t, "TariffTest", FileName("TariffTest"))
}

func TestOrderedSet(t *testing.T) {
	s := NewOrderedSet[string, int]()

	assert.True(t, s.Add("tariff", 1))
	assert.True(t, s.Add("form", 2))
	assert.False(t, s.Add("tariff", 3))
	assert.True(t, s.Add("address", 4))

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []string{"tariff", "form", "address"}, s.Keys())
	assert.Equal(t, []int{1, 2, 4}, s.Values())

	v, ok := s.Get("tariff")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = s.Get("missing")
	assert.False(t, ok)
}

func TestOrderedSet_Empty(t *testing.T) {
	s := NewOrderedSet[string, struct{}]()
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Keys())
	assert.Empty(t, s.Values())
}
