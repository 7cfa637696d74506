package typegen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/tripgen/errors"
)

func TestResult(t *testing.T) {
	r := &Result{Files: []Source{
		{Name: "User.kt", Content: "interface User\n"},
		{Name: "Tariff.kt", Content: "class Tariff\n"},
	}}

	assert.Equal(t, []string{"User.kt", "Tariff.kt"}, r.Names())

	f, ok := r.Lookup("Tariff.kt")
	require.True(t, ok)
	assert.Equal(t, "class Tariff\n", f.Content)

	_, ok = r.Lookup("Form.kt")
	assert.False(t, ok)
}

func TestResult_WriteDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out", "kotlin")
	r := &Result{Files: []Source{
		{Name: "User.kt", Content: "interface User\n"},
		{Name: "TariffTest/Tariff.kt", Content: "class Tariff\n"},
	}}

	require.NoError(t, r.WriteDir(dir))

	data, err := os.ReadFile(filepath.Join(dir, "User.kt"))
	require.NoError(t, err)
	assert.Equal(t, "interface User\n", string(data))

	data, err = os.ReadFile(filepath.Join(dir, "TariffTest", "Tariff.kt"))
	require.NoError(t, err)
	assert.Equal(t, "class Tariff\n", string(data))
}

func TestMerge(t *testing.T) {
	user := Source{Name: "User.kt", Content: "interface User\n"}
	first := &Result{Files: []Source{user, {Name: "FirstTest.kt", Content: "a"}}}
	second := &Result{Files: []Source{user, {Name: "SecondTest.kt", Content: "b"}}}

	merged, err := Merge(first, nil, second)
	require.NoError(t, err)
	assert.Equal(t, []string{"User.kt", "FirstTest.kt", "SecondTest.kt"}, merged.Names())

	empty, err := Merge()
	require.NoError(t, err)
	assert.Empty(t, empty.Files)

	clash := &Result{Files: []Source{{Name: "User.kt", Content: "interface User {\n}\n"}}}
	_, err = Merge(first, clash)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrNameCollision)
}
