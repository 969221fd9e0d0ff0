package registry

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/specialistvlad/streamgridgo/internal/mapping"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestMerge_UnionKeepsLeftOrder(t *testing.T) {
	shared := newSource(t, "shared", cty.Number)
	left := newTransform(t, "left", cty.Number, slot("n", shared))
	other := newSource(t, "other", cty.String)
	right := newTransform(t, "right", cty.String, slot("n", shared), slot("s", other))

	a := mustAdd(t, New(), shared, left)
	b := mustAdd(t, New(), other, shared, right)

	merged, err := Merge(a, b)
	require.NoError(t, err)
	require.NoError(t, merged.Validate())

	assert.Equal(t, []string{"shared", "left", "other", "right"}, names(merged.ExecutionQueue()))
	byName := cmpopts.SortSlices(func(a, b string) bool { return a < b })
	if diff := cmp.Diff([]string{"shared", "left", "other", "right"}, names(merged.Mappings()), byName); diff != "" {
		t.Errorf("merged mappings mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, merged.Detached())

	assert.Equal(t, 2, a.Len(), "left operand must not change")
	assert.Equal(t, 3, b.Len(), "right operand must not change")
}

func TestMerge_ResolvesDetachedAcrossSides(t *testing.T) {
	labels := newTransform(t, "labels", cty.String, anon("v", cty.Number))
	src := newSource(t, "numbers", cty.Number)

	a := mustAdd(t, New(), labels)
	b := mustAdd(t, New(), src)

	merged, err := Merge(a, b)
	require.NoError(t, err)
	require.NoError(t, merged.Validate())

	assert.Equal(t, []string{"numbers", "labels*"}, names(merged.ExecutionQueue()))
	assert.Empty(t, merged.Missing())
	assert.True(t, merged.Satisfied())
}

func TestMerge_ConflictingResolutions(t *testing.T) {
	first := newSource(t, "first", cty.Number)
	second := newSource(t, "second", cty.Number)

	a := mustAdd(t, New(), first, newTransform(t, "a", cty.String, anon("v", cty.Number)))
	b := mustAdd(t, New(), second, newTransform(t, "b", cty.String, anon("v", cty.Number)))

	merged, err := Merge(a, b)
	require.ErrorIs(t, err, ErrAmbiguousSource)
	assert.Nil(t, merged)
}

func TestMerge_MissingBecomesAmbiguous(t *testing.T) {
	a := mustAdd(t, New(), newTransform(t, "labels", cty.String, anon("v", cty.Number)))
	b := mustAdd(t, New(), newSource(t, "x", cty.Number), newSource(t, "y", cty.Number))

	_, err := Merge(a, b)
	require.ErrorIs(t, err, ErrAmbiguousSource)
}

func TestMerge_SameBindingIsNotAConflict(t *testing.T) {
	src := newSource(t, "numbers", cty.Number)
	a := mustAdd(t, New(), src, newTransform(t, "a", cty.String, anon("v", cty.Number)))
	b := mustAdd(t, New(), src, newTransform(t, "b", cty.String, anon("v", cty.Number)))

	merged, err := Merge(a, b)
	require.NoError(t, err)
	assert.Equal(t, []string{"numbers", "a*", "b*"}, names(merged.ExecutionQueue()))
}

func TestMerge_NilAndSelf(t *testing.T) {
	c := mustAdd(t, New(), newSource(t, "numbers", cty.Number))

	got, err := Merge(nil, c)
	require.NoError(t, err)
	assert.Same(t, c, got)

	got, err = Merge(c, nil)
	require.NoError(t, err)
	assert.Same(t, c, got)

	got, err = Merge(c, c)
	require.NoError(t, err)
	assert.Same(t, c, got)

	got, err = Merge(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len())
}

func TestMerge_Components(t *testing.T) {
	ca, err := mapping.NewComponent("a", newSource(t, "x", cty.Number))
	require.NoError(t, err)
	cb, err := mapping.NewComponent("b", newSource(t, "y", cty.String))
	require.NoError(t, err)

	a, err := New().AddComponent(ca)
	require.NoError(t, err)
	b, err := New().AddComponent(cb)
	require.NoError(t, err)

	merged, err := Merge(a, b)
	require.NoError(t, err)

	var got []string
	for _, comp := range merged.Components() {
		got = append(got, comp.Name)
	}
	assert.Equal(t, []string{"a", "b"}, got)
}
