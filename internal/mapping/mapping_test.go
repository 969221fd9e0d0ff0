package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

type label string

func (l label) String() string { return string(l) }

func TestNewSource(t *testing.T) {
	t.Run("converts values to the element type", func(t *testing.T) {
		src, err := NewSource("numbers", cty.Number, cty.StringVal("1"), cty.NumberIntVal(2))
		require.NoError(t, err)

		values := src.Values()
		require.Len(t, values, 2)
		assert.True(t, values[0].RawEquals(cty.NumberIntVal(1)))
		assert.True(t, values[1].RawEquals(cty.NumberIntVal(2)))
		assert.Equal(t, KindSource, src.Kind())
		assert.Nil(t, src.Transformation())
		assert.Empty(t, src.Slots())
	})

	t.Run("rejects values of the wrong type", func(t *testing.T) {
		_, err := NewSource("numbers", cty.Number, cty.StringVal("one"))
		require.ErrorIs(t, err, ErrInvalidMapping)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewSource("", cty.Number)
		require.ErrorIs(t, err, ErrInvalidMapping)
	})

	t.Run("values are copied", func(t *testing.T) {
		src, err := NewSource("numbers", cty.Number, cty.NumberIntVal(1))
		require.NoError(t, err)
		src.Values()[0] = cty.NumberIntVal(99)
		assert.True(t, src.Values()[0].RawEquals(cty.NumberIntVal(1)))
	})
}

func TestSourceOf(t *testing.T) {
	src, err := SourceOf("words", []string{"a", "b"})
	require.NoError(t, err)
	assert.True(t, src.ElementType().Equals(cty.String))
	assert.Len(t, src.Values(), 2)

	ints, err := SourceOf("ints", []int{1, 2, 3})
	require.NoError(t, err)
	assert.True(t, ints.ElementType().Equals(cty.Number))
}

func TestNewTransform(t *testing.T) {
	src, err := SourceOf("numbers", []int{1})
	require.NoError(t, err)

	testCases := []struct {
		name    string
		slots   []Slot
		wantErr bool
	}{
		{name: "concrete slot", slots: []Slot{{ID: "n", Upstream: src}}},
		{name: "anonymous slot", slots: []Slot{{ID: "n", Upstream: AnonymousOf(cty.Number)}}},
		{name: "no slots", slots: nil},
		{name: "duplicate slot", slots: []Slot{{ID: "n", Upstream: src}, {ID: "n", Upstream: src}}, wantErr: true},
		{name: "empty slot id", slots: []Slot{{Upstream: src}}, wantErr: true},
		{name: "nil upstream", slots: []Slot{{ID: "n"}}, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tr, err := NewTransform("t", cty.Number, label("x"), tc.slots...)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrInvalidMapping)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tc.slots), len(tr.Slots()))
		})
	}

	t.Run("rejects proxy upstream", func(t *testing.T) {
		inner, err := NewTransform("inner", cty.Number, label("x"), Slot{ID: "n", Upstream: AnonymousOf(cty.Number)})
		require.NoError(t, err)
		p, err := NewProxy(inner, map[AnonymousID]Mapping{IDOf(cty.Number): src})
		require.NoError(t, err)

		_, err = NewTransform("outer", cty.Number, label("x"), Slot{ID: "n", Upstream: p})
		require.ErrorIs(t, err, ErrInvalidMapping)
	})
}

func TestAnonymousIdentity(t *testing.T) {
	a := AnonymousOf(cty.Number)
	b := AnonymousOf(cty.Number)
	c := AnonymousOf(cty.String)
	obj1 := AnonymousOf(cty.Object(map[string]cty.Type{"a": cty.Number, "b": cty.String}))
	obj2 := AnonymousOf(cty.Object(map[string]cty.Type{"b": cty.String, "a": cty.Number}))

	assert.Equal(t, a.ID(), b.ID())
	assert.NotEqual(t, a.ID(), c.ID())
	assert.Equal(t, obj1.ID(), obj2.ID())

	keyed := map[AnonymousID]int{a.ID(): 1}
	assert.Equal(t, 1, keyed[b.ID()])
}

func TestProxy(t *testing.T) {
	src, err := SourceOf("numbers", []int{1})
	require.NoError(t, err)
	words, err := SourceOf("words", []string{"a"})
	require.NoError(t, err)
	orig, err := NewTransform("double", cty.Number, label("n * 2"),
		Slot{ID: "n", Upstream: AnonymousOf(cty.Number)},
		Slot{ID: "w", Upstream: words},
	)
	require.NoError(t, err)

	t.Run("substitutes anonymous slots only", func(t *testing.T) {
		p, err := NewProxy(orig, map[AnonymousID]Mapping{IDOf(cty.Number): src})
		require.NoError(t, err)

		assert.Same(t, orig, p.Original())
		assert.Same(t, orig, Identity(p))
		assert.Equal(t, "double", p.Name())
		assert.Equal(t, KindProxy, p.Kind())
		assert.Equal(t, label("n * 2"), p.Transformation())

		slots := p.Slots()
		require.Len(t, slots, 2)
		assert.Same(t, src, slots[0].Upstream)
		assert.Same(t, words, slots[1].Upstream)

		_, stillAnonymous := orig.Slots()[0].Anonymous()
		assert.True(t, stillAnonymous, "original must not be mutated")
	})

	t.Run("missing binding", func(t *testing.T) {
		_, err := NewProxy(orig, nil)
		require.ErrorIs(t, err, ErrUnresolvedSlot)
	})

	t.Run("type mismatch", func(t *testing.T) {
		_, err := NewProxy(orig, map[AnonymousID]Mapping{IDOf(cty.Number): words})
		require.ErrorIs(t, err, ErrInvalidMapping)
	})

	t.Run("proxy of proxy forwards the original", func(t *testing.T) {
		p1, err := NewProxy(orig, map[AnonymousID]Mapping{IDOf(cty.Number): src})
		require.NoError(t, err)
		p2, err := NewProxy(p1, map[AnonymousID]Mapping{IDOf(cty.Number): src})
		require.NoError(t, err)
		assert.Same(t, orig, p2.Original())
	})
}

func TestHasAnonymousSlot(t *testing.T) {
	tr, err := NewTransform("t", cty.Number, label("x"), Slot{ID: "n", Upstream: AnonymousOf(cty.Number)})
	require.NoError(t, err)

	assert.True(t, HasAnonymousSlot(tr, IDOf(cty.Number)))
	assert.False(t, HasAnonymousSlot(tr, IDOf(cty.String)))
	assert.Equal(t, "transform.t", Describe(tr))
}

func TestNewComponent(t *testing.T) {
	src, err := SourceOf("numbers", []int{1})
	require.NoError(t, err)

	c, err := NewComponent("group", src)
	require.NoError(t, err)
	assert.Equal(t, "group", c.Name)
	assert.Len(t, c.Members, 1)

	_, err = NewComponent("", src)
	require.ErrorIs(t, err, ErrInvalidMapping)
	_, err = NewComponent("group", nil)
	require.ErrorIs(t, err, ErrInvalidMapping)
}
