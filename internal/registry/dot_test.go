package registry

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestExportDOT(t *testing.T) {
	src := newSource(t, "numbers", cty.Number)
	tenfold := newTransform(t, "tenfold", cty.String, slot("n", src))
	labels := newTransform(t, "labels", cty.String, anon("v", cty.Number))
	pending := newTransform(t, "pending", cty.String, anon("b", cty.Bool))

	c := mustAdd(t, New(), src, tenfold, labels, pending)

	var buf bytes.Buffer
	require.NoError(t, c.ExportDOT(&buf))
	out := buf.String()

	assert.Contains(t, out, "digraph plan {")
	assert.Contains(t, out, `"source.numbers" -> "transform.tenfold";`)
	assert.Contains(t, out, `"source.numbers" -> "transform.labels";`)
	assert.Contains(t, out, `"transform.pending"`)
	assert.Contains(t, out, "dashed")
}
