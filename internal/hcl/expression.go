package hcl

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
)

// Expression is the transformation body of a transform block. Filter is nil
// when every element passes.
type Expression struct {
	Map    hcl.Expression
	Filter hcl.Expression
	text   string
}

// ParseExpression parses a map expression and an optional filter expression
// from source text. An empty filter means no filter.
func ParseExpression(mapSrc, filterSrc string) (*Expression, error) {
	mapExpr, diags := hclsyntax.ParseExpression([]byte(mapSrc), "map", hcl.InitialPos)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse map expression: %w", diags)
	}
	e := &Expression{Map: mapExpr, text: mapSrc}

	if strings.TrimSpace(filterSrc) != "" {
		filterExpr, diags := hclsyntax.ParseExpression([]byte(filterSrc), "filter", hcl.InitialPos)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse filter expression: %w", diags)
		}
		e.Filter = filterExpr
		e.text += " if " + filterSrc
	}
	return e, nil
}

func (e *Expression) String() string { return e.text }

// isSet reports whether an optional attribute was written. gohcl fills
// absent optional expressions with a static null.
func isSet(expr hcl.Expression) bool {
	if expr == nil {
		return false
	}
	if len(expr.Variables()) > 0 {
		return true
	}
	v, diags := expr.Value(nil)
	return diags.HasErrors() || !v.IsNull()
}

// exprText returns the source text of expr.
func exprText(expr hcl.Expression, src []byte) string {
	rng := expr.Range()
	if rng.End.Byte > len(src) || rng.Start.Byte > rng.End.Byte {
		return rng.String()
	}
	return string(rng.SliceBytes(src))
}
