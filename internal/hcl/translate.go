package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/ext/typeexpr"
	"github.com/specialistvlad/streamgridgo/internal/mapping"
	"github.com/zclconf/go-cty/cty"
)

// buildSource evaluates the values list of a source block.
func buildSource(b *sourceBlock) (*mapping.Source, error) {
	ty, err := parseType(b.Type)
	if err != nil {
		return nil, fmt.Errorf("%s: source %q: %w", b.DeclRange, b.Name, err)
	}

	v, diags := b.Values.Value(&hcl.EvalContext{Functions: Functions()})
	if diags.HasErrors() {
		return nil, fmt.Errorf("%s: source %q values: %w", b.DeclRange, b.Name, diags)
	}
	if v.IsNull() || !v.IsWhollyKnown() {
		return nil, fmt.Errorf("%s: source %q values must be a known list", b.DeclRange, b.Name)
	}
	vt := v.Type()
	if !vt.IsListType() && !vt.IsTupleType() && !vt.IsSetType() {
		return nil, fmt.Errorf("%s: source %q values must be a list, got %s", b.DeclRange, b.Name, vt.FriendlyName())
	}

	values := make([]cty.Value, 0, v.LengthInt())
	for it := v.ElementIterator(); it.Next(); {
		_, ev := it.Element()
		values = append(values, ev)
	}

	src, err := mapping.NewSource(b.Name, ty, values...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.DeclRange, err)
	}
	return src, nil
}

// buildTransform binds each input either to the block it references or to
// an anonymous placeholder of its declared type.
func (ds *definitions) buildTransform(d *definition, trail []string) (*mapping.Transform, error) {
	b := d.transform
	ty, err := parseType(b.Type)
	if err != nil {
		return nil, fmt.Errorf("%s: transform %q: %w", b.DeclRange, b.Name, err)
	}

	slots := make([]mapping.Slot, 0, len(b.Inputs))
	for _, in := range b.Inputs {
		hasFrom, hasType := isSet(in.From), isSet(in.Type)
		switch {
		case hasFrom == hasType:
			return nil, fmt.Errorf("%s: input %q of transform %q must set exactly one of \"from\" or \"type\"", in.DeclRange, in.Name, b.Name)

		case hasFrom:
			ref, err := referenceKey(in.From)
			if err != nil {
				return nil, fmt.Errorf("%s: input %q of transform %q: %w", in.DeclRange, in.Name, b.Name, err)
			}
			upstream, err := ds.mappingFor(ref, trail)
			if err != nil {
				return nil, fmt.Errorf("%s: input %q of transform %q: %w", in.DeclRange, in.Name, b.Name, err)
			}
			slots = append(slots, mapping.Slot{ID: in.Name, Upstream: upstream})

		default:
			inTy, err := parseType(in.Type)
			if err != nil {
				return nil, fmt.Errorf("%s: input %q of transform %q: %w", in.DeclRange, in.Name, b.Name, err)
			}
			slots = append(slots, mapping.Slot{ID: in.Name, Upstream: mapping.AnonymousOf(inTy)})
		}
	}

	body := &Expression{Map: b.Map, text: exprText(b.Map, d.src)}
	if isSet(b.Filter) {
		body.Filter = b.Filter
		body.text += " if " + exprText(b.Filter, d.src)
	}

	tr, err := mapping.NewTransform(b.Name, ty, body, slots...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.DeclRange, err)
	}
	return tr, nil
}

// parseType converts an HCL type expression such as `number` or
// `list(string)` into a concrete cty.Type.
func parseType(expr hcl.Expression) (cty.Type, error) {
	ty, diags := typeexpr.TypeConstraint(expr)
	if diags.HasErrors() {
		return cty.NilType, diags
	}
	if ty.HasDynamicTypes() {
		return cty.NilType, fmt.Errorf("element type %s must not contain 'any'", ty.FriendlyNameForConstraint())
	}
	return ty, nil
}

// referenceKey turns `source.name` or `transform.name` into a definition
// key.
func referenceKey(expr hcl.Expression) (string, error) {
	traversal, diags := hcl.AbsTraversalForExpr(expr)
	if diags.HasErrors() || len(traversal) != 2 {
		return "", fmt.Errorf("\"from\" must be a reference like source.<name> or transform.<name>")
	}
	root := traversal.RootName()
	if root != "source" && root != "transform" {
		return "", fmt.Errorf("\"from\" must reference a source or a transform, not %q", root)
	}
	attr, ok := traversal[1].(hcl.TraverseAttr)
	if !ok {
		return "", fmt.Errorf("\"from\" must name a block, like %s.<name>", root)
	}
	return root + "." + attr.Name, nil
}
