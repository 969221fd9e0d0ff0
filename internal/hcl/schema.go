package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot is used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Sources    []*sourceBlock    `hcl:"source,block"`
	Transforms []*transformBlock `hcl:"transform,block"`
	Components []*componentBlock `hcl:"component,block"`
	Remain     hcl.Body          `hcl:",remain"`
}

type sourceBlock struct {
	Name      string         `hcl:"name,label"`
	Type      hcl.Expression `hcl:"type"`
	Values    hcl.Expression `hcl:"values"`
	DeclRange hcl.Range      `hcl:",def_range"`
}

type transformBlock struct {
	Name      string         `hcl:"name,label"`
	Type      hcl.Expression `hcl:"type"`
	Inputs    []*inputBlock  `hcl:"input,block"`
	Map       hcl.Expression `hcl:"map"`
	Filter    hcl.Expression `hcl:"filter,optional"`
	DeclRange hcl.Range      `hcl:",def_range"`
}

// inputBlock sets exactly one of From (a reference) or Type (anonymous).
type inputBlock struct {
	Name      string         `hcl:"name,label"`
	From      hcl.Expression `hcl:"from,optional"`
	Type      hcl.Expression `hcl:"type,optional"`
	DeclRange hcl.Range      `hcl:",def_range"`
}

type componentBlock struct {
	Name       string            `hcl:"name,label"`
	Sources    []*sourceBlock    `hcl:"source,block"`
	Transforms []*transformBlock `hcl:"transform,block"`
	DeclRange  hcl.Range         `hcl:",def_range"`
}
