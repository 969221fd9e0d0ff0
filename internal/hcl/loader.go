package hcl

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/streamgridgo/internal/config"
	"github.com/specialistvlad/streamgridgo/internal/ctxlog"
	"github.com/specialistvlad/streamgridgo/internal/fsutil"
	"github.com/specialistvlad/streamgridgo/internal/mapping"
)

// ErrNoFiles is returned when none of the given paths contains an .hcl file.
var ErrNoFiles = errors.New("hcl: no .hcl files found")

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL pipeline loader.
func NewLoader() *Loader {
	return &Loader{}
}

var _ config.Loader = (*Loader)(nil)

// Load parses every .hcl file under paths and translates the blocks into
// mappings. References between blocks may cross files.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.CollectFiles(".hcl", paths...)
	if err != nil {
		return nil, fmt.Errorf("failed to collect HCL files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoFiles, strings.Join(paths, ", "))
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	defs := newDefinitions()

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		if err := defs.collect(&root, hclFile.Bytes); err != nil {
			return nil, err
		}
	}

	model, err := defs.build()
	if err != nil {
		return nil, err
	}

	logger.Debug("HCL loading complete.", "mappings", len(model.Mappings), "components", len(model.Components))
	return model, nil
}

// definition is one source or transform block awaiting translation.
type definition struct {
	key       string
	component string
	source    *sourceBlock
	transform *transformBlock
	src       []byte
}

func (d *definition) declRange() hcl.Range {
	if d.source != nil {
		return d.source.DeclRange
	}
	return d.transform.DeclRange
}

type componentDef struct {
	name string
	keys []string
}

// definitions indexes every block of every file so references can be
// resolved regardless of declaration order.
type definitions struct {
	order      []*definition
	byKey      map[string]*definition
	components []*componentDef
	seenComp   map[string]hcl.Range

	built    map[string]mapping.Mapping
	visiting map[string]bool
}

func newDefinitions() *definitions {
	return &definitions{
		byKey:    make(map[string]*definition),
		seenComp: make(map[string]hcl.Range),
		built:    make(map[string]mapping.Mapping),
		visiting: make(map[string]bool),
	}
}

func (ds *definitions) collect(root *fileRoot, src []byte) error {
	for _, s := range root.Sources {
		if err := ds.addDefinition(&definition{key: "source." + s.Name, source: s, src: src}); err != nil {
			return err
		}
	}
	for _, t := range root.Transforms {
		if err := ds.addDefinition(&definition{key: "transform." + t.Name, transform: t, src: src}); err != nil {
			return err
		}
	}

	for _, c := range root.Components {
		if prev, dup := ds.seenComp[c.Name]; dup {
			return fmt.Errorf("%s: component %q is already declared at %s", c.DeclRange, c.Name, prev)
		}
		ds.seenComp[c.Name] = c.DeclRange

		comp := &componentDef{name: c.Name}
		for _, s := range c.Sources {
			d := &definition{key: "source." + s.Name, component: c.Name, source: s, src: src}
			if err := ds.addDefinition(d); err != nil {
				return err
			}
			comp.keys = append(comp.keys, d.key)
		}
		for _, t := range c.Transforms {
			d := &definition{key: "transform." + t.Name, component: c.Name, transform: t, src: src}
			if err := ds.addDefinition(d); err != nil {
				return err
			}
			comp.keys = append(comp.keys, d.key)
		}
		ds.components = append(ds.components, comp)
	}
	return nil
}

func (ds *definitions) addDefinition(d *definition) error {
	if prev, dup := ds.byKey[d.key]; dup {
		return fmt.Errorf("%s: %s is already declared at %s", d.declRange(), d.key, prev.declRange())
	}
	ds.byKey[d.key] = d
	ds.order = append(ds.order, d)
	return nil
}

// build translates every definition, following references depth first.
func (ds *definitions) build() (*config.Model, error) {
	for _, d := range ds.order {
		if _, err := ds.mappingFor(d.key, nil); err != nil {
			return nil, err
		}
	}

	model := &config.Model{}
	for _, d := range ds.order {
		if d.component == "" {
			model.Mappings = append(model.Mappings, ds.built[d.key])
		}
	}
	for _, c := range ds.components {
		members := make([]mapping.Mapping, 0, len(c.keys))
		for _, k := range c.keys {
			members = append(members, ds.built[k])
		}
		comp, err := mapping.NewComponent(c.name, members...)
		if err != nil {
			return nil, err
		}
		model.Components = append(model.Components, comp)
	}
	return model, nil
}

func (ds *definitions) mappingFor(key string, trail []string) (mapping.Mapping, error) {
	if m, ok := ds.built[key]; ok {
		return m, nil
	}
	d, ok := ds.byKey[key]
	if !ok {
		return nil, fmt.Errorf("reference to undeclared %s", key)
	}
	trail = append(trail, key)
	if ds.visiting[key] {
		return nil, fmt.Errorf("%s: reference cycle: %s", d.declRange(), strings.Join(trail, " -> "))
	}
	ds.visiting[key] = true
	defer delete(ds.visiting, key)

	var (
		m   mapping.Mapping
		err error
	)
	if d.source != nil {
		m, err = buildSource(d.source)
	} else {
		m, err = ds.buildTransform(d, trail)
	}
	if err != nil {
		return nil, err
	}
	ds.built[key] = m
	return m, nil
}
