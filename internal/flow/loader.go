package flow

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/framekeeper/internal/ctxlog"
	"github.com/specialistvlad/framekeeper/internal/fsutil"
	"github.com/zclconf/go-cty/cty"
)

// ErrNoFlow is returned when the given paths hold no task definitions.
var ErrNoFlow = errors.New("no task definitions found")

// Definition is one parsed task block.
type Definition struct {
	Name     string
	Handler  string
	Values   map[string]cty.Value
	Children []*Definition
	Refs     []string
	File     string
}

// fileRoot decodes the top level of a flow file.
type fileRoot struct {
	Tasks  []*taskBlock `hcl:"task,block"`
	Remain hcl.Body     `hcl:",remain"`
}

type taskBlock struct {
	Name    string       `hcl:"name,label"`
	Handler string       `hcl:"handler"`
	Values  cty.Value    `hcl:"values,optional"`
	Ref     []string     `hcl:"ref,optional"`
	Tasks   []*taskBlock `hcl:"task,block"`
}

// Load parses every .hcl file found under paths and returns the top-level
// task definitions in file order.
func Load(ctx context.Context, paths ...string) ([]*Definition, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Flow loader started.", "path_count", len(paths))

	files, err := fsutil.FindFilesByExtension(".hcl", paths...)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered flow files.", "count", len(files))

	parser := hclparse.NewParser()
	var defs []*Definition
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, block := range root.Tasks {
			def, err := translate(block, file)
			if err != nil {
				return nil, err
			}
			defs = append(defs, def)
		}
	}

	if len(defs) == 0 {
		return nil, fmt.Errorf("%v: %w", paths, ErrNoFlow)
	}
	logger.Debug("Flow loading complete.", "definitions", len(defs))
	return defs, nil
}

func translate(b *taskBlock, file string) (*Definition, error) {
	if b.Handler == "" {
		return nil, fmt.Errorf("%s: task %q: handler must not be empty", file, b.Name)
	}
	values, err := valueMap(b.Values)
	if err != nil {
		return nil, fmt.Errorf("%s: task %q: %w", file, b.Name, err)
	}

	def := &Definition{
		Name:    b.Name,
		Handler: b.Handler,
		Values:  values,
		Refs:    b.Ref,
		File:    file,
	}
	for _, child := range b.Tasks {
		c, err := translate(child, file)
		if err != nil {
			return nil, err
		}
		def.Children = append(def.Children, c)
	}
	return def, nil
}

// valueMap flattens the values attribute, which must be an object or a map.
func valueMap(v cty.Value) (map[string]cty.Value, error) {
	if v == cty.NilVal || v.IsNull() {
		return nil, nil
	}
	ty := v.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return nil, fmt.Errorf("values must be an object, got %s", ty.FriendlyName())
	}
	if !v.IsWhollyKnown() {
		return nil, fmt.Errorf("values must be known at load time")
	}
	return v.AsValueMap(), nil
}

// Find returns the definition named name, or the first definition when name
// is empty.
func Find(defs []*Definition, name string) (*Definition, error) {
	if len(defs) == 0 {
		return nil, ErrNoFlow
	}
	if name == "" {
		return defs[0], nil
	}
	for _, d := range defs {
		if d.Name == name {
			return d, nil
		}
	}
	return nil, fmt.Errorf("entry task %q: %w", name, ErrNoFlow)
}
