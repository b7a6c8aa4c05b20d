package config

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	"github.com/zclconf/go-cty/cty/gocty"
)

type hclFile struct {
	Entry      string    `hcl:"entry,optional"`
	Paths      cty.Value `hcl:"paths,optional"`
	Locals     cty.Value `hcl:"locals,optional"`
	Globals    cty.Value `hcl:"globals,optional"`
	Stats      string    `hcl:"stats,optional"`
	OutputDir  string    `hcl:"output_dir,optional"`
	PublicPath *string   `hcl:"public_path,optional"`
}

// DecodeHCL decodes a prerender.hcl file. Expressions can read environment
// variables through env and call a few string functions.
func DecodeHCL(filename string, src []byte, env map[string]string) (*File, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	var parsed hclFile
	diags = gohcl.DecodeBody(file.Body, evalContext(env), &parsed)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	out := &File{
		Entry:      parsed.Entry,
		Stats:      parsed.Stats,
		OutputDir:  parsed.OutputDir,
		PublicPath: parsed.PublicPath,
	}

	paths, err := ctyToNative(parsed.Paths)
	if err != nil {
		return nil, fmt.Errorf("%s: paths: %w", filename, err)
	}
	if out.Paths, err = pathList(paths); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	if out.Locals, err = objectAttr(parsed.Locals); err != nil {
		return nil, fmt.Errorf("%s: locals: %w", filename, err)
	}
	if out.Globals, err = objectAttr(parsed.Globals); err != nil {
		return nil, fmt.Errorf("%s: globals: %w", filename, err)
	}

	return out, nil
}

func evalContext(env map[string]string) *hcl.EvalContext {
	envVal := cty.MapValEmpty(cty.String)
	if len(env) > 0 {
		vals := make(map[string]cty.Value, len(env))
		for k, v := range env {
			vals[k] = cty.StringVal(v)
		}
		envVal = cty.MapVal(vals)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": envVal,
		},
		Functions: map[string]function.Function{
			"upper":     stdlib.UpperFunc,
			"lower":     stdlib.LowerFunc,
			"join":      stdlib.JoinFunc,
			"format":    stdlib.FormatFunc,
			"concat":    stdlib.ConcatFunc,
			"trimspace": stdlib.TrimSpaceFunc,
		},
	}
}

func objectAttr(v cty.Value) (map[string]any, error) {
	native, err := ctyToNative(v)
	if err != nil {
		return nil, err
	}
	if native == nil {
		return nil, nil
	}
	m, ok := native.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected an object, got %s", v.Type().FriendlyName())
	}
	return m, nil
}

// ctyToNative converts a cty value into plain Go values: strings, float64,
// bools, []any and map[string]any.
func ctyToNative(v cty.Value) (any, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, nil
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil

	case ty == cty.Number:
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, fmt.Errorf("could not convert number: %w", err)
		}
		return f, nil

	case ty == cty.Bool:
		return v.True(), nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		slice := make([]any, 0, v.LengthInt())
		it := v.ElementIterator()
		for it.Next() {
			_, elem := it.Element()
			native, err := ctyToNative(elem)
			if err != nil {
				return nil, err
			}
			slice = append(slice, native)
		}
		return slice, nil

	case ty.IsObjectType() || ty.IsMapType():
		m := make(map[string]any, v.LengthInt())
		it := v.ElementIterator()
		for it.Next() {
			key, elem := it.Element()
			native, err := ctyToNative(elem)
			if err != nil {
				return nil, fmt.Errorf("in attribute %q: %w", key.AsString(), err)
			}
			m[key.AsString()] = native
		}
		return m, nil

	default:
		return nil, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
	}
}

// EnvMap turns KEY=VALUE pairs, as returned by os.Environ, into a map.
func EnvMap(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		env[k] = v
	}
	return env
}
