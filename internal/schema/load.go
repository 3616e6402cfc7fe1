package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/auxdata/internal/ir"
)

// Declaration is one entry of an extension catalogue file.
//
//	schemas:
//	  - name: functionNames
//	    type: mapping<UUID,string>
type Declaration struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// catalogueFile is the top-level layout shared by YAML and CUE catalogues.
type catalogueFile struct {
	Schemas []Declaration `yaml:"schemas"`
}

// ParseDeclarations resolves type names into schemas.
func ParseDeclarations(decls []Declaration) ([]Schema, error) {
	out := make([]Schema, 0, len(decls))
	for i, d := range decls {
		if d.Name == "" {
			return nil, fmt.Errorf("%w: declaration %d has no name", ErrInvalidSchema, i)
		}
		shape, err := ir.ParseShape(d.Type)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidSchema, d.Name, err)
		}
		out = append(out, Schema{Name: d.Name, Shape: shape})
	}
	return out, nil
}

// LoadYAML reads an extension catalogue in YAML form.
// Unknown fields are rejected so that typos do not silently drop schemas.
func LoadYAML(r io.Reader) ([]Schema, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file catalogueFile
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("parse YAML catalogue: %w", err)
	}
	return ParseDeclarations(file.Schemas)
}

// LoadCUE reads an extension catalogue in CUE form. The source must
// evaluate to a concrete value with a "schemas" list of {name, type}.
func LoadCUE(filename string, src []byte) ([]Schema, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compile CUE catalogue: %w", err)
	}

	list := v.LookupPath(cue.ParsePath("schemas"))
	if !list.Exists() {
		return nil, nil
	}
	if err := list.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("CUE catalogue: %w", err)
	}

	iter, err := list.List()
	if err != nil {
		return nil, fmt.Errorf("CUE catalogue: schemas: %w", err)
	}

	var decls []Declaration
	for iter.Next() {
		item := iter.Value()
		name, err := item.LookupPath(cue.ParsePath("name")).String()
		if err != nil {
			return nil, fmt.Errorf("CUE catalogue: schemas[%d].name: %w", len(decls), err)
		}
		typ, err := item.LookupPath(cue.ParsePath("type")).String()
		if err != nil {
			return nil, fmt.Errorf("CUE catalogue: schemas[%d].type: %w", len(decls), err)
		}
		decls = append(decls, Declaration{Name: name, Type: typ})
	}
	return ParseDeclarations(decls)
}

// LoadFile reads a catalogue from disk, choosing the format by extension
// (.cue for CUE, anything else as YAML), and registers every schema.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read catalogue: %w", err)
	}

	var schemas []Schema
	if filepath.Ext(path) == ".cue" {
		schemas, err = LoadCUE(path, data)
	} else {
		schemas, err = LoadYAML(bytes.NewReader(data))
	}
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := r.RegisterAll(schemas); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
