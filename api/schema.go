// Package api holds the public document models: the input Schema describing
// named data types, and the output Registry of formats discovered by tracing
// sample values of those types.
package api

import (
	"fmt"
	"sort"
)

// Schema is the root of a type definition document.
type Schema struct {
	// Version of the shapetrace schema document.
	Version string `json:"version" yaml:"version"`
	// Root is the name of the type sampling starts from.
	Root string `json:"root" yaml:"root"`
	// Types maps type names to their definitions.
	Types map[string]*TypeDef `json:"types" yaml:"types"`
}

// TypeDef defines one named type. Exactly one field is set.
type TypeDef struct {
	// Enum is a sum type: a closed set of named variants.
	Enum *EnumDef `json:"enum,omitempty" yaml:"enum,omitempty"`
	// Struct is a product type with named fields.
	Struct *StructDef `json:"struct,omitempty" yaml:"struct,omitempty"`
	// Seq is a homogeneous sequence; the value is the element type.
	Seq string `json:"seq,omitempty" yaml:"seq,omitempty"`
	// Option is an optional value; the value is the inner type.
	Option string `json:"option,omitempty" yaml:"option,omitempty"`
	// Tuple is a fixed-length heterogeneous sequence of element types.
	Tuple []string `json:"tuple,omitempty" yaml:"tuple,omitempty"`
	// Alias names another type or primitive.
	Alias string `json:"alias,omitempty" yaml:"alias,omitempty"`
}

// EnumDef is an ordered list of variants. Variant indices are positions in
// this list and are part of the type's identity: they must not change
// between sampling passes.
type EnumDef struct {
	Variants []VariantDef `json:"variants" yaml:"variants"`
}

// VariantDef is one enum variant. An empty Type means a unit variant.
type VariantDef struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
}

// StructDef is an ordered list of named fields.
type StructDef struct {
	Fields []FieldDef `json:"fields" yaml:"fields"`
}

// FieldDef is one struct field.
type FieldDef struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

// Kind returns which definition form is set, or "" for an empty def.
func (d *TypeDef) Kind() string {
	switch {
	case d.Enum != nil:
		return "enum"
	case d.Struct != nil:
		return "struct"
	case d.Seq != "":
		return "seq"
	case d.Option != "":
		return "option"
	case len(d.Tuple) > 0:
		return "tuple"
	case d.Alias != "":
		return "alias"
	}
	return ""
}

var primitives = map[string]bool{
	"unit": true, "bool": true,
	"u8": true, "u16": true, "u32": true, "u64": true,
	"i8": true, "i16": true, "i32": true, "i64": true,
	"f32": true, "f64": true,
	"str": true, "bytes": true,
}

// IsPrimitive reports whether name is a built-in scalar type.
func IsPrimitive(name string) bool { return primitives[name] }

// TypeNames returns the schema's type names, sorted.
func (s *Schema) TypeNames() []string {
	names := make([]string, 0, len(s.Types))
	for name := range s.Types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks that the schema is self-consistent: the root resolves,
// every type reference resolves to a primitive or a defined type, every
// definition has exactly one form, enums are non-empty, and variant and
// field names are unique within their container.
func (s *Schema) Validate() error {
	if s.Root == "" {
		return fmt.Errorf("schema has no root type")
	}
	if err := s.checkRef(s.Root); err != nil {
		return fmt.Errorf("root: %w", err)
	}
	for _, name := range s.TypeNames() {
		if IsPrimitive(name) {
			return fmt.Errorf("type %q shadows a primitive", name)
		}
		if err := s.validateType(name, s.Types[name]); err != nil {
			return fmt.Errorf("type %q: %w", name, err)
		}
	}
	return nil
}

func (s *Schema) validateType(name string, d *TypeDef) error {
	forms := 0
	for _, set := range []bool{
		d.Enum != nil, d.Struct != nil, d.Seq != "", d.Option != "", len(d.Tuple) > 0, d.Alias != "",
	} {
		if set {
			forms++
		}
	}
	if forms != 1 {
		return fmt.Errorf("definition must have exactly one form, has %d", forms)
	}

	switch d.Kind() {
	case "enum":
		if len(d.Enum.Variants) == 0 {
			return fmt.Errorf("enum has no variants")
		}
		seen := make(map[string]bool)
		for i, v := range d.Enum.Variants {
			if v.Name == "" {
				return fmt.Errorf("variant %d has no name", i)
			}
			if seen[v.Name] {
				return fmt.Errorf("duplicate variant %q", v.Name)
			}
			seen[v.Name] = true
			if v.Type != "" {
				if err := s.checkRef(v.Type); err != nil {
					return fmt.Errorf("variant %q: %w", v.Name, err)
				}
			}
		}
	case "struct":
		seen := make(map[string]bool)
		for i, f := range d.Struct.Fields {
			if f.Name == "" {
				return fmt.Errorf("field %d has no name", i)
			}
			if seen[f.Name] {
				return fmt.Errorf("duplicate field %q", f.Name)
			}
			seen[f.Name] = true
			if err := s.checkRef(f.Type); err != nil {
				return fmt.Errorf("field %q: %w", f.Name, err)
			}
		}
	case "seq":
		return wrapRef(s.checkRef(d.Seq), "element")
	case "option":
		return wrapRef(s.checkRef(d.Option), "inner")
	case "tuple":
		for i, el := range d.Tuple {
			if err := s.checkRef(el); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
		}
	case "alias":
		return wrapRef(s.checkRef(d.Alias), "target")
	}
	return nil
}

func (s *Schema) checkRef(ref string) error {
	if ref == "" {
		return fmt.Errorf("empty type reference")
	}
	if IsPrimitive(ref) {
		return nil
	}
	if _, ok := s.Types[ref]; !ok {
		return fmt.Errorf("unknown type %q", ref)
	}
	return nil
}

func wrapRef(err error, what string) error {
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	return nil
}
