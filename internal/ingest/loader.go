// Package ingest loads schema documents into the api model.
package ingest

import (
	"fmt"
	"os"

	"github.com/ohler55/ojg/oj"

	"github.com/agentic-research/shapetrace/api"
)

// LoadSchema reads, parses and validates a JSON schema document.
func LoadSchema(path string) (*api.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	schema, err := ParseSchema(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := schema.Validate(); err != nil {
		return nil, fmt.Errorf("validate %s: %w", path, err)
	}
	return schema, nil
}

// ParseSchema parses a JSON schema document without validating it.
func ParseSchema(data []byte) (*api.Schema, error) {
	parsed, err := oj.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	doc, ok := parsed.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("document is not an object")
	}

	schema := &api.Schema{
		Version: stringField(doc, "version"),
		Root:    stringField(doc, "root"),
		Types:   make(map[string]*api.TypeDef),
	}

	rawTypes, ok := doc["types"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf(`document has no "types" object`)
	}
	for name, raw := range rawTypes {
		obj, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("type %q: definition is not an object", name)
		}
		def, err := parseTypeDef(obj)
		if err != nil {
			return nil, fmt.Errorf("type %q: %w", name, err)
		}
		schema.Types[name] = def
	}
	return schema, nil
}

func parseTypeDef(obj map[string]any) (*api.TypeDef, error) {
	def := &api.TypeDef{}
	for key, raw := range obj {
		switch key {
		case "enum":
			enum, err := parseEnum(raw)
			if err != nil {
				return nil, err
			}
			def.Enum = enum
		case "struct":
			st, err := parseStruct(raw)
			if err != nil {
				return nil, err
			}
			def.Struct = st
		case "seq":
			def.Seq = asString(raw)
		case "option":
			def.Option = asString(raw)
		case "tuple":
			list, ok := raw.([]any)
			if !ok {
				return nil, fmt.Errorf("tuple must be a list of type names")
			}
			for _, el := range list {
				def.Tuple = append(def.Tuple, asString(el))
			}
		case "alias":
			def.Alias = asString(raw)
		default:
			return nil, fmt.Errorf("unknown definition form %q", key)
		}
	}
	return def, nil
}

func parseEnum(raw any) (*api.EnumDef, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("enum must be an object")
	}
	list, ok := obj["variants"].([]any)
	if !ok {
		return nil, fmt.Errorf(`enum has no "variants" list`)
	}
	enum := &api.EnumDef{}
	for i, el := range list {
		vobj, ok := el.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("variant %d is not an object", i)
		}
		enum.Variants = append(enum.Variants, api.VariantDef{
			Name: stringField(vobj, "name"),
			Type: stringField(vobj, "type"),
		})
	}
	return enum, nil
}

func parseStruct(raw any) (*api.StructDef, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("struct must be an object")
	}
	list, ok := obj["fields"].([]any)
	if !ok {
		return nil, fmt.Errorf(`struct has no "fields" list`)
	}
	st := &api.StructDef{}
	for i, el := range list {
		fobj, ok := el.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("field %d is not an object", i)
		}
		st.Fields = append(st.Fields, api.FieldDef{
			Name: stringField(fobj, "name"),
			Type: stringField(fobj, "type"),
		})
	}
	return st, nil
}

func stringField(obj map[string]any, key string) string {
	return asString(obj[key])
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}
