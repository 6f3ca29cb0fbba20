package api

// Registry is the traced output: for every named type reached from the
// root, the concrete format discovered while constructing sample values.
// Enum containers fill in one variant per occurrence per pass, so a
// registry is only exhaustive once the driving tracker reports coverage
// complete.
type Registry struct {
	Version    string                `json:"version" yaml:"version"`
	Root       string                `json:"root" yaml:"root"`
	Containers map[string]*Container `json:"containers" yaml:"containers"`
}

// NewRegistry returns an empty registry for the given schema root.
func NewRegistry(version, root string) *Registry {
	return &Registry{
		Version:    version,
		Root:       root,
		Containers: make(map[string]*Container),
	}
}

// Container is the discovered format of one named type.
type Container struct {
	Kind string `json:"kind" yaml:"kind"`
	// Variants is set for enums: variant index -> realized variant format.
	Variants map[int]*Variant `json:"variants,omitempty" yaml:"variants,omitempty"`
	// Fields is set for structs.
	Fields []*NamedFormat `json:"fields,omitempty" yaml:"fields,omitempty"`
	// Inner is set for seq, option and alias containers.
	Inner *Format `json:"inner,omitempty" yaml:"inner,omitempty"`
	// Elements is set for tuples.
	Elements []*Format `json:"elements,omitempty" yaml:"elements,omitempty"`
}

// Variant is one realized enum variant. Payload is nil for unit variants.
type Variant struct {
	Name    string  `json:"name" yaml:"name"`
	Payload *Format `json:"payload,omitempty" yaml:"payload,omitempty"`
}

// NamedFormat is a field name paired with its format.
type NamedFormat struct {
	Name   string  `json:"name" yaml:"name"`
	Format *Format `json:"format" yaml:"format"`
}

// Format is a type reference: either a primitive or the name of another
// container in the registry.
type Format struct {
	Primitive string `json:"primitive,omitempty" yaml:"primitive,omitempty"`
	TypeName  string `json:"type_name,omitempty" yaml:"type_name,omitempty"`
}

// FormatFor returns the Format for a schema type reference.
func FormatFor(ref string) *Format {
	if IsPrimitive(ref) {
		return &Format{Primitive: ref}
	}
	return &Format{TypeName: ref}
}

// Container returns the container for name, creating it with the given
// kind on first use.
func (r *Registry) Container(name, kind string) *Container {
	c, ok := r.Containers[name]
	if !ok {
		c = &Container{Kind: kind}
		if kind == "enum" {
			c.Variants = make(map[int]*Variant)
		}
		r.Containers[name] = c
	}
	return c
}
