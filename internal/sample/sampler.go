// Package sample constructs placeholder values of a schema's root type,
// pass after pass, until every enum variant reachable from the root has
// been realized. It is the driving side of the coverage tracker contract:
// one Open/NextVariantIndex/Close triple per enum occurrence, whole passes
// repeated until AllComplete.
package sample

import (
	"fmt"

	"github.com/agentic-research/shapetrace/api"
	"github.com/agentic-research/shapetrace/internal/coverage"
)

// DefaultMaxPasses is the safety cap on sampling passes. Coverage of a
// well-formed schema converges in a handful of passes; hitting the cap
// means the schema (or the tracker) cannot make progress.
const DefaultMaxPasses = 10000

// Sampler drives one discovery run over one schema.
type Sampler struct {
	// MaxPasses overrides DefaultMaxPasses when positive.
	MaxPasses int

	schema   *api.Schema
	tracker  *coverage.Tracker
	registry *api.Registry
	report   *coverage.Report
	path     map[string]int // named types on the current construction path
}

// Result is the outcome of a completed discovery run.
type Result struct {
	Registry *api.Registry
	Report   *coverage.Report
	Passes   int
	Sample   any // the sample value built by the final pass
}

// New returns a Sampler for a validated schema.
func New(schema *api.Schema) *Sampler {
	return &Sampler{
		schema:   schema,
		tracker:  coverage.NewTracker(),
		registry: api.NewRegistry(schema.Version, schema.Root),
		report:   coverage.NewReport(),
		path:     make(map[string]int),
	}
}

// Trace runs sampling passes until the tracker reports full coverage and
// returns the discovered registry and coverage report.
func (s *Sampler) Trace() (*Result, error) {
	maxPasses := s.MaxPasses
	if maxPasses <= 0 {
		maxPasses = DefaultMaxPasses
	}

	for pass := 1; pass <= maxPasses; pass++ {
		value, err := s.sampleRef(s.schema.Root)
		if err != nil {
			return nil, fmt.Errorf("pass %d: %w", pass, err)
		}
		if s.tracker.Depth() != 0 {
			panic(fmt.Sprintf("sample: %d unclosed occurrences after a pass", s.tracker.Depth()))
		}
		if s.tracker.AllComplete() && s.tracker.Exhausted() {
			s.recordRecursiveCuts()
			return &Result{
				Registry: s.registry,
				Report:   s.report,
				Passes:   pass,
				Sample:   value,
			}, nil
		}
	}
	return nil, fmt.Errorf("coverage did not converge after %d passes", maxPasses)
}

// Tracker exposes the underlying tracker for inspection in tests.
func (s *Sampler) Tracker() *coverage.Tracker { return s.tracker }

// recordRecursiveCuts copies the tracker's recursive-variant bookkeeping
// into the report once tracing is done.
func (s *Sampler) recordRecursiveCuts() {
	for _, n := range s.tracker.Nodes() {
		for _, idx := range n.RecursiveVariants() {
			s.report.RecordCut(n.Name(), n.MaxIndex()+1, idx)
		}
	}
}

// sampleRef builds a placeholder value for a type reference, recording the
// discovered format in the registry as a side effect.
func (s *Sampler) sampleRef(ref string) (any, error) {
	if api.IsPrimitive(ref) {
		return primitiveValue(ref), nil
	}
	def, ok := s.schema.Types[ref]
	if !ok {
		return nil, fmt.Errorf("unknown type %q", ref)
	}

	// Cycle cuts keep construction depth bounded. An enum may be
	// re-entered once so the tracker's recursion guard can observe the
	// re-entry and mark the variant; any other named type on the path is
	// cut immediately, since repeating it can discover nothing new.
	limit := 1
	if def.Kind() == "enum" {
		limit = 2
	}
	if s.path[ref] >= limit {
		return nil, nil
	}
	s.path[ref]++
	defer func() { s.path[ref]-- }()

	switch def.Kind() {
	case "enum":
		return s.sampleEnum(ref, def.Enum)
	case "struct":
		return s.sampleStruct(ref, def.Struct)
	case "seq":
		s.registry.Container(ref, "seq").Inner = api.FormatFor(def.Seq)
		elem, err := s.sampleRef(def.Seq)
		if err != nil {
			return nil, err
		}
		return []any{elem}, nil
	case "option":
		s.registry.Container(ref, "option").Inner = api.FormatFor(def.Option)
		// Always take the Some branch so enums behind the option stay
		// reachable on every pass.
		return s.sampleRef(def.Option)
	case "tuple":
		c := s.registry.Container(ref, "tuple")
		c.Elements = c.Elements[:0]
		values := make([]any, 0, len(def.Tuple))
		for _, el := range def.Tuple {
			c.Elements = append(c.Elements, api.FormatFor(el))
			v, err := s.sampleRef(el)
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
		return values, nil
	case "alias":
		s.registry.Container(ref, "alias").Inner = api.FormatFor(def.Alias)
		return s.sampleRef(def.Alias)
	}
	return nil, fmt.Errorf("type %q has no definition form", ref)
}

// sampleEnum realizes exactly one variant of one enum occurrence, chosen
// by the tracker's cursor for this pass.
func (s *Sampler) sampleEnum(name string, def *api.EnumDef) (any, error) {
	s.tracker.Open(name, len(def.Variants)-1)
	idx := s.tracker.NextVariantIndex()
	variant := def.Variants[idx]

	var payload any
	var payloadFormat *api.Format
	if variant.Type != "" {
		payloadFormat = api.FormatFor(variant.Type)
		var err error
		payload, err = s.sampleRef(variant.Type)
		if err != nil {
			s.tracker.Close()
			return nil, err
		}
	}

	s.registry.Container(name, "enum").Variants[idx] = &api.Variant{
		Name:    variant.Name,
		Payload: payloadFormat,
	}
	s.report.Record(name, len(def.Variants), idx)
	s.tracker.Close()

	return map[string]any{variant.Name: payload}, nil
}

func (s *Sampler) sampleStruct(name string, def *api.StructDef) (any, error) {
	c := s.registry.Container(name, "struct")
	c.Fields = c.Fields[:0]
	value := make(map[string]any, len(def.Fields))
	for _, f := range def.Fields {
		c.Fields = append(c.Fields, &api.NamedFormat{Name: f.Name, Format: api.FormatFor(f.Type)})
		v, err := s.sampleRef(f.Type)
		if err != nil {
			return nil, err
		}
		value[f.Name] = v
	}
	return value, nil
}

func primitiveValue(name string) any {
	switch name {
	case "unit":
		return nil
	case "bool":
		return false
	case "f32", "f64":
		return 0.0
	case "str":
		return ""
	case "bytes":
		return []byte{}
	default: // integer primitives
		return 0
	}
}
