package eval

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDuplicateSearch is returned by AddSearch when a search with the same
// name is already registered on the parameter.
var ErrDuplicateSearch = errors.New("duplicate search name")

// ErrUnknownSearch is returned when a search name is not registered on any
// parameter.
var ErrUnknownSearch = errors.New("unknown search name")

// Params maps parameter names to raw values. It is the assignment an
// experiment receives after defaults and sweep overrides are merged.
type Params map[string]any

// Search declares alternative values to try for a parameter. An alternative
// is normally a scalar value for the owning parameter; an alternative of
// type Params varies several parameters together as one labeled unit.
// Searches are immutable once added.
type Search struct {
	Name           string
	Alternatives   []Value
	IncludeDefault bool
}

// Parameter is a named experiment input with a default value and zero or
// more searches. Parameters are created through Evaluation.Parameter and
// live for the lifetime of the engine.
type Parameter struct {
	name     string
	def      Value
	searches []Search
}

// Name returns the parameter's name.
func (p *Parameter) Name() string {
	return p.name
}

// Default returns the current default value.
func (p *Parameter) Default() Value {
	return p.def
}

// SetDefault replaces the default value and returns the parameter for
// chaining. A nil raw value means the parameter has no default.
func (p *Parameter) SetDefault(v any) *Parameter {
	p.def = NewValue(v)
	return p
}

// AddSearch registers a search on the parameter. An empty name defaults to
// the parameter's own name. Alternatives are wrapped as Values in order;
// when includeDefault is set, the parameter's current default is prepended
// at enumeration time. Returns ErrDuplicateSearch if the name is already
// taken on this parameter.
func (p *Parameter) AddSearch(name string, includeDefault bool, alternatives ...any) error {
	if name == "" {
		name = p.name
	}
	for _, s := range p.searches {
		if s.Name == name {
			return fmt.Errorf("parameter %q: search %q: %w", p.name, name, ErrDuplicateSearch)
		}
	}

	alts := make([]Value, len(alternatives))
	for i, a := range alternatives {
		alts[i] = NewValue(a)
	}
	p.searches = append(p.searches, Search{
		Name:           name,
		Alternatives:   alts,
		IncludeDefault: includeDefault,
	})
	return nil
}

// Alternative is one resolved choice of a search: a display label plus the
// parameter bindings it implies. Scalar alternatives bind a single
// parameter; freeform alternatives may bind several.
type Alternative struct {
	Label  string
	Values Params
}

// Assignment records that a search fixed one of its alternatives.
type Assignment struct {
	Search string
	Alt    Alternative
}

// ParamSet is one concrete assignment of values to a subset of parameters,
// representing a single experiment to run. Later entries win on key
// collision when merged.
type ParamSet []Assignment

// String renders the set as "search=label, ..." in order. An empty set
// renders as "defaults".
func (ps ParamSet) String() string {
	if len(ps) == 0 {
		return "defaults"
	}
	parts := make([]string, len(ps))
	for i, a := range ps {
		parts[i] = a.Search + "=" + a.Alt.Label
	}
	return strings.Join(parts, ", ")
}
