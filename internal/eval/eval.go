// Package eval runs an experiment function repeatedly under systematically
// varied parameter assignments: single-dimension sweeps, independent named
// searches, or full cartesian grids. Results are collected per batch with
// per-run failure isolation and an optional aggregation step.
//
// Typical use:
//
//	e := eval.New(runExperiment, eval.WithAggregate(aggregate))
//	e.Parameter("data", trainSet)
//	e.Parameter("clf", logit)
//	e.Parameter("clf").AddSearch("", true, svc)
//	e.RunSearch()
package eval

import (
	"fmt"
	"log/slog"
)

// ExperimentFunc is the user's experiment. It receives the full merged
// parameter assignment plus desc, a human-readable label naming the
// dimensions varied for this run, and returns an arbitrary result that the
// engine treats as opaque.
type ExperimentFunc func(params Params, desc string) (any, error)

// AggregateFunc receives the ordered outcomes of all successful experiments
// in a batch. It is invoked at most once per batch; an error aborts the
// batch call.
type AggregateFunc func(outcomes []Outcome) error

// Outcome pairs the assignments that were varied for one experiment with
// its raw result.
type Outcome struct {
	Selected ParamSet
	Result   any
}

// Evaluation owns a parameter registry and the experiment callable, and
// provides the run entry points. It is a single-owner object: experiments
// run synchronously in the calling goroutine, one after another, and the
// registry must not be mutated during a run.
type Evaluation struct {
	run         ExperimentFunc
	aggregate   AggregateFunc
	params      map[string]*Parameter
	order       []string
	stopOnError bool
	log         *slog.Logger
}

// Option configures an Evaluation.
type Option func(*Evaluation)

// WithAggregate sets the aggregation callable invoked once per batch over
// the collected outcomes.
func WithAggregate(fn AggregateFunc) Option {
	return func(e *Evaluation) { e.aggregate = fn }
}

// WithLogger sets the logger used to report failed experiments.
func WithLogger(log *slog.Logger) Option {
	return func(e *Evaluation) { e.log = log }
}

// WithStopOnError makes a batch abort on the first failed experiment
// instead of logging it and continuing.
func WithStopOnError() Option {
	return func(e *Evaluation) { e.stopOnError = true }
}

// New creates an evaluation engine around the given experiment callable.
func New(run ExperimentFunc, opts ...Option) *Evaluation {
	e := &Evaluation{
		run:    run,
		params: make(map[string]*Parameter),
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Parameter returns the parameter registered under name, creating it with
// the given default if it does not exist yet. Re-registering is idempotent:
// the existing parameter is returned and its default, including one changed
// via SetDefault, is left alone.
func (e *Evaluation) Parameter(name string, defaultValue ...any) *Parameter {
	if p, ok := e.params[name]; ok {
		return p
	}

	var def any
	if len(defaultValue) > 0 {
		def = defaultValue[0]
	}
	p := &Parameter{name: name, def: NewValue(def)}
	e.params[name] = p
	e.order = append(e.order, name)
	return p
}

// DefaultValues snapshots the current default raw value of every registered
// parameter. Parameters with a nil default are omitted. The snapshot is
// recomputed on every call since defaults can change after registration.
func (e *Evaluation) DefaultValues() Params {
	defaults := make(Params)
	for _, name := range e.order {
		if v := e.params[name].def.Raw(); v != nil {
			defaults[name] = v
		}
	}
	return defaults
}

// FindSearch scans all parameters' searches for the given name. Returns
// ErrUnknownSearch if no search anywhere carries it.
func (e *Evaluation) FindSearch(name string) (*Parameter, Search, error) {
	for _, pname := range e.order {
		p := e.params[pname]
		for _, s := range p.searches {
			if s.Name == name {
				return p, s, nil
			}
		}
	}
	return nil, Search{}, fmt.Errorf("search %q: %w", name, ErrUnknownSearch)
}

// Alternatives resolves the named search into its concrete alternatives.
// When the search includes the default, the owning parameter's current
// default is prepended; the alternative whose display form matches the
// default's is marked with a trailing "*". No deduplication is performed.
func (e *Evaluation) Alternatives(name string) ([]Alternative, error) {
	p, s, err := e.FindSearch(name)
	if err != nil {
		return nil, err
	}
	return resolveAlternatives(p, s), nil
}

func resolveAlternatives(p *Parameter, s Search) []Alternative {
	values := s.Alternatives
	if s.IncludeDefault {
		values = append([]Value{p.def}, values...)
	}

	defaultLabel := p.def.String()
	alts := make([]Alternative, len(values))
	for i, v := range values {
		if vals, ok := v.Raw().(Params); ok {
			// Freeform alternative: several parameters vary as one unit.
			alts[i] = Alternative{Label: v.String(), Values: vals}
			continue
		}

		label := v.String()
		if label == defaultLabel {
			label += "*"
		}
		alts[i] = Alternative{Label: label, Values: Params{p.name: v.Raw()}}
	}
	return alts
}
