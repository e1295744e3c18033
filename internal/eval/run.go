package eval

import (
	"fmt"
	"iter"
	"maps"
)

// RunExperiment resolves the full parameter assignment for one set and
// invokes the experiment callable exactly once, synchronously. The
// assignment starts from defaults (or DefaultValues when defaults is nil)
// and overlays each assignment's bindings in order, later entries winning
// on collision. defaults is not mutated.
func (e *Evaluation) RunExperiment(set ParamSet, defaults Params) (Outcome, error) {
	var values Params
	if defaults != nil {
		values = maps.Clone(defaults)
	} else {
		values = e.DefaultValues()
	}
	for _, a := range set {
		maps.Copy(values, a.Alt.Values)
	}

	result, err := e.run(values, set.String())
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Selected: set, Result: result}, nil
}

// RunExperiments runs each parameter set in the sequence, in order.
// Defaults are resolved once up front and reused for the whole batch, so
// default changes made mid-batch do not leak into later experiments.
//
// A failed experiment is logged with its parameter set and dropped from the
// results; the batch continues (unless WithStopOnError was set, in which
// case the error is returned immediately). After all experiments complete,
// the aggregation callable, if configured, is invoked once over the
// collected outcomes, provided at least one experiment succeeded.
// Aggregation errors propagate to the caller.
func (e *Evaluation) RunExperiments(sets iter.Seq[ParamSet]) ([]Outcome, error) {
	defaults := e.DefaultValues()

	var outcomes []Outcome
	for set := range sets {
		outcome, err := e.RunExperiment(set, defaults)
		if err != nil {
			if e.stopOnError {
				return outcomes, fmt.Errorf("experiment %s: %w", set, err)
			}
			e.log.Warn("experiment failed", "params", set.String(), "error", err)
			continue
		}
		outcomes = append(outcomes, outcome)
	}

	if e.aggregate != nil && len(outcomes) > 0 {
		if err := e.aggregate(outcomes); err != nil {
			return outcomes, fmt.Errorf("aggregating results: %w", err)
		}
	}
	return outcomes, nil
}

// RunParameterSearch runs one experiment per value, each a singleton
// assignment of the named parameter with everything else at its default.
func (e *Evaluation) RunParameterSearch(name string, values ...any) ([]Outcome, error) {
	return e.RunExperiments(func(yield func(ParamSet) bool) {
		for _, raw := range values {
			v := NewValue(raw)
			set := ParamSet{{
				Search: name,
				Alt:    Alternative{Label: v.String(), Values: Params{name: v.Raw()}},
			}}
			if !yield(set) {
				return
			}
		}
	})
}

// RunFullGrid runs a full grid of experiments along the named search
// dimensions.
func (e *Evaluation) RunFullGrid(names ...string) ([]Outcome, error) {
	grid, err := e.FullGrid(names...)
	if err != nil {
		return nil, err
	}
	return e.RunExperiments(grid)
}

// RunValueGrid runs the cartesian product of the given axes' values, in
// axis order, without registered searches.
func (e *Evaluation) RunValueGrid(axes ...Axis) ([]Outcome, error) {
	return e.RunExperiments(ValueGrid(axes...))
}

// RunSearch runs every alternative of each named search as independent
// single-dimension sweeps. With no names, every registered search runs,
// one after another.
func (e *Evaluation) RunSearch(names ...string) ([]Outcome, error) {
	return e.RunExperiments(e.SearchSets(names...))
}

// RunDefaults runs exactly one experiment with the empty parameter set, all
// parameters at their defaults, and returns its result directly. The
// aggregation callable is not involved.
func (e *Evaluation) RunDefaults() (Outcome, error) {
	return e.RunExperiment(nil, nil)
}
