package eval

import (
	"iter"
	"slices"
)

// FullGrid lazily enumerates every combination of one alternative per named
// search, preserving the given name order: the first name varies slowest.
// The number of produced parameter sets is the product of each search's
// alternative count; there is no pruning or deduplication. The sequence is
// forward-only and not restartable once consumed.
//
// All names are resolved up front, so an unknown search name fails here
// rather than mid-enumeration.
func (e *Evaluation) FullGrid(names ...string) (iter.Seq[ParamSet], error) {
	alts := make([][]Alternative, len(names))
	for i, name := range names {
		a, err := e.Alternatives(name)
		if err != nil {
			return nil, err
		}
		alts[i] = a
	}
	return gridSeq(names, alts), nil
}

// Axis is one dimension of an explicit value grid: a parameter name and the
// raw values to try for it.
type Axis struct {
	Name   string
	Values []any
}

// ValueGrid lazily enumerates the cartesian product of the given axes'
// values directly, without registered searches. Axis order fixes the
// enumeration order.
func ValueGrid(axes ...Axis) iter.Seq[ParamSet] {
	names := make([]string, len(axes))
	alts := make([][]Alternative, len(axes))
	for i, axis := range axes {
		names[i] = axis.Name
		alts[i] = make([]Alternative, len(axis.Values))
		for j, raw := range axis.Values {
			v := NewValue(raw)
			alts[i][j] = Alternative{Label: v.String(), Values: Params{axis.Name: v.Raw()}}
		}
	}
	return gridSeq(names, alts)
}

// gridSeq produces the cartesian product by depth-first recursive
// expansion: fix an alternative for the head name, recurse on the tail
// accumulating assignments, and emit the accumulated set when the names are
// exhausted.
func gridSeq(names []string, alts [][]Alternative) iter.Seq[ParamSet] {
	return func(yield func(ParamSet) bool) {
		expandGrid(names, alts, nil, yield)
	}
}

func expandGrid(names []string, alts [][]Alternative, acc ParamSet, yield func(ParamSet) bool) bool {
	if len(names) == 0 {
		return yield(slices.Clone(acc))
	}
	for _, alt := range alts[0] {
		if !expandGrid(names[1:], alts[1:], append(acc, Assignment{Search: names[0], Alt: alt}), yield) {
			return false
		}
	}
	return true
}

// SearchSets lazily yields one-element parameter sets, one per alternative
// of each matching search, in registration order. These are independent
// one-dimensional sweeps, not a cross product. With no names, every
// registered search matches.
func (e *Evaluation) SearchSets(names ...string) iter.Seq[ParamSet] {
	return func(yield func(ParamSet) bool) {
		for _, pname := range e.order {
			p := e.params[pname]
			for _, s := range p.searches {
				if len(names) > 0 && !slices.Contains(names, s.Name) {
					continue
				}
				for _, alt := range resolveAlternatives(p, s) {
					if !yield(ParamSet{{Search: s.Name, Alt: alt}}) {
						return
					}
				}
			}
		}
	}
}
