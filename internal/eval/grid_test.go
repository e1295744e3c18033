package eval

import (
	"errors"
	"testing"
)

func gridFixture(t *testing.T) *Evaluation {
	t.Helper()
	e := New(noopExperiment)
	if err := e.Parameter("x", 1).AddSearch("", false, 1, 2); err != nil {
		t.Fatalf("AddSearch(x): %v", err)
	}
	if err := e.Parameter("y", "a").AddSearch("", false, "a", "b", "c"); err != nil {
		t.Fatalf("AddSearch(y): %v", err)
	}
	return e
}

func collect(t *testing.T, e *Evaluation, names ...string) []ParamSet {
	t.Helper()
	grid, err := e.FullGrid(names...)
	if err != nil {
		t.Fatalf("FullGrid(%v): %v", names, err)
	}
	var sets []ParamSet
	for set := range grid {
		sets = append(sets, set)
	}
	return sets
}

func TestFullGrid_Cardinality(t *testing.T) {
	e := gridFixture(t)

	sets := collect(t, e, "x", "y")
	if len(sets) != 6 {
		t.Fatalf("got %d combinations, want 2*3 = 6", len(sets))
	}

	// Every combination distinct.
	seen := make(map[string]bool)
	for _, set := range sets {
		key := set.String()
		if seen[key] {
			t.Errorf("duplicate combination %q", key)
		}
		seen[key] = true
	}
}

func TestFullGrid_Order(t *testing.T) {
	e := gridFixture(t)

	sets := collect(t, e, "x", "y")
	want := []string{
		"x=1*, y=a*",
		"x=1*, y=b",
		"x=1*, y=c",
		"x=2, y=a*",
		"x=2, y=b",
		"x=2, y=c",
	}
	for i, set := range sets {
		if set.String() != want[i] {
			t.Errorf("combination %d = %q, want %q", i, set.String(), want[i])
		}
	}
}

func TestFullGrid_EmptyNames(t *testing.T) {
	e := gridFixture(t)

	sets := collect(t, e)
	if len(sets) != 1 {
		t.Fatalf("got %d combinations, want 1 (the empty assignment)", len(sets))
	}
	if len(sets[0]) != 0 {
		t.Errorf("combination = %v, want empty parameter set", sets[0])
	}
}

func TestFullGrid_UnknownName(t *testing.T) {
	e := gridFixture(t)

	_, err := e.FullGrid("x", "nope")
	if !errors.Is(err, ErrUnknownSearch) {
		t.Errorf("FullGrid error = %v, want ErrUnknownSearch", err)
	}
}

func TestFullGrid_Lazy(t *testing.T) {
	e := gridFixture(t)

	grid, err := e.FullGrid("x", "y")
	if err != nil {
		t.Fatalf("FullGrid: %v", err)
	}

	// Consuming only the first element must not panic or run the rest.
	var count int
	for range grid {
		count++
		break
	}
	if count != 1 {
		t.Errorf("consumed %d elements, want 1", count)
	}
}

func TestValueGrid(t *testing.T) {
	var sets []ParamSet
	for set := range ValueGrid(
		Axis{Name: "x", Values: []any{1, 2}},
		Axis{Name: "y", Values: []any{"a", "b"}},
	) {
		sets = append(sets, set)
	}

	want := []string{"x=1, y=a", "x=1, y=b", "x=2, y=a", "x=2, y=b"}
	if len(sets) != len(want) {
		t.Fatalf("got %d combinations, want %d", len(sets), len(want))
	}
	for i, set := range sets {
		if set.String() != want[i] {
			t.Errorf("combination %d = %q, want %q", i, set.String(), want[i])
		}
		if len(set) != 2 {
			t.Errorf("combination %d has %d assignments, want 2", i, len(set))
		}
	}
}

func TestSearchSets_All(t *testing.T) {
	e := gridFixture(t)

	var sets []ParamSet
	for set := range e.SearchSets() {
		sets = append(sets, set)
	}

	// 2 alternatives for x plus 3 for y, as independent one-element sets.
	if len(sets) != 5 {
		t.Fatalf("got %d sets, want 5", len(sets))
	}
	for i, set := range sets {
		if len(set) != 1 {
			t.Errorf("set %d has %d assignments, want 1", i, len(set))
		}
	}
	if sets[0][0].Search != "x" || sets[2][0].Search != "y" {
		t.Errorf("sets not in registration order: %v", sets)
	}
}

func TestSearchSets_Filtered(t *testing.T) {
	e := gridFixture(t)

	var sets []ParamSet
	for set := range e.SearchSets("y") {
		sets = append(sets, set)
	}
	if len(sets) != 3 {
		t.Fatalf("got %d sets, want 3", len(sets))
	}
	for _, set := range sets {
		if set[0].Search != "y" {
			t.Errorf("set %v not from search y", set)
		}
	}
}
