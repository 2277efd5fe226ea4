package fsm

import (
	"cmp"
	"fmt"
	"slices"
)

// Machine binds a declared state set and a transition table.
// It is immutable after construction and safe for concurrent use.
type Machine[S, C comparable] struct {
	states   []S
	initial  S
	wildcard S
	table    Table[S, C]
}

// New creates a Machine. states lists every real state in declaration order;
// the wildcard is a reserved row key and must not be listed. Both states and
// table are copied.
func New[S, C comparable](states []S, initial, wildcard S, table Table[S, C]) *Machine[S, C] {
	return &Machine[S, C]{
		states:   slices.Clone(states),
		initial:  initial,
		wildcard: wildcard,
		table:    table.Clone(),
	}
}

// Next returns the state reached by cmd from the given state.
func (m *Machine[S, C]) Next(from S, cmd C) (S, bool) {
	return NextState(m.table, m.wildcard, from, cmd)
}

// Initial returns the state new sessions start in.
func (m *Machine[S, C]) Initial() S {
	return m.initial
}

// Wildcard returns the reserved any-state row key.
func (m *Machine[S, C]) Wildcard() S {
	return m.wildcard
}

// States returns the declared states in declaration order.
func (m *Machine[S, C]) States() []S {
	return slices.Clone(m.states)
}

// Table returns a copy of the transition table.
func (m *Machine[S, C]) Table() Table[S, C] {
	return m.table.Clone()
}

// Commands lists the commands accepted from the given state, including the
// wildcard ones, sorted by their string form.
func (m *Machine[S, C]) Commands(from S) []C {
	seen := make(map[C]struct{})
	var out []C
	for _, row := range []map[C]S{m.table[from], m.table[m.wildcard]} {
		for cmd := range row {
			if _, dup := seen[cmd]; dup {
				continue
			}
			seen[cmd] = struct{}{}
			out = append(out, cmd)
		}
	}
	slices.SortFunc(out, func(a, b C) int {
		return cmp.Compare(fmt.Sprint(a), fmt.Sprint(b))
	})
	return out
}

// Validate checks that the initial state, every row key (except the
// wildcard) and every target are declared states.
func (m *Machine[S, C]) Validate() error {
	declared := make(map[S]struct{}, len(m.states))
	for _, s := range m.states {
		if s == m.wildcard {
			return fmt.Errorf("wildcard %v must not be declared as a state", s)
		}
		declared[s] = struct{}{}
	}
	if _, ok := declared[m.initial]; !ok {
		return fmt.Errorf("initial state %v is not declared", m.initial)
	}
	for _, e := range m.table.Edges() {
		if _, ok := declared[e.From]; !ok && e.From != m.wildcard {
			return fmt.Errorf("row %v is not a declared state", e.From)
		}
		if _, ok := declared[e.To]; !ok {
			return fmt.Errorf("transition %v --%v--> %v targets an undeclared state", e.From, e.Command, e.To)
		}
	}
	return nil
}
