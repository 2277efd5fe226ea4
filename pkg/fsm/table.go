package fsm

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
)

// Table maps each state to its accepted commands and their target states.
type Table[S, C comparable] map[S]map[C]S

// Clone returns a deep copy of the table.
func (t Table[S, C]) Clone() Table[S, C] {
	if t == nil {
		return nil
	}
	out := make(Table[S, C], len(t))
	for from, row := range t {
		out[from] = maps.Clone(row)
	}
	return out
}

// NextState resolves the transition for cmd issued in from.
// The row of from is consulted first, then the wildcard row. The boolean is
// false when neither row accepts cmd.
func NextState[S, C comparable](t Table[S, C], wildcard S, from S, cmd C) (S, bool) {
	if next, ok := t[from][cmd]; ok {
		return next, true
	}
	if next, ok := t[wildcard][cmd]; ok {
		return next, true
	}
	var zero S
	return zero, false
}

// Edge is a single (from, command, to) row of a Table.
type Edge[S, C comparable] struct {
	From    S
	Command C
	To      S
}

// Edges flattens the table. Rows are sorted by their string form so the
// output is stable.
func (t Table[S, C]) Edges() []Edge[S, C] {
	var edges []Edge[S, C]
	for from, row := range t {
		for cmd, to := range row {
			edges = append(edges, Edge[S, C]{From: from, Command: cmd, To: to})
		}
	}
	slices.SortFunc(edges, func(a, b Edge[S, C]) int {
		return cmp.Or(
			cmp.Compare(fmt.Sprint(a.From), fmt.Sprint(b.From)),
			cmp.Compare(fmt.Sprint(a.Command), fmt.Sprint(b.Command)),
		)
	})
	return edges
}
