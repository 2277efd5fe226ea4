/*
Package fsm is a small, table-driven finite state machine engine.

A Table maps a state to the commands it accepts and the state each command
leads to. One reserved wildcard state holds commands that are legal from any
state (for example "exit"). Lookup is a pure function of (state, command):
there is no hidden state and no side effects, so the same pair always yields
the same answer.

	table := fsm.Table[State, Command]{
		Idle:     {Start: Running},
		Running:  {Stop: Idle},
		Wildcard: {Abort: Aborted},
	}
	next, ok := fsm.NextState(table, Wildcard, Running, Abort) // Aborted, true

Tables are plain data so tests and tools (such as the Mermaid exporter) can
enumerate them independently of the lookup.
*/
package fsm
