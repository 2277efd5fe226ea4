package calibration

import (
	"fmt"

	"github.com/aretw0/deckcal/pkg/domain"
	"github.com/aretw0/deckcal/pkg/fsm"
)

// StateTransitionError reports a command submitted in a state that does not
// accept it.
type StateTransitionError struct {
	Command Command
	From    State
}

func (e *StateTransitionError) Error() string {
	return fmt.Sprintf("cannot %s from state %s", e.Command, e.From)
}

func (e *StateTransitionError) Unwrap() error {
	return domain.ErrIllegalTransition
}

// StateMachine gates a calibration workflow.
type StateMachine struct {
	workflow Workflow
	machine  *fsm.Machine[State, Command]
}

// NewPipetteOffsetStateMachine returns the gate for the plain workflow.
func NewPipetteOffsetStateMachine() *StateMachine {
	return &StateMachine{
		workflow: WorkflowPipetteOffset,
		machine: fsm.New(pipetteOffsetStates, StateSessionStarted, StateWildcard,
			pipetteOffsetTransitions),
	}
}

// NewPipetteOffsetWithTipLengthStateMachine returns the gate for the
// tip-length-aware workflow.
func NewPipetteOffsetWithTipLengthStateMachine() *StateMachine {
	return &StateMachine{
		workflow: WorkflowPipetteOffsetWithTipLength,
		machine: fsm.New(pipetteOffsetWithTipLengthStates, StateSessionStarted, StateWildcard,
			pipetteOffsetWithTipLengthTransitions),
	}
}

// ForWorkflow returns the gate for the named workflow.
func ForWorkflow(w Workflow) (*StateMachine, error) {
	switch w {
	case WorkflowPipetteOffset:
		return NewPipetteOffsetStateMachine(), nil
	case WorkflowPipetteOffsetWithTipLength:
		return NewPipetteOffsetWithTipLengthStateMachine(), nil
	default:
		return nil, fmt.Errorf("%w: unknown calibration workflow %q", domain.ErrInvalidArgument, w)
	}
}

// GetNextState returns the state reached by cmd from the given state, or a
// *StateTransitionError when the workflow does not allow it.
func (m *StateMachine) GetNextState(from State, cmd Command) (State, error) {
	next, ok := m.machine.Next(from, cmd)
	if !ok {
		return "", &StateTransitionError{Command: cmd, From: from}
	}
	return next, nil
}

// Workflow returns the procedure this machine gates.
func (m *StateMachine) Workflow() Workflow {
	return m.workflow
}

// InitialState is the state every session of this workflow starts in.
func (m *StateMachine) InitialState() State {
	return m.machine.Initial()
}

// IsTerminal reports whether s is the exit state.
func (m *StateMachine) IsTerminal(s State) bool {
	return s == StateSessionExited
}

// AllowedCommands lists the commands accepted from s.
func (m *StateMachine) AllowedCommands(s State) []Command {
	return m.machine.Commands(s)
}

// Machine exposes the underlying table-driven machine for introspection.
func (m *StateMachine) Machine() *fsm.Machine[State, Command] {
	return m.machine
}
