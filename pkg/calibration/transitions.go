package calibration

import (
	"slices"

	"github.com/aretw0/deckcal/pkg/fsm"
)

// PipetteOffsetStates returns the states of the plain pipette-offset
// workflow in declaration order.
func PipetteOffsetStates() []State {
	return slices.Clone(pipetteOffsetStates)
}

// PipetteOffsetTransitions returns a copy of the plain workflow's table.
func PipetteOffsetTransitions() fsm.Table[State, Command] {
	return pipetteOffsetTransitions.Clone()
}

// PipetteOffsetWithTipLengthStates returns the states of the
// tip-length-aware workflow in declaration order.
func PipetteOffsetWithTipLengthStates() []State {
	return slices.Clone(pipetteOffsetWithTipLengthStates)
}

// PipetteOffsetWithTipLengthTransitions returns a copy of the
// tip-length-aware workflow's table.
func PipetteOffsetWithTipLengthTransitions() fsm.Table[State, Command] {
	return pipetteOffsetWithTipLengthTransitions.Clone()
}

var pipetteOffsetStates = []State{
	StateSessionStarted,
	StateLabwareLoaded,
	StatePreparingPipette,
	StateInspectingTip,
	StateJoggingToDeck,
	StateSavingPointOne,
	StateCalibrationComplete,
	StateSessionExited,
}

// pipetteOffsetTransitions is the transition table of the plain workflow.
var pipetteOffsetTransitions = fsm.Table[State, Command]{
	StateSessionStarted: {
		CommandLoadLabware: StateLabwareLoaded,
	},
	StateLabwareLoaded: {
		CommandMoveToTipRack: StatePreparingPipette,
	},
	StatePreparingPipette: {
		CommandJog:       StatePreparingPipette,
		CommandPickUpTip: StateInspectingTip,
	},
	StateInspectingTip: {
		CommandInvalidateTip: StatePreparingPipette,
		CommandMoveToDeck:    StateJoggingToDeck,
	},
	StateJoggingToDeck: {
		CommandJog:            StateJoggingToDeck,
		CommandSaveOffset:     StateJoggingToDeck,
		CommandMoveToPointOne: StateSavingPointOne,
	},
	StateSavingPointOne: {
		CommandJog:        StateSavingPointOne,
		CommandSaveOffset: StateCalibrationComplete,
	},
	StateCalibrationComplete: {
		CommandMoveToTipRack: StateCalibrationComplete,
	},
	StateWildcard: {
		CommandExit: StateSessionExited,
	},
}

// pipetteOffsetWithTipLengthStates are the states of the tip-length-aware
// workflow.
var pipetteOffsetWithTipLengthStates = []State{
	StateSessionStarted,
	StateLabwareLoaded,
	StateMeasuringNozzleOffset,
	StatePreparingPipette,
	StateInspectingTip,
	StateMeasuringTipOffset,
	StateTipLengthComplete,
	StateJoggingToDeck,
	StateSavingPointOne,
	StateCalibrationComplete,
	StateSessionExited,
}

// pipetteOffsetWithTipLengthTransitions measures the nozzle and tip offsets
// against a reference point before converging on the plain workflow's deck
// steps.
var pipetteOffsetWithTipLengthTransitions = fsm.Table[State, Command]{
	StateSessionStarted: {
		CommandSetHasCalibrationBlock: StateSessionStarted,
		CommandLoadLabware:            StateLabwareLoaded,
	},
	StateLabwareLoaded: {
		CommandMoveToReferencePoint: StateMeasuringNozzleOffset,
	},
	StateMeasuringNozzleOffset: {
		CommandSaveOffset:    StateMeasuringNozzleOffset,
		CommandJog:           StateMeasuringNozzleOffset,
		CommandMoveToTipRack: StatePreparingPipette,
	},
	StatePreparingPipette: {
		CommandJog:       StatePreparingPipette,
		CommandPickUpTip: StateInspectingTip,
	},
	StateInspectingTip: {
		CommandInvalidateTip:        StatePreparingPipette,
		CommandMoveToReferencePoint: StateMeasuringTipOffset,
	},
	StateMeasuringTipOffset: {
		CommandJog:        StateMeasuringTipOffset,
		CommandSaveOffset: StateTipLengthComplete,
	},
	StateTipLengthComplete: {
		CommandMoveToDeck: StateJoggingToDeck,
	},
	StateJoggingToDeck: {
		CommandJog:            StateJoggingToDeck,
		CommandSaveOffset:     StateJoggingToDeck,
		CommandMoveToPointOne: StateSavingPointOne,
	},
	StateSavingPointOne: {
		CommandJog:        StateSavingPointOne,
		CommandSaveOffset: StateCalibrationComplete,
	},
	StateCalibrationComplete: {
		CommandMoveToTipRack: StateCalibrationComplete,
	},
	StateWildcard: {
		CommandExit: StateSessionExited,
	},
}
