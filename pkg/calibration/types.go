package calibration

// Command identifies a calibration session command.
type Command string

const (
	CommandLoadLabware            Command = "load_labware"
	CommandMoveToTipRack          Command = "move_to_tip_rack"
	CommandJog                    Command = "jog"
	CommandPickUpTip              Command = "pick_up_tip"
	CommandInvalidateTip          Command = "invalidate_tip"
	CommandMoveToDeck             Command = "move_to_deck"
	CommandSaveOffset             Command = "save_offset"
	CommandMoveToPointOne         Command = "move_to_point_one"
	CommandExit                   Command = "exit"
	CommandSetHasCalibrationBlock Command = "set_has_calibration_block"
	CommandMoveToReferencePoint   Command = "move_to_reference_point"
)

// Commands lists the full command alphabet.
var Commands = []Command{
	CommandLoadLabware,
	CommandMoveToTipRack,
	CommandJog,
	CommandPickUpTip,
	CommandInvalidateTip,
	CommandMoveToDeck,
	CommandSaveOffset,
	CommandMoveToPointOne,
	CommandExit,
	CommandSetHasCalibrationBlock,
	CommandMoveToReferencePoint,
}

// ParseCommand validates a command name against the alphabet.
func ParseCommand(s string) (Command, bool) {
	for _, c := range Commands {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// State is a step of a calibration workflow.
type State string

const (
	StateSessionStarted        State = "sessionStarted"
	StateLabwareLoaded         State = "labwareLoaded"
	StateMeasuringNozzleOffset State = "measuringNozzleOffset"
	StatePreparingPipette      State = "preparingPipette"
	StateInspectingTip         State = "inspectingTip"
	StateMeasuringTipOffset    State = "measuringTipOffset"
	StateTipLengthComplete     State = "tipLengthComplete"
	StateJoggingToDeck         State = "joggingToDeck"
	StateSavingPointOne        State = "savingPointOne"
	StateCalibrationComplete   State = "calibrationComplete"
	StateSessionExited         State = "sessionExited"

	// StateWildcard is the reserved row matching any current state.
	StateWildcard State = "*"
)

// Workflow names a calibration procedure.
type Workflow string

const (
	WorkflowPipetteOffset              Workflow = "pipetteOffset"
	WorkflowPipetteOffsetWithTipLength Workflow = "pipetteOffsetWithTipLength"
)

// Workflows lists the supported procedures.
var Workflows = []Workflow{WorkflowPipetteOffset, WorkflowPipetteOffsetWithTipLength}
