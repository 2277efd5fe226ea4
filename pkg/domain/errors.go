package domain

import "errors"

// ErrInvalidArgument is returned when caller input cannot be interpreted,
// such as an unknown module load name.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrModuleUnsupported is returned when a module is not available at the
// requested api level or has no definition artifact.
var ErrModuleUnsupported = errors.New("module not supported")

// ErrDefinitionInvalid is returned when a module definition fails schema
// validation or uses a schema this software does not understand.
var ErrDefinitionInvalid = errors.New("the specified module definition is not valid")

// ErrAttachmentConflict is returned when labware cannot be placed on a module.
var ErrAttachmentConflict = errors.New("labware attachment conflict")

// ErrIllegalTransition is returned when a command has no transition from the
// current workflow state.
var ErrIllegalTransition = errors.New("illegal state transition")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrSessionExists is returned when starting a session whose ID is taken.
var ErrSessionExists = errors.New("session already exists")
