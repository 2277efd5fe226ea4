package modules

import (
	"errors"
	"fmt"

	"github.com/aretw0/deckcal/pkg/domain"
)

var (
	// ErrLabwareAlreadyAttached is returned when a module is already occupied.
	ErrLabwareAlreadyAttached = fmt.Errorf("%w: labware already attached", domain.ErrAttachmentConflict)

	// ErrLidClosed is returned when placing labware in a closed thermocycler.
	ErrLidClosed = fmt.Errorf("%w: cannot place labware in closed module", domain.ErrAttachmentConflict)

	// ErrNoLid is returned when setting the lid of a module without one.
	ErrNoLid = errors.New("module has no lid")
)

// UnsupportedModuleError reports a model that cannot be loaded, either
// because the api level is too old or because no definition exists.
type UnsupportedModuleError struct {
	Model    Model
	APILevel domain.APIVersion
	// MinVersion is set when a newer api level would support the model.
	MinVersion domain.APIVersion
}

func (e *UnsupportedModuleError) Error() string {
	if !e.MinVersion.IsZero() {
		return fmt.Sprintf("API version %s does not support the module %s. Please use at least version %s to use this module.",
			e.APILevel, e.Model, e.MinVersion)
	}
	return fmt.Sprintf("could not find the module %s", e.Model)
}

func (e *UnsupportedModuleError) Unwrap() error {
	return domain.ErrModuleUnsupported
}

// UnsupportedSchemaError reports a recognised definition schema version this
// release cannot load.
type UnsupportedSchemaError struct {
	Version string
}

func (e *UnsupportedSchemaError) Error() string {
	return fmt.Sprintf("module definitions of schema version %s are not supported in this robot software release", e.Version)
}

func (e *UnsupportedSchemaError) Unwrap() error {
	return domain.ErrDefinitionInvalid
}

// AttachmentError reports a rejected labware placement.
type AttachmentError struct {
	Module  string
	Labware string
	Err     error
}

func (e *AttachmentError) Error() string {
	if errors.Is(e.Err, ErrLabwareAlreadyAttached) {
		return fmt.Sprintf("%s is already on this module (%s)", e.Labware, e.Module)
	}
	return fmt.Sprintf("%s: %v", e.Module, e.Err)
}

func (e *AttachmentError) Unwrap() error {
	return e.Err
}
