package modules

import (
	"fmt"

	"github.com/aretw0/deckcal/pkg/domain"
)

// Dimensions are the height fields of a module definition.
type Dimensions struct {
	BareOverallHeight float64 `mapstructure:"bareOverallHeight" json:"bareOverallHeight"`
	OverLabwareHeight float64 `mapstructure:"overLabwareHeight" json:"overLabwareHeight"`
	LidHeight         float64 `mapstructure:"lidHeight" json:"lidHeight,omitempty"`
}

// ModuleGeometry tracks the position of a module on the deck and the
// labware placed on it.
//
// Modules have no calibration of their own: labware on top of a module is
// calibrated through the module's parent location, so an incorrect parent
// shifts every labware loaded onto the module.
type ModuleGeometry struct {
	kind        Kind
	displayName string
	model       Model
	offset      domain.Point
	height      float64
	overLabware float64
	apiVersion  domain.APIVersion
	parent      domain.Location
	location    domain.Location
	labware     domain.Labware

	// thermocycler only
	lidHeight float64
	lidStatus LidStatus

	// schema v2 metadata
	calibrationPoint *domain.Point
	quirks           []string
	compatibleWith   []Model
}

// NewModuleGeometry builds the plain module variant.
// displayName names only the module ("Magnetic Module GEN1"), without the
// parent. offset is where labware on the module sits relative to parent.
func NewModuleGeometry(displayName string, model Model, offset domain.Point, dims Dimensions,
	parent domain.Location, apiLevel domain.APIVersion) *ModuleGeometry {
	return newGeometry(KindPlain, displayName, model, offset, dims, parent, apiLevel)
}

// NewThermocyclerGeometry builds the thermocycler variant. The lid starts
// open.
func NewThermocyclerGeometry(displayName string, model Model, offset domain.Point, dims Dimensions,
	parent domain.Location, apiLevel domain.APIVersion) *ModuleGeometry {
	m := newGeometry(KindThermocycler, displayName, model, offset, dims, parent, apiLevel)
	m.lidHeight = dims.LidHeight
	m.lidStatus = LidOpen
	return m
}

func newGeometry(kind Kind, displayName string, model Model, offset domain.Point, dims Dimensions,
	parent domain.Location, apiLevel domain.APIVersion) *ModuleGeometry {
	m := &ModuleGeometry{
		kind:        kind,
		displayName: fmt.Sprintf("%s on %s", displayName, parent.Describe()),
		model:       model,
		offset:      offset,
		height:      dims.BareOverallHeight + parent.Point.Z,
		overLabware: dims.OverLabwareHeight,
		apiVersion:  apiLevel,
		parent:      parent,
	}
	m.location = domain.Location{Point: offset.Add(parent.Point), Labware: m}
	return m
}

// Kind reports which variant this module is.
func (m *ModuleGeometry) Kind() Kind {
	return m.kind
}

// APIVersion is the api level the module conforms to.
func (m *ModuleGeometry) APIVersion() domain.APIVersion {
	return m.apiVersion
}

// LoadName is the canonical model of the module.
func (m *ModuleGeometry) LoadName() Model {
	return m.model
}

// Parent returns the placeable the module sits on (usually a slot).
func (m *ModuleGeometry) Parent() domain.Placeable {
	return m.parent.Labware
}

// ParentLocation returns the full parent location.
func (m *ModuleGeometry) ParentLocation() domain.Location {
	return m.parent
}

// Labware returns the attached labware, or nil.
func (m *ModuleGeometry) Labware() domain.Labware {
	return m.labware
}

// Location is the top of the module, where labware is placed. Its owner is
// the module itself.
func (m *ModuleGeometry) Location() domain.Location {
	return m.location
}

// LabwareOffset is the transformation between the critical point of the
// module and that of its labware.
func (m *ModuleGeometry) LabwareOffset() domain.Point {
	return m.offset
}

// DisambiguateCalibration is always true: a module under a labware affects
// that labware's calibration.
func (m *ModuleGeometry) DisambiguateCalibration() bool {
	return true
}

// HighestZ is the top of the module stack. With labware attached it is the
// labware's top plus the module's clearance over labware; otherwise it is
// the module's own absolute height. It is computed on every call.
func (m *ModuleGeometry) HighestZ() float64 {
	// The thermocycler lid is not yet part of the collision model; both
	// variants share this formula regardless of lid status.
	if m.labware != nil {
		return m.labware.HighestZ() + m.overLabware
	}
	return m.height
}

// AddLabware places lw on the module and returns it.
// It fails when labware is already attached, or when a thermocycler lid is
// closed. The module is unchanged on failure.
func (m *ModuleGeometry) AddLabware(lw domain.Labware) (domain.Labware, error) {
	if lw == nil {
		return nil, fmt.Errorf("%w: labware is nil", domain.ErrInvalidArgument)
	}
	if m.labware != nil {
		return nil, &AttachmentError{Module: m.displayName, Labware: m.labware.String(), Err: ErrLabwareAlreadyAttached}
	}
	if m.kind == KindThermocycler && m.lidStatus == LidClosed {
		return nil, &AttachmentError{Module: m.displayName, Labware: lw.String(), Err: ErrLidClosed}
	}
	m.labware = lw
	return m.labware, nil
}

// ResetLabware detaches any labware. It is a no-op on an empty module.
func (m *ModuleGeometry) ResetLabware() {
	m.labware = nil
}

// LidHeight is the height of the thermocycler lid; zero for other modules.
func (m *ModuleGeometry) LidHeight() float64 {
	return m.lidHeight
}

// LidStatus returns the lid position, or "" for modules without a lid.
func (m *ModuleGeometry) LidStatus() LidStatus {
	return m.lidStatus
}

// SetLidStatus records the thermocycler lid position.
func (m *ModuleGeometry) SetLidStatus(status LidStatus) error {
	if m.kind != KindThermocycler {
		return fmt.Errorf("%s: %w", m.displayName, ErrNoLid)
	}
	switch status {
	case LidOpen, LidClosed:
		m.lidStatus = status
		return nil
	default:
		return fmt.Errorf("%w: lid status %q", domain.ErrInvalidArgument, status)
	}
}

// CalibrationPoint is the module's calibration target from a v2 definition.
func (m *ModuleGeometry) CalibrationPoint() (domain.Point, bool) {
	if m.calibrationPoint == nil {
		return domain.Point{}, false
	}
	return *m.calibrationPoint, true
}

// Quirks lists behavioural flags from a v2 definition.
func (m *ModuleGeometry) Quirks() []string {
	return append([]string(nil), m.quirks...)
}

// CompatibleWith lists models that may stand in for this one.
func (m *ModuleGeometry) CompatibleWith() []Model {
	return append([]Model(nil), m.compatibleWith...)
}

// String returns the display name, including the parent.
func (m *ModuleGeometry) String() string {
	return m.displayName
}
