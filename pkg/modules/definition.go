package modules

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/deckcal/pkg/domain"
)

// Definition is a parsed module definition document.
type Definition map[string]any

// SchemaKey is the field that tags versioned definitions.
const SchemaKey = "$otSharedSchema"

const (
	schemaV2               = "module/schemas/2"
	thermocyclerModuleType = "thermocyclerModuleType"
	legacyThermocycler     = "thermocycler"
)

// rawDimensions keeps lidHeight optional so its absence can be detected.
type rawDimensions struct {
	BareOverallHeight float64  `mapstructure:"bareOverallHeight"`
	OverLabwareHeight float64  `mapstructure:"overLabwareHeight"`
	LidHeight         *float64 `mapstructure:"lidHeight"`
}

func (r rawDimensions) dimensions() Dimensions {
	d := Dimensions{BareOverallHeight: r.BareOverallHeight, OverLabwareHeight: r.OverLabwareHeight}
	if r.LidHeight != nil {
		d.LidHeight = *r.LidHeight
	}
	return d
}

type v1Definition struct {
	LoadName      string        `mapstructure:"loadName"`
	DisplayName   string        `mapstructure:"displayName"`
	LabwareOffset domain.Point  `mapstructure:"labwareOffset"`
	Dimensions    rawDimensions `mapstructure:"dimensions"`
}

type v2Definition struct {
	ModuleType       string        `mapstructure:"moduleType"`
	Model            string        `mapstructure:"model"`
	DisplayName      string        `mapstructure:"displayName"`
	LabwareOffset    domain.Point  `mapstructure:"labwareOffset"`
	Dimensions       rawDimensions `mapstructure:"dimensions"`
	CalibrationPoint *struct {
		X float64 `mapstructure:"x"`
		Y float64 `mapstructure:"y"`
	} `mapstructure:"calibrationPoint"`
	Quirks         []string `mapstructure:"quirks"`
	CompatibleWith []string `mapstructure:"compatibleWith"`
}

func decode(def Definition, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result: out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(map[string]any(def)); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDefinitionInvalid, err)
	}
	return nil
}

func buildFromV1(def Definition, parent domain.Location, apiLevel domain.APIVersion) (*ModuleGeometry, error) {
	var raw v1Definition
	if err := decode(def, &raw); err != nil {
		return nil, err
	}
	model, ok := modelForLegacyLoadName(raw.LoadName)
	if !ok {
		return nil, fmt.Errorf("%w: unknown v1 load name %q", domain.ErrDefinitionInvalid, raw.LoadName)
	}
	if raw.LoadName == legacyThermocycler {
		if raw.Dimensions.LidHeight == nil {
			return nil, fmt.Errorf("%w: thermocycler definition has no lidHeight", domain.ErrDefinitionInvalid)
		}
		return NewThermocyclerGeometry(raw.DisplayName, model, raw.LabwareOffset, raw.Dimensions.dimensions(), parent, apiLevel), nil
	}
	return NewModuleGeometry(raw.DisplayName, model, raw.LabwareOffset, raw.Dimensions.dimensions(), parent, apiLevel), nil
}

// buildFromV2 expects a document that already passed schema validation.
func buildFromV2(def Definition, parent domain.Location, apiLevel domain.APIVersion) (*ModuleGeometry, error) {
	var raw v2Definition
	if err := decode(def, &raw); err != nil {
		return nil, err
	}
	model := Model(raw.Model)
	var m *ModuleGeometry
	if raw.ModuleType == thermocyclerModuleType {
		if raw.Dimensions.LidHeight == nil {
			return nil, fmt.Errorf("%w: thermocycler definition has no lidHeight", domain.ErrDefinitionInvalid)
		}
		m = NewThermocyclerGeometry(raw.DisplayName, model, raw.LabwareOffset, raw.Dimensions.dimensions(), parent, apiLevel)
	} else {
		m = NewModuleGeometry(raw.DisplayName, model, raw.LabwareOffset, raw.Dimensions.dimensions(), parent, apiLevel)
	}
	if raw.CalibrationPoint != nil {
		m.calibrationPoint = &domain.Point{X: raw.CalibrationPoint.X, Y: raw.CalibrationPoint.Y}
	}
	m.quirks = raw.Quirks
	for _, c := range raw.CompatibleWith {
		m.compatibleWith = append(m.compatibleWith, Model(c))
	}
	return m, nil
}
