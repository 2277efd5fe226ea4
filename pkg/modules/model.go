package modules

import "github.com/aretw0/deckcal/pkg/domain"

// Model is a canonical module model identifier.
type Model string

const (
	MagneticModuleV1    Model = "magneticModuleV1"
	MagneticModuleV2    Model = "magneticModuleV2"
	TemperatureModuleV1 Model = "temperatureModuleV1"
	TemperatureModuleV2 Model = "temperatureModuleV2"
	ThermocyclerV1      Model = "thermocyclerV1"
)

var models = []Model{
	MagneticModuleV1,
	MagneticModuleV2,
	TemperatureModuleV1,
	TemperatureModuleV2,
	ThermocyclerV1,
}

// Models returns every declared module model.
func Models() []Model {
	return append([]Model(nil), models...)
}

// Known reports whether m is one of the declared models.
func (m Model) Known() bool {
	for _, known := range models {
		if m == known {
			return true
		}
	}
	return false
}

var (
	// V2ModuleDefVersion is the first api level that loads schema v2
	// definitions.
	V2ModuleDefVersion = domain.APIVersion{Major: 2, Minor: 3}

	// MaxSupportedVersion is the api level used when callers do not pick one.
	MaxSupportedVersion = domain.APIVersion{Major: 2, Minor: 6}
)

// legacyLoadNames maps the models available before V2ModuleDefVersion to
// their key in the v1 bundle.
var legacyLoadNames = map[Model]string{
	MagneticModuleV1:    "magdeck",
	TemperatureModuleV1: "tempdeck",
	ThermocyclerV1:      "thermocycler",
}

func modelForLegacyLoadName(loadName string) (Model, bool) {
	for model, name := range legacyLoadNames {
		if name == loadName {
			return model, true
		}
	}
	return "", false
}

// Kind distinguishes the geometry variants.
type Kind int

const (
	KindPlain Kind = iota
	KindThermocycler
)

func (k Kind) String() string {
	switch k {
	case KindThermocycler:
		return "thermocycler"
	default:
		return "plain"
	}
}

// LidStatus is the position of a thermocycler lid.
type LidStatus string

const (
	LidOpen   LidStatus = "open"
	LidClosed LidStatus = "closed"
)
