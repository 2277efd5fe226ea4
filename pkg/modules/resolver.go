package modules

import (
	"fmt"
	"strings"

	"github.com/aretw0/deckcal/pkg/domain"
)

// aliases is ordered so error messages list names predictably.
var aliases = []struct {
	name  string
	model Model
}{
	{"magdeck", MagneticModuleV1},
	{"magnetic module", MagneticModuleV1},
	{"magnetic module gen2", MagneticModuleV2},
	{"tempdeck", TemperatureModuleV1},
	{"temperature module", TemperatureModuleV1},
	{"temperature module gen2", TemperatureModuleV2},
	{"thermocycler", ThermocyclerV1},
	{"thermocycler module", ThermocyclerV1},
}

// InvalidModuleNameError is returned for load names outside the alias table.
type InvalidModuleNameError struct {
	Name    string
	Aliases []string
}

func (e *InvalidModuleNameError) Error() string {
	return fmt.Sprintf("%s is not a valid module load name. Valid names (ignoring case): \"%s\"",
		e.Name, strings.Join(e.Aliases, `", "`))
}

func (e *InvalidModuleNameError) Unwrap() error {
	return domain.ErrInvalidArgument
}

// Aliases returns every accepted load name, lower-cased.
func Aliases() []string {
	out := make([]string, len(aliases))
	for i, a := range aliases {
		out[i] = a.name
	}
	return out
}

// ResolveModuleModel turns any supported load name into its module model.
// Matching ignores case.
func ResolveModuleModel(name string) (Model, error) {
	lower := strings.ToLower(name)
	for _, a := range aliases {
		if a.name == lower {
			return a.model, nil
		}
	}
	return "", &InvalidModuleNameError{Name: name, Aliases: Aliases()}
}
