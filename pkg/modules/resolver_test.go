package modules_test

import (
	"errors"
	"testing"

	"github.com/aretw0/deckcal/pkg/domain"
	"github.com/aretw0/deckcal/pkg/modules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveModuleModel(t *testing.T) {
	cases := map[string]modules.Model{
		"magdeck":                 modules.MagneticModuleV1,
		"Magnetic Module":         modules.MagneticModuleV1,
		"MAGNETIC MODULE GEN2":    modules.MagneticModuleV2,
		"TempDeck":                modules.TemperatureModuleV1,
		"temperature module":      modules.TemperatureModuleV1,
		"Temperature Module GEN2": modules.TemperatureModuleV2,
		"Thermocycler":            modules.ThermocyclerV1,
		"thermocycler module":     modules.ThermocyclerV1,
	}
	for name, want := range cases {
		got, err := modules.ResolveModuleModel(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
}

func TestResolveModuleModel_Unknown(t *testing.T) {
	_, err := modules.ResolveModuleModel("centrifuge")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))

	var nameErr *modules.InvalidModuleNameError
	require.True(t, errors.As(err, &nameErr))
	assert.Equal(t, "centrifuge", nameErr.Name)
	for _, alias := range modules.Aliases() {
		assert.Contains(t, err.Error(), alias)
	}
	assert.Contains(t, err.Error(), "centrifuge is not a valid module load name")
}

func TestAliases(t *testing.T) {
	aliases := modules.Aliases()
	assert.Len(t, aliases, 8)
	assert.IsIncreasing(t, aliases)

	aliases[0] = "mutated"
	assert.Equal(t, "magdeck", modules.Aliases()[0])
}

func TestModel_Known(t *testing.T) {
	for _, m := range modules.Models() {
		assert.True(t, m.Known(), m)
	}
	assert.False(t, modules.Model("centrifuge").Known())
	assert.False(t, modules.Model("magdeck").Known())
}
