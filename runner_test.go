package deckcal_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/aretw0/deckcal"
	"github.com/aretw0/deckcal/pkg/calibration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_Headless(t *testing.T) {
	ctx := context.Background()
	deck := deckcal.New()
	s, err := deck.StartSession(ctx, calibration.WorkflowPipetteOffset)
	require.NoError(t, err)

	var out bytes.Buffer
	r := deckcal.NewRunner()
	r.Headless = true
	r.Input = strings.NewReader("load_labware\n\n# comment\njog\nmove_to_tip_rack\nexit\nload_labware\n")
	r.Output = &out

	final, err := r.Run(ctx, deck, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "sessionExited", final.State)

	assert.Equal(t, strings.Join([]string{
		"sessionStarted",
		"labwareLoaded",
		"rejected: cannot jog from state labwareLoaded",
		"preparingPipette",
		"sessionExited",
	}, "\n")+"\n", out.String())
}

func TestRunner_Interactive(t *testing.T) {
	ctx := context.Background()
	deck := deckcal.New()
	s, err := deck.StartSession(ctx, calibration.WorkflowPipetteOffset)
	require.NoError(t, err)

	var out bytes.Buffer
	r := deckcal.NewRunner()
	r.Input = strings.NewReader("load_labware\n")
	r.Output = &out
	r.Renderer = func(md string) (string, error) { return strings.ToUpper(md), nil }

	final, err := r.Run(ctx, deck, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "labwareLoaded", final.State)
	assert.Contains(t, out.String(), "--- deckcal session")
	assert.Contains(t, out.String(), "**LABWARELOADED** (NEXT: `EXIT`, `MOVE_TO_TIP_RACK`)")
}

func TestRunner_RequiresIO(t *testing.T) {
	_, err := deckcal.NewRunner().Run(context.Background(), deckcal.New(), "x")
	assert.Error(t, err)
}
