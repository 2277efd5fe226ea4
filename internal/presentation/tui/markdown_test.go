package tui_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/aretw0/deckcal/internal/presentation/tui"
	"github.com/aretw0/deckcal/pkg/domain"
	"github.com/aretw0/deckcal/pkg/modules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionMarkdown(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	s := &domain.Session{
		ID: "abc", Workflow: "pipetteOffset", State: "labwareLoaded", CreatedAt: at, UpdatedAt: at,
		History: []domain.HistoryEntry{{Command: "load_labware", From: "sessionStarted", To: "labwareLoaded", At: at}},
	}
	md := tui.SessionMarkdown(s, []string{"exit", "move_to_tip_rack"})

	assert.Contains(t, md, "# Session `abc`")
	assert.Contains(t, md, "- **State:** labwareLoaded")
	assert.Contains(t, md, "- `move_to_tip_rack`")
	assert.Contains(t, md, "| 1 | load_labware | sessionStarted | labwareLoaded |")
}

func TestModuleMarkdown(t *testing.T) {
	parent := domain.Location{Point: domain.Point{}, Labware: domain.Slot("7")}
	m, err := modules.LoadModule(context.Background(), modules.ThermocyclerV1, parent, domain.MustParseAPIVersion("2.6"))
	require.NoError(t, err)

	md := tui.ModuleMarkdown(m)
	assert.Contains(t, md, "# Thermocycler Module on 7")
	assert.Contains(t, md, "- **Model:** thermocyclerV1 (thermocycler)")
	assert.Contains(t, md, "- **Lid:** open, 37.7 mm")
	assert.Contains(t, md, "- **Calibration point:** (14.4, 64.93)")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf)
	assert.Contains(t, buf.String(), `\__,_|`)
}

func TestNewRenderer_NonInteractive(t *testing.T) {
	// go test runs without a TTY on stdout.
	render := tui.NewRenderer()
	out, err := render("# title")
	require.NoError(t, err)
	assert.Contains(t, out, "title")
}
