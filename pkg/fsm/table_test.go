package fsm_test

import (
	"testing"

	"github.com/aretw0/deckcal/pkg/fsm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type light string
type press string

const (
	off      light = "off"
	on       light = "on"
	broken   light = "broken"
	anyLight light = "*"

	toggle press = "toggle"
	smash  press = "smash"
	dim    press = "dim"
)

var lamp = fsm.Table[light, press]{
	off:      {toggle: on},
	on:       {toggle: off, smash: on},
	anyLight: {smash: broken},
}

func TestNextState_RowWinsOverWildcard(t *testing.T) {
	next, ok := fsm.NextState(lamp, anyLight, on, smash)
	require.True(t, ok)
	assert.Equal(t, on, next)
}

func TestNextState_WildcardFallback(t *testing.T) {
	next, ok := fsm.NextState(lamp, anyLight, off, smash)
	require.True(t, ok)
	assert.Equal(t, broken, next)

	// States without a row still reach the wildcard.
	next, ok = fsm.NextState(lamp, anyLight, broken, smash)
	require.True(t, ok)
	assert.Equal(t, broken, next)
}

func TestNextState_Absent(t *testing.T) {
	next, ok := fsm.NextState(lamp, anyLight, off, dim)
	assert.False(t, ok)
	assert.Equal(t, light(""), next)

	_, ok = fsm.NextState(lamp, anyLight, light("unknown"), toggle)
	assert.False(t, ok, "undeclared states must not panic")

	_, ok = fsm.NextState[light, press](nil, anyLight, off, toggle)
	assert.False(t, ok, "nil table must not panic")
}

func TestNextState_Pure(t *testing.T) {
	for i := 0; i < 3; i++ {
		next, ok := fsm.NextState(lamp, anyLight, off, toggle)
		require.True(t, ok)
		assert.Equal(t, on, next)
	}
}

func TestTable_Edges(t *testing.T) {
	edges := lamp.Edges()
	require.Len(t, edges, 4)
	assert.Equal(t, fsm.Edge[light, press]{From: anyLight, Command: smash, To: broken}, edges[0])
	assert.Equal(t, fsm.Edge[light, press]{From: off, Command: toggle, To: on}, edges[1])
	assert.Equal(t, fsm.Edge[light, press]{From: on, Command: smash, To: on}, edges[2])
	assert.Equal(t, fsm.Edge[light, press]{From: on, Command: toggle, To: off}, edges[3])
}

func TestMachine(t *testing.T) {
	m := fsm.New([]light{off, on, broken}, off, anyLight, lamp)

	require.NoError(t, m.Validate())
	assert.Equal(t, off, m.Initial())
	assert.Equal(t, anyLight, m.Wildcard())
	assert.Equal(t, []light{off, on, broken}, m.States())
	assert.Equal(t, []press{smash, toggle}, m.Commands(off))
	assert.Equal(t, []press{smash, toggle}, m.Commands(on))
	assert.Equal(t, []press{smash}, m.Commands(broken))

	next, ok := m.Next(on, toggle)
	require.True(t, ok)
	assert.Equal(t, off, next)
}

func TestMachine_Validate(t *testing.T) {
	t.Run("Undeclared Target", func(t *testing.T) {
		m := fsm.New([]light{off, on}, off, anyLight, lamp)
		assert.ErrorContains(t, m.Validate(), "undeclared state")
	})

	t.Run("Undeclared Initial", func(t *testing.T) {
		m := fsm.New([]light{on, broken}, off, anyLight, fsm.Table[light, press]{})
		assert.ErrorContains(t, m.Validate(), "initial state")
	})

	t.Run("Wildcard Declared", func(t *testing.T) {
		m := fsm.New([]light{off, on, broken, anyLight}, off, anyLight, lamp)
		assert.ErrorContains(t, m.Validate(), "wildcard")
	})
}

func TestMachine_TableIsolated(t *testing.T) {
	table := fsm.Table[light, press]{
		off: {toggle: on},
		on:  {toggle: off},
	}
	m := fsm.New([]light{off, on}, off, anyLight, table)

	table[off][toggle] = broken
	next, ok := m.Next(off, toggle)
	require.True(t, ok)
	assert.Equal(t, on, next)

	m.Table()[on][toggle] = broken
	next, ok = m.Next(on, toggle)
	require.True(t, ok)
	assert.Equal(t, off, next)
}

func TestTable_Clone(t *testing.T) {
	clone := lamp.Clone()
	assert.Equal(t, lamp, clone)
	delete(clone[off], toggle)
	assert.Contains(t, lamp[off], toggle)
	assert.Nil(t, fsm.Table[light, press](nil).Clone())
}
