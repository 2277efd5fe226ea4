package domain_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aretw0/deckcal/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAPIVersion(t *testing.T) {
	v, err := domain.ParseAPIVersion(" 2.13 ")
	require.NoError(t, err)
	assert.Equal(t, domain.APIVersion{Major: 2, Minor: 13}, v)
	assert.Equal(t, "2.13", v.String())

	for _, bad := range []string{"", "2", "two.3", "2.x", "-1.0", "2.-3"} {
		_, err := domain.ParseAPIVersion(bad)
		assert.True(t, errors.Is(err, domain.ErrInvalidArgument), bad)
	}

	assert.Panics(t, func() { domain.MustParseAPIVersion("nope") })
}

func TestAPIVersion_Less(t *testing.T) {
	v := domain.MustParseAPIVersion
	assert.True(t, v("2.2").Less(v("2.3")))
	assert.True(t, v("1.9").Less(v("2.0")))
	assert.True(t, v("2.3").Less(v("2.10")))
	assert.False(t, v("2.3").Less(v("2.3")))
	assert.False(t, v("3.0").Less(v("2.9")))
	assert.True(t, domain.APIVersion{}.IsZero())
}

func TestAPIVersion_Text(t *testing.T) {
	var payload struct {
		Level domain.APIVersion `json:"level"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"level":"2.6"}`), &payload))
	assert.Equal(t, domain.APIVersion{Major: 2, Minor: 6}, payload.Level)

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"level":"2.6"}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"level":"latest"}`), &payload))
}

func TestPoint(t *testing.T) {
	p := domain.Point{X: 1, Y: 2, Z: 3}.Add(domain.Point{X: 0.5, Y: -2, Z: 10})
	assert.Equal(t, domain.Point{X: 1.5, Y: 0, Z: 13}, p)
	assert.Equal(t, "(1.5, 0, 13)", p.String())
}

func TestLocation_Describe(t *testing.T) {
	assert.Equal(t, "None", domain.Location{}.Describe())
	assert.Equal(t, "3", domain.Location{Labware: domain.Slot("3")}.Describe())

	lw := domain.StaticLabware{Name: "tiprack", Top: 64.5}
	assert.Equal(t, "tiprack", domain.Location{Labware: lw}.Describe())
	assert.Equal(t, 64.5, lw.HighestZ())
}

func TestLifecycleHooks_Merge(t *testing.T) {
	var calls []string
	a := domain.LifecycleHooks{
		OnTransition: func(context.Context, *domain.TransitionEvent) { calls = append(calls, "a") },
	}
	b := domain.LifecycleHooks{
		OnTransition: func(context.Context, *domain.TransitionEvent) { calls = append(calls, "b") },
		OnRejected:   func(context.Context, *domain.TransitionEvent) { calls = append(calls, "b-rejected") },
	}

	merged := a.Merge(b)
	merged.OnTransition(context.Background(), &domain.TransitionEvent{})
	merged.OnRejected(context.Background(), &domain.TransitionEvent{})
	assert.Equal(t, []string{"a", "b", "b-rejected"}, calls)

	assert.Nil(t, merged.OnSessionStart)
	assert.Nil(t, merged.OnSessionEnd)
}
