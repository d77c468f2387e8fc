package preset

import (
	"math/rand/v2"
	"testing"

	"github.com/opus-assemble/sonicore/internal/coreerr"
	"github.com/opus-assemble/sonicore/internal/events"
	"github.com/stretchr/testify/require"
)

func TestResolve_ByNameReturnsBaseParams(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	got, err := Resolve(events.PresetSelector{Mode: events.SelectByName, ByName: "Minimoog Bass"}, "", rng)
	require.NoError(t, err)
	require.Equal(t, "Minimoog Bass", got.Name)
	require.Equal(t, 55.0, got.Params.Frequency)
}

func TestResolve_ByNameUnknownIsValidationError(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	_, err := Resolve(events.PresetSelector{Mode: events.SelectByName, ByName: "Nonexistent"}, "", rng)
	require.Error(t, err)
	var verr *coreerr.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestResolve_VariationOverridesFrequency(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	base, err := Resolve(events.PresetSelector{Mode: events.SelectByName, ByName: "Minimoog Bass"}, "", rng)
	require.NoError(t, err)

	sub, err := Resolve(events.PresetSelector{Mode: events.SelectByName, ByName: "Minimoog Bass"}, "sub", rng)
	require.NoError(t, err)

	require.InDelta(t, base.Params.Frequency/2, sub.Params.Frequency, 1e-9)
}

func TestResolve_IsIdempotentForSameInputs(t *testing.T) {
	selector := events.PresetSelector{Mode: events.SelectByName, ByName: "DX Bell Lead"}
	a, err1 := Resolve(selector, "", rand.New(rand.NewPCG(5, 5)))
	b, err2 := Resolve(selector, "", rand.New(rand.NewPCG(9, 9)))
	require.NoError(t, err1)
	require.NoError(t, err2)
	require.Equal(t, a, b, "by_name resolution never consults the rng, so it must be identical regardless of seed")
}

func TestResolve_ByCategoryPicksFromMatchingSet(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	got, err := Resolve(events.PresetSelector{Mode: events.SelectByCategory, ByCategory: events.CategoryDrums}, "", rng)
	require.NoError(t, err)
	require.Equal(t, events.CategoryDrums, mustLookupCategory(t, got.Name))
}

func mustLookupCategory(t *testing.T, name string) events.Category {
	p, ok := Lookup(name)
	require.True(t, ok)
	return p.Category
}

func TestResolve_RandomAlwaysReturnsACatalogEntry(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	got, err := Resolve(events.PresetSelector{Mode: events.SelectRandom}, "", rng)
	require.NoError(t, err)
	_, ok := Lookup(got.Name)
	require.True(t, ok)
}

func TestResolve_UnknownVariationFallsBackToBasePreset(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	base, err := Resolve(events.PresetSelector{Mode: events.SelectByName, ByName: "Minimoog Bass"}, "", rng)
	require.NoError(t, err)

	got, err := Resolve(events.PresetSelector{Mode: events.SelectByName, ByName: "Minimoog Bass"}, "nonexistent-variation", rng)
	require.NoError(t, err)
	require.Equal(t, base, got)
}
