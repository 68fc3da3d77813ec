package geo

import (
	"os"
	"testing"

	"stayscout/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.InitLogger()
	os.Exit(m.Run())
}

func TestResolveExactMatch(t *testing.T) {
	r := NewResolver()

	assert.Equal(t, placeIDs["miami"], r.Resolve("Miami"))
	assert.Equal(t, placeIDs["new york"], r.Resolve("new york"))
	assert.Equal(t, placeIDs["tokyo"], r.Resolve("  Tokyo  "))
}

func TestResolveSubstringMatch(t *testing.T) {
	r := NewResolver()

	// query contains a table entry
	assert.Equal(t, placeIDs["london"], r.Resolve("London Downtown"))
	// table entry contains the query
	assert.Equal(t, placeIDs["san francisco"], r.Resolve("francisco"))
}

func TestResolveSubstringMatchIsDeterministic(t *testing.T) {
	r := NewResolver()

	first := r.Resolve("an")
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, r.Resolve("an"))
	}
}

func TestResolveAbbreviations(t *testing.T) {
	r := NewResolver()

	assert.Equal(t, placeIDs["new york"], r.Resolve("NYC"))
	assert.Equal(t, placeIDs["san francisco"], r.Resolve("sf"))
}

func TestResolveFallsBackToDefault(t *testing.T) {
	r := NewResolver()

	assert.Equal(t, DefaultAreaID, r.Resolve("Atlantis"))
	assert.Equal(t, DefaultAreaID, r.Resolve(""))
	assert.Equal(t, DefaultAreaID, r.Resolve("!@#$%"))
}

func TestSupportedLocations(t *testing.T) {
	r := NewResolver()

	locations := r.SupportedLocations()
	require.Len(t, locations, len(placeIDs))
	assert.Contains(t, locations, "San Francisco")
	assert.Contains(t, locations, "Hong Kong")
	// stable order across calls
	assert.Equal(t, locations, r.SupportedLocations())
}
