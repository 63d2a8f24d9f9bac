package proxyvis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupBounds(t *testing.T) {
	cases := []struct {
		satellite string
		max       float64
	}{
		{"goes16", 0.78},
		{"goes17", 0.84},
		{"goes18", 0.84},
		{"himawari8", 0.79},
		{"himawari9", 0.79},
		{"meteosat-9", 0.78},
		{"meteosat-10", 0.78},
		{"meteosat-11", 0.78},
	}
	for _, tc := range cases {
		min, max, err := LookupBounds(tc.satellite)
		require.NoError(t, err, tc.satellite)
		assert.Equal(t, 0.0, min, tc.satellite)
		assert.Equal(t, tc.max, max, tc.satellite)
	}
}

func TestLookupBoundsSanitizesName(t *testing.T) {
	min, max, err := LookupBounds("  GOES16 ")
	require.NoError(t, err)
	assert.Equal(t, 0.0, min)
	assert.Equal(t, 0.78, max)
}

func TestLookupBoundsUnknownSatellite(t *testing.T) {
	_, _, err := LookupBounds("goes99")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "goes99")
}
