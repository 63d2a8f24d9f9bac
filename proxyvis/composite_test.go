package proxyvis

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// sceneFixture builds a tiny full-disk-like scene: a 2x2 IR grid and the
// co-located 4x4 visible grid at four times the resolution, centered near
// lon 0 / the given latitude.
func sceneFixture(baseLat float64) (data ChannelData, geoIR, geoVis GeoGrid) {
	irLons := mat.NewDense(2, 2, []float64{0.000, 0.018, 0.000, 0.018})
	irLats := mat.NewDense(2, 2, []float64{baseLat + 0.018, baseLat + 0.018, baseLat, baseLat})

	visLons := mat.NewDense(4, 4, nil)
	visLats := mat.NewDense(4, 4, nil)
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			visLons.Set(r, c, 0.0045*float64(c))
			visLats.Set(r, c, baseLat+0.0045*float64(3-r))
		}
	}

	data = ChannelData{
		BrightnessTemp: map[string]*mat.Dense{
			"C07": mat.NewDense(2, 2, append([]float64(nil), fixtureChannels["c07"][:4]...)),
			"C11": mat.NewDense(2, 2, append([]float64(nil), fixtureChannels["c11"][:4]...)),
			"C13": mat.NewDense(2, 2, append([]float64(nil), fixtureChannels["c13"][:4]...)),
			"C15": mat.NewDense(2, 2, append([]float64(nil), fixtureChannels["c15"][:4]...)),
		},
		Radiances: map[string]*mat.Dense{
			"C02": mat.NewDense(4, 4, []float64{
				0.10, 0.20, 0.30, 0.40,
				0.50, 0.60, 0.70, 0.80,
				0.90, 1.00, 1.10, 1.20,
				0.15, 0.25, 0.35, 0.45,
			}),
		},
	}
	return data, GeoGrid{Lons: irLons, Lats: irLats}, GeoGrid{Lons: visLons, Lats: visLats}
}

func TestMidScanTime(t *testing.T) {
	start := time.Date(2021, time.July, 5, 2, 0, 0, 0, time.UTC)
	got := midScanTime(start, 10*time.Minute)
	assert.Equal(t, time.Date(2021, time.July, 5, 2, 5, 0, 0, time.UTC), got)
}

func TestGenerateCompositeRejectsBadSelectors(t *testing.T) {
	start := time.Date(2023, time.June, 21, 0, 0, 0, 0, time.UTC)

	// Selector validation happens before any field is touched, so empty
	// channel data must not be reached.
	_, err := GenerateComposite("goes16", start, ChannelData{}, ABIMain, ABIVis,
		GeoGrid{}, GeoGrid{}, 10*time.Minute,
		"nighttime_pvis_main_two_eq", "vis_disp_sza", true, "5km")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "5km")

	_, err = GenerateComposite("goes16", start, ChannelData{}, ABIMain, ABIVis,
		GeoGrid{}, GeoGrid{}, 10*time.Minute,
		"nighttime_pvis_bogus", "vis_disp_sza", true, "both")
	require.Error(t, err)

	_, err = GenerateComposite("goes16", start, ChannelData{}, ABIMain, ABIVis,
		GeoGrid{}, GeoGrid{}, 10*time.Minute,
		"nighttime_pvis_main_two_eq", "vis_bogus", true, "both")
	require.Error(t, err)
}

func TestGenerateCompositeUnknownSatellite(t *testing.T) {
	data, geoIR, geoVis := sceneFixture(20.0)
	start := time.Date(2023, time.June, 21, 0, 0, 0, 0, time.UTC)

	_, err := GenerateComposite("goes99", start, data, ABIMain, ABIVis,
		geoIR, geoVis, 10*time.Minute,
		"nighttime_pvis_main_two_eq", "vis_disp_sza", true, "both")
	require.Error(t, err)
}

func TestGenerateCompositeMissingChannel(t *testing.T) {
	data, geoIR, geoVis := sceneFixture(20.0)
	delete(data.BrightnessTemp, "C11")
	start := time.Date(2023, time.June, 21, 0, 0, 0, 0, time.UTC)

	_, err := GenerateComposite("goes16", start, data, ABIMain, ABIVis,
		geoIR, geoVis, 10*time.Minute,
		"nighttime_pvis_main_two_eq", "vis_disp_sza", true, "both")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "C11")
}

func TestGenerateCompositeNightScene(t *testing.T) {
	// At 00:00 UTC the sun is over the antimeridian, so a grid at lon 0 is
	// entirely on the night side and the composite is the scaled nighttime
	// field everywhere.
	data, geoIR, geoVis := sceneFixture(20.0)
	start := time.Date(2023, time.June, 21, 0, 0, 0, 0, time.UTC)

	out, err := GenerateComposite("goes16", start, data, ABIMain, ABIVis,
		geoIR, geoVis, 10*time.Minute,
		"nighttime_pvis_main_two_eq", "vis_disp_sza", true, OutputResIR)
	require.NoError(t, err)
	require.NotNil(t, out.IR)
	assert.Nil(t, out.Vis)

	assert.Equal(t, 0.0, out.BoundsMin)
	assert.Equal(t, 0.78, out.BoundsMax)

	wantNorm, _, _, _, err := ComputeNighttime(NighttimeMainTwoEq, "goes16", IRChannels{
		C07: mat.NewDense(2, 2, append([]float64(nil), fixtureChannels["c07"][:4]...)),
		C11: mat.NewDense(2, 2, append([]float64(nil), fixtureChannels["c11"][:4]...)),
		C13: mat.NewDense(2, 2, append([]float64(nil), fixtureChannels["c13"][:4]...)),
		C15: mat.NewDense(2, 2, append([]float64(nil), fixtureChannels["c15"][:4]...)),
	}, true)
	require.NoError(t, err)

	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			assert.InDelta(t, 1.3*wantNorm.At(r, c), out.IR.At(r, c), 1e-12)
		}
	}
}

func TestGenerateCompositeDayScene(t *testing.T) {
	// At 12:00 UTC a grid at lon 0 is in full daylight, so the visible
	// resolution composite is the adjusted visible field everywhere.
	data, geoIR, geoVis := sceneFixture(20.0)
	start := time.Date(2023, time.June, 21, 12, 0, 0, 0, time.UTC)
	midScan := start.Add(5 * time.Minute)

	visCopy := mat.DenseCopyOf(data.Radiances["C02"])

	out, err := GenerateComposite("goes16", start, data, ABIMain, ABIVis,
		geoIR, geoVis, 10*time.Minute,
		"nighttime_pvis_main_two_eq", "vis_disp_sza", true, OutputResVis)
	require.NoError(t, err)
	require.NotNil(t, out.Vis)
	assert.Nil(t, out.IR)

	want, _, _, err := ComputeAdjustedVis("goes16", geoVis.Lons, geoVis.Lats, midScan, visCopy)
	require.NoError(t, err)

	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			assert.InDelta(t, want.At(r, c), out.Vis.At(r, c), 1e-12)
		}
	}
}

func TestGenerateCompositeBothResolutions(t *testing.T) {
	data, geoIR, geoVis := sceneFixture(20.0)
	start := time.Date(2023, time.June, 21, 0, 0, 0, 0, time.UTC)

	out, err := GenerateComposite("goes16", start, data, ABIMain, ABIVis,
		geoIR, geoVis, 10*time.Minute,
		"nighttime_pvis_main_two_eq", "vis_disp_sza", true, OutputResBoth)
	require.NoError(t, err)
	require.NotNil(t, out.IR)
	require.NotNil(t, out.Vis)

	r, c := out.IR.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 2, c)
	r, c = out.Vis.Dims()
	assert.Equal(t, 4, r)
	assert.Equal(t, 4, c)
}

func TestGenerateCompositeNoNonFiniteOutput(t *testing.T) {
	data, geoIR, geoVis := sceneFixture(20.0)

	// One bad visible pixel on a day scene exercises the saturation path:
	// the composite never carries NaN out.
	data.Radiances["C02"].Set(1, 1, math.NaN())
	start := time.Date(2023, time.June, 21, 12, 0, 0, 0, time.UTC)

	out, err := GenerateComposite("goes16", start, data, ABIMain, ABIVis,
		geoIR, geoVis, 10*time.Minute,
		"nighttime_pvis_main_two_eq", "vis_disp_sza", true, OutputResVis)
	require.NoError(t, err)

	maxVal := math.Inf(-1)
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			v := out.Vis.At(r, c)
			require.False(t, math.IsNaN(v) || math.IsInf(v, 0))
			if v > maxVal {
				maxVal = v
			}
		}
	}
	assert.Equal(t, maxVal, out.Vis.At(1, 1))
}
