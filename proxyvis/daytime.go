package proxyvis

import (
	"fmt"
	"math"
	"strings"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/meteolab/geoproxyvis/solar"
)

// DaytimeAlgorithm selects the daytime visible adjustment. Only one variant
// exists today, but the selector keeps the calling convention symmetric with
// the nighttime side.
type DaytimeAlgorithm int

// DaytimeVisDispSZA normalizes the visible channel by the cosine of the solar
// zenith angle.
const DaytimeVisDispSZA DaytimeAlgorithm = iota

func (a DaytimeAlgorithm) String() string {
	if a == DaytimeVisDispSZA {
		return "vis_disp_sza"
	}
	return fmt.Sprintf("DaytimeAlgorithm(%d)", int(a))
}

// ParseDaytimeAlgorithm resolves the operational selector string for the
// daytime adjustment. Unknown names are an error.
func ParseDaytimeAlgorithm(name string) (DaytimeAlgorithm, error) {
	if strings.ToLower(strings.TrimSpace(name)) == "vis_disp_sza" {
		return DaytimeVisDispSZA, nil
	}
	return 0, fmt.Errorf("proxyvis: unknown daytime algorithm %q", name)
}

// Valid range of visible reflectance values.
const (
	visValidMin = 0.0
	visValidMax = 1.3
)

// ComputeAdjustedVis transforms the visible channel (0.64 um, C02 on GOES-16)
// into the daytime portion of the composite: reflectance divided by the
// cosine of the solar zenith angle, then square-rooted to match the nighttime
// product's contrast. The adjustment is valid up to the terminator; beyond it
// the cosine goes to zero or negative and the values become NaN or unstable,
// to be discarded by the day mask rather than corrected here.
//
// vis is clamped to [0, 1.3] IN PLACE where finite; NaN pixels pass through.
// The satellite name is accepted for symmetry with the nighttime algorithms;
// the adjustment itself is satellite-independent. The returned bounds are the
// min/max of the clamped input reflectance (informational only), not of the
// adjusted output. t must be the scan midpoint, not the scan start.
func ComputeAdjustedVis(satellite string, lons, lats *mat.Dense, t time.Time, vis *mat.Dense) (adjusted *mat.Dense, visMin, visMax float64, err error) {
	_ = satellite

	rows, cols := vis.Dims()
	if r, c := lons.Dims(); r != rows || c != cols {
		return nil, 0, 0, fmt.Errorf("proxyvis: visible field is %dx%d but its geo grid is %dx%d", rows, cols, r, c)
	}
	if r, c := lats.Dims(); r != rows || c != cols {
		return nil, 0, 0, fmt.Errorf("proxyvis: visible field is %dx%d but its lat grid is %dx%d", rows, cols, r, c)
	}

	vis.Apply(func(_, _ int, v float64) float64 {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return v // clamp applies only to finite values
		}
		if v > visValidMax {
			return visValidMax
		}
		if v < visValidMin {
			return visValidMin
		}
		return v
	}, vis)

	sza := solar.ComputeSZA(t, lons, lats)

	adjusted = mat.NewDense(rows, cols, nil)
	adjusted.Apply(func(r, c int, _ float64) float64 {
		cosZen := math.Cos(sza.At(r, c) * math.Pi / 180.0)
		return math.Sqrt(vis.At(r, c) / cosZen)
	}, adjusted)

	visMin, visMax = nanMinMax(vis)
	return adjusted, visMin, visMax, nil
}
