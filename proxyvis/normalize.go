package proxyvis

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// gammaCorrection matches the nighttime product's dynamic range to the
// daytime visible channel. See Chirokova et al. 2023.
const gammaCorrection = 1.0 / 1.5

// Normalize rescales a raw regression field into [0, 1] and applies the fixed
// gamma correction. With useSaved true the given savedMin/savedMax become the
// rescaling bounds; otherwise the bounds are the field's own NaN-ignoring
// minimum and maximum, which is only valid for full-disk input.
//
// Negative raw values (3.9 um channel noise, a handful of pixels per full
// disk) are clamped to zero IN PLACE before the bounds are taken and forced
// to zero in the output. NaN pixels in the rescaled field are forced to the
// applied maximum so they do not show up as black dots. A degenerate field
// with appliedMax == appliedMin divides by zero; the resulting Inf values are
// surfaced unchanged as the signature of a scene unsuitable for dynamic
// normalization.
func Normalize(raw *mat.Dense, savedMin, savedMax float64, useSaved bool) (norm *mat.Dense, appliedMin, appliedMax float64) {
	rows, cols := raw.Dims()

	clamped := make([]bool, rows*cols)
	raw.Apply(func(r, c int, v float64) float64 {
		if v < 0 {
			clamped[r*cols+c] = true
			return 0
		}
		return v
	}, raw)

	if useSaved {
		appliedMin, appliedMax = savedMin, savedMax
	} else {
		appliedMin, appliedMax = nanMinMax(raw)
	}
	spread := appliedMax - appliedMin

	norm = mat.NewDense(rows, cols, nil)
	norm.Apply(func(r, c int, _ float64) float64 {
		v := (raw.At(r, c) - appliedMin) / spread
		if clamped[r*cols+c] {
			v = 0
		}
		if math.IsNaN(v) {
			v = appliedMax
		}
		return math.Pow(v, gammaCorrection)
	}, norm)

	return norm, appliedMin, appliedMax
}

// nanMinMax returns the minimum and maximum of m ignoring NaN values.
// Both results are NaN when the field holds no finite values.
func nanMinMax(m *mat.Dense) (min, max float64) {
	min, max = math.NaN(), math.NaN()
	raw := m.RawMatrix()
	for r := 0; r < raw.Rows; r++ {
		row := raw.Data[r*raw.Stride : r*raw.Stride+raw.Cols]
		for _, v := range row {
			if math.IsNaN(v) {
				continue
			}
			if math.IsNaN(min) || v < min {
				min = v
			}
			if math.IsNaN(max) || v > max {
				max = v
			}
		}
	}
	return min, max
}
