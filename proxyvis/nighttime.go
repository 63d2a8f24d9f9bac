package proxyvis

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// NighttimeAlgorithm selects one of the four published nighttime regression
// variants.
type NighttimeAlgorithm int

const (
	// NighttimeMainTwoEq is the multi-channel two-regressions algorithm used
	// operationally by the National Weather Service.
	NighttimeMainTwoEq NighttimeAlgorithm = iota
	// NighttimeMainOneEq is the multi-channel single-regression variant.
	NighttimeMainOneEq
	// NighttimeSimpleTwoEq uses only the 3.9 um channel with two regressions.
	NighttimeSimpleTwoEq
	// NighttimeSimpleOneEq uses only the 3.9 um channel with one regression.
	NighttimeSimpleOneEq
)

var nighttimeAlgNames = map[NighttimeAlgorithm]string{
	NighttimeMainTwoEq:   "nighttime_pvis_main_two_eq",
	NighttimeMainOneEq:   "nighttime_pvis_main_one_eq",
	NighttimeSimpleTwoEq: "nighttime_pvis_simple_two_eq",
	NighttimeSimpleOneEq: "nighttime_pvis_simple_one_eq",
}

func (a NighttimeAlgorithm) String() string {
	if s, ok := nighttimeAlgNames[a]; ok {
		return s
	}
	return fmt.Sprintf("NighttimeAlgorithm(%d)", int(a))
}

// ParseNighttimeAlgorithm resolves an operational selector string
// ("nighttime_pvis_main_two_eq" and friends) to its algorithm. Unknown names
// are an error; there is no fallback variant.
func ParseNighttimeAlgorithm(name string) (NighttimeAlgorithm, error) {
	sanitized := strings.ToLower(strings.TrimSpace(name))
	for alg, s := range nighttimeAlgNames {
		if s == sanitized {
			return alg, nil
		}
	}
	return 0, fmt.Errorf("proxyvis: unknown nighttime algorithm %q", name)
}

const (
	// minLogVal floors |c11-c07| before the logarithm to avoid ln(0) and
	// large negative contributions.
	minLogVal = 3e-05
	// lowCloudSplitK is the brightness temperature separating the low-cloud
	// and high-cloud coefficient sets of the two-equation variants.
	lowCloudSplitK = 273.0
)

// mainCoeffs are the coefficients of one multi-channel regression:
//
//	intercept + pow5*c07^5 + logDiff*ln(|c11-c07|) + diffPow*|c13-c15|^0.4
type mainCoeffs struct {
	diffPow   float64
	logDiff   float64
	pow5      float64
	intercept float64
}

// simpleCoeffs are the coefficients of one single-channel regression:
//
//	intercept + pow5*c07^5
type simpleCoeffs struct {
	pow5      float64
	intercept float64
}

// Regression coefficients fitted against daytime visible reflectance
// (Chirokova et al. 2023). "Low" applies where c07 >= lowCloudSplitK, "high"
// below it. Never mutated.
var (
	mainTwoEqLow  = mainCoeffs{-2.26927370e-02, -2.78297171e-02, -3.62361624e-13, 1.01373644e+00}
	mainTwoEqHigh = mainCoeffs{-6.59761768e-02, -1.43734340e-02, -2.73490168e-13, 8.64012688e-01}
	mainOneEq     = mainCoeffs{-3.44571376e-02, -2.50124844e-02, -2.95821592e-13, 8.82291378e-01}

	simpleTwoEqLow  = simpleCoeffs{-3.87681489e-13, 9.92978382e-01}
	simpleTwoEqHigh = simpleCoeffs{-2.99123569e-13, 7.98853747e-01}
	simpleOneEq     = simpleCoeffs{-3.04491517e-13, 8.16054268e-01}
)

// IRChannels carries the brightness-temperature fields, in Kelvin, feeding a
// nighttime regression. C07 is always required; C11, C13, and C15 are only
// read by the main variants and may be nil for the simple ones.
type IRChannels struct {
	C07, C11, C13, C15 *mat.Dense
}

func evalMain(p mainCoeffs, c07, c11, c13, c15 float64) float64 {
	diff := math.Abs(c11 - c07)
	if diff < minLogVal {
		diff = minLogVal
	}
	return p.intercept +
		p.pow5*math.Pow(c07, 5) +
		p.logDiff*math.Log(diff) +
		p.diffPow*math.Pow(math.Abs(c13-c15), 0.4)
}

func evalSimple(p simpleCoeffs, c07 float64) float64 {
	return p.intercept + p.pow5*math.Pow(c07, 5)
}

// ComputeNighttime estimates the nighttime proxy-reflectance field with the
// selected regression variant and normalizes it. It is a pure function of
// the channel fields and coefficient tables; daytime pixels produce invalid
// values that the compositor later discards under the day mask.
//
// It returns the normalized field, the raw regression field before
// normalization (development/diagnostic output), and the normalization bounds
// actually applied: the satellite's saved bounds when useSavedBounds is true,
// the raw field's own full-disk min/max otherwise.
func ComputeNighttime(alg NighttimeAlgorithm, satellite string, ch IRChannels, useSavedBounds bool) (norm, raw *mat.Dense, appliedMin, appliedMax float64, err error) {
	savedMin, savedMax, err := LookupBounds(satellite)
	if err != nil {
		return nil, nil, 0, 0, err
	}
	if err := ch.validate(alg); err != nil {
		return nil, nil, 0, 0, err
	}

	rows, cols := ch.C07.Dims()
	regr := mat.NewDense(rows, cols, nil)

	switch alg {
	case NighttimeMainTwoEq:
		regr.Apply(func(r, c int, _ float64) float64 {
			c07 := ch.C07.At(r, c)
			p := mainTwoEqHigh
			if c07 >= lowCloudSplitK {
				p = mainTwoEqLow
			}
			return evalMain(p, c07, ch.C11.At(r, c), ch.C13.At(r, c), ch.C15.At(r, c))
		}, regr)
	case NighttimeMainOneEq:
		regr.Apply(func(r, c int, _ float64) float64 {
			return evalMain(mainOneEq, ch.C07.At(r, c), ch.C11.At(r, c), ch.C13.At(r, c), ch.C15.At(r, c))
		}, regr)
	case NighttimeSimpleTwoEq:
		regr.Apply(func(r, c int, _ float64) float64 {
			c07 := ch.C07.At(r, c)
			p := simpleTwoEqHigh
			if c07 >= lowCloudSplitK {
				p = simpleTwoEqLow
			}
			return evalSimple(p, c07)
		}, regr)
	case NighttimeSimpleOneEq:
		regr.Apply(func(r, c int, _ float64) float64 {
			return evalSimple(simpleOneEq, ch.C07.At(r, c))
		}, regr)
	default:
		return nil, nil, 0, 0, fmt.Errorf("proxyvis: unknown nighttime algorithm %d", int(alg))
	}

	// Normalize clamps its input; keep the pre-clamp regression field.
	raw = mat.DenseCopyOf(regr)
	norm, appliedMin, appliedMax = Normalize(regr, savedMin, savedMax, useSavedBounds)

	return norm, raw, appliedMin, appliedMax, nil
}

func (ch IRChannels) validate(alg NighttimeAlgorithm) error {
	if ch.C07 == nil {
		return fmt.Errorf("proxyvis: %s requires channel c07", alg)
	}
	rows, cols := ch.C07.Dims()
	if alg == NighttimeMainTwoEq || alg == NighttimeMainOneEq {
		for arg, f := range map[string]*mat.Dense{"c11": ch.C11, "c13": ch.C13, "c15": ch.C15} {
			if f == nil {
				return fmt.Errorf("proxyvis: %s requires channel %s", alg, arg)
			}
			if r, c := f.Dims(); r != rows || c != cols {
				return fmt.Errorf("proxyvis: channel %s is %dx%d but c07 is %dx%d", arg, r, c, rows, cols)
			}
		}
	}
	return nil
}
