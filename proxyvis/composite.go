package proxyvis

import (
	"fmt"
	"math"
	"strings"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/meteolab/geoproxyvis/regrid"
	"github.com/meteolab/geoproxyvis/solar"
)

// Output resolution selector keywords.
const (
	OutputResIR   = "2.0km"
	OutputResVis  = "0.5km"
	OutputResBoth = "both"
)

const (
	// SZAThreshold separates the day and night halves of the composite.
	// 89 degrees instead of 90 keeps the daytime cosine division away from
	// its singularity at the terminator.
	SZAThreshold = 89.0
	// VisScalingFactor maps the normalized nighttime field from [0, 1] onto
	// the visible channel's native [0, 1.3] range before blending.
	VisScalingFactor = 1.3
)

// GeoGrid is a pair of longitude/latitude grids, degrees east/north, at one
// sensor resolution. Off-disk pixels are non-finite. The IR and visible grids
// of a scene have different shapes and are never assumed co-located.
type GeoGrid struct {
	Lons, Lats *mat.Dense
}

// ChannelData is one scene's calibrated channel fields keyed by the
// instrument's native channel names: brightness temperatures (Kelvin) for the
// IR channels and reflectance radiances for the visible channel. Every field
// must share its resolution's geo-grid shape.
type ChannelData struct {
	BrightnessTemp map[string]*mat.Dense
	Radiances      map[string]*mat.Dense
}

// Composite is the blended day/night output. Vis and IR are nil unless the
// corresponding resolution was requested. Values are conceptually in
// [0, 1.3]; off-disk pixels are resolved to the field's own maximum, so
// callers needing off-disk transparency must mask on the geo grid's
// finiteness themselves. BoundsMin/BoundsMax are the nighttime normalization
// bounds actually applied (the daytime bounds are not surfaced).
type Composite struct {
	Vis *mat.Dense
	IR  *mat.Dense

	BoundsMin, BoundsMax float64
}

// GenerateComposite builds the combined day/night proxy-visible image for one
// full-disk scene.
//
// startTime is the scan start; the solar zenith angle is evaluated at
// startTime + scanDuration/2, since a full-disk scan spans minutes and the
// start stamp does not represent the whole disk's illumination. The channel
// maps translate native channel names to the regression arguments (see
// ABIMain and friends). nighttimeAlg, daytimeAlg, and outputRes are the
// operational selector strings; they are validated before any array work
// begins. The visible input field is clamped in place (see
// ComputeAdjustedVis).
func GenerateComposite(
	satellite string,
	startTime time.Time,
	data ChannelData,
	pvisChannelMap map[string]string,
	visChannelMap map[string]string,
	geoIR GeoGrid,
	geoVis GeoGrid,
	scanDuration time.Duration,
	nighttimeAlg string,
	daytimeAlg string,
	useSavedBounds bool,
	outputRes string,
) (Composite, error) {
	wantVis, wantIR, err := parseOutputRes(outputRes)
	if err != nil {
		return Composite{}, err
	}
	nAlg, err := ParseNighttimeAlgorithm(nighttimeAlg)
	if err != nil {
		return Composite{}, err
	}
	if _, err := ParseDaytimeAlgorithm(daytimeAlg); err != nil {
		return Composite{}, err
	}

	midScan := midScanTime(startTime, scanDuration)

	// Both products are always computed once at their native resolutions:
	// each is the regridding source for the other's output.
	ch, err := irChannelsFromData(data, pvisChannelMap)
	if err != nil {
		return Composite{}, err
	}
	if err := checkGridShape("IR", ch.C07, geoIR); err != nil {
		return Composite{}, err
	}
	pvisIR, _, pvisMin, pvisMax, err := ComputeNighttime(nAlg, satellite, ch, useSavedBounds)
	if err != nil {
		return Composite{}, err
	}

	vis, err := visChannelFromData(data, visChannelMap)
	if err != nil {
		return Composite{}, err
	}
	if err := checkGridShape("visible", vis, geoVis); err != nil {
		return Composite{}, err
	}
	visDisp, _, _, err := ComputeAdjustedVis(satellite, geoVis.Lons, geoVis.Lats, midScan, vis)
	if err != nil {
		return Composite{}, err
	}

	out := Composite{BoundsMin: pvisMin, BoundsMax: pvisMax}

	if wantVis {
		pvisVis, err := regrid.ResampleNearest(geoIR.Lons, geoIR.Lats, pvisIR, geoVis.Lons, geoVis.Lats, regrid.DefaultOptions())
		if err != nil {
			return Composite{}, err
		}
		out.Vis = applyDayNightMask(pvisVis, visDisp, midScan, geoVis)
	}

	if wantIR {
		visDispIR, err := regrid.ResampleNearest(geoVis.Lons, geoVis.Lats, visDisp, geoIR.Lons, geoIR.Lats, regrid.DefaultOptions())
		if err != nil {
			return Composite{}, err
		}
		out.IR = applyDayNightMask(pvisIR, visDispIR, midScan, geoIR)
	}

	return out, nil
}

// midScanTime is the timestamp the solar geometry is evaluated at.
func midScanTime(start time.Time, scanDuration time.Duration) time.Time {
	return start.Add(scanDuration / 2)
}

func parseOutputRes(outputRes string) (wantVis, wantIR bool, err error) {
	switch strings.ToLower(strings.TrimSpace(outputRes)) {
	case OutputResVis:
		return true, false, nil
	case OutputResIR:
		return false, true, nil
	case OutputResBoth:
		return true, true, nil
	default:
		return false, false, fmt.Errorf("proxyvis: output resolution %q is not one of %q, %q, %q",
			outputRes, OutputResIR, OutputResVis, OutputResBoth)
	}
}

// applyDayNightMask blends the nighttime and daytime fields, both already at
// the resolution of geo, into one image: night pixels take the scaled proxy
// field, day pixels the adjusted visible field. Pixels matched by neither
// mask (off-disk, NaN under a mask, or the exact threshold seam on the night
// side) saturate to the composite's own maximum finite value rather than
// staying NaN.
func applyDayNightMask(pvis, visDisp *mat.Dense, midScan time.Time, geo GeoGrid) *mat.Dense {
	sza := solar.ComputeSZA(midScan, geo.Lons, geo.Lats)
	dayMask := solar.MaskFromSZA(mat.DenseCopyOf(sza), true, SZAThreshold)
	nightMask := solar.MaskFromSZA(sza, false, SZAThreshold) // consumes sza

	rows, cols := pvis.Dims()
	combined := mat.NewDense(rows, cols, nil)
	combined.Apply(func(r, c int, _ float64) float64 {
		if !math.IsNaN(nightMask.At(r, c)) {
			return VisScalingFactor * pvis.At(r, c)
		}
		if !math.IsNaN(dayMask.At(r, c)) {
			return visDisp.At(r, c)
		}
		return math.NaN()
	}, combined)

	_, maxVal := nanMinMax(combined)
	combined.Apply(func(_, _ int, v float64) float64 {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return maxVal
		}
		return v
	}, combined)

	return combined
}

// irChannelsFromData resolves the brightness-temperature fields named by the
// channel map into regression arguments. Missing channels or unknown argument
// names are errors; whether the variant's required set is present is checked
// by ComputeNighttime.
func irChannelsFromData(data ChannelData, channelMap map[string]string) (IRChannels, error) {
	var ch IRChannels
	for native, arg := range channelMap {
		field, ok := data.BrightnessTemp[native]
		if !ok {
			return IRChannels{}, fmt.Errorf("proxyvis: brightness-temperature channel %q not present in input data", native)
		}
		switch arg {
		case "c07":
			ch.C07 = field
		case "c11":
			ch.C11 = field
		case "c13":
			ch.C13 = field
		case "c15":
			ch.C15 = field
		default:
			return IRChannels{}, fmt.Errorf("proxyvis: channel map names unknown regression argument %q", arg)
		}
	}
	return ch, nil
}

// visChannelFromData resolves the single visible channel named by the map.
func visChannelFromData(data ChannelData, channelMap map[string]string) (*mat.Dense, error) {
	for native, arg := range channelMap {
		if arg != "c02" {
			return nil, fmt.Errorf("proxyvis: visible channel map names unknown argument %q", arg)
		}
		field, ok := data.Radiances[native]
		if !ok {
			return nil, fmt.Errorf("proxyvis: radiance channel %q not present in input data", native)
		}
		return field, nil
	}
	return nil, fmt.Errorf("proxyvis: visible channel map is empty")
}

func checkGridShape(what string, field *mat.Dense, geo GeoGrid) error {
	rows, cols := field.Dims()
	if r, c := geo.Lons.Dims(); r != rows || c != cols {
		return fmt.Errorf("proxyvis: %s field is %dx%d but its geo grid is %dx%d", what, rows, cols, r, c)
	}
	if r, c := geo.Lats.Dims(); r != rows || c != cols {
		return fmt.Errorf("proxyvis: %s lat grid is %dx%d, want %dx%d", what, r, c, rows, cols)
	}
	return nil
}
