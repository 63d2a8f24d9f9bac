package regrid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func smallGrid() (lons, lats, vals *mat.Dense) {
	lons = mat.NewDense(2, 2, []float64{0.00, 0.02, 0.00, 0.02})
	lats = mat.NewDense(2, 2, []float64{0.02, 0.02, 0.00, 0.00})
	vals = mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	return lons, lats, vals
}

func TestResampleNearestIdentity(t *testing.T) {
	lons, lats, vals := smallGrid()

	out, err := ResampleNearest(lons, lats, vals, lons, lats, DefaultOptions())
	require.NoError(t, err)

	rows, cols := out.Dims()
	require.Equal(t, 2, rows)
	require.Equal(t, 2, cols)
	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			assert.Equal(t, vals.At(r, c), out.At(r, c))
		}
	}
}

func TestResampleNearestPicksClosest(t *testing.T) {
	lons, lats, vals := smallGrid()

	// A target point slightly offset from the top-right source pixel.
	dstLons := mat.NewDense(1, 1, []float64{0.021})
	dstLats := mat.NewDense(1, 1, []float64{0.019})

	out, err := ResampleNearest(lons, lats, vals, dstLons, dstLats, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 2.0, out.At(0, 0))
}

func TestResampleNearestOutsideRadius(t *testing.T) {
	lons, lats, vals := smallGrid()

	// One degree is roughly 111 km, far beyond the 10 km default radius.
	dstLons := mat.NewDense(1, 1, []float64{1.0})
	dstLats := mat.NewDense(1, 1, []float64{1.0})

	out, err := ResampleNearest(lons, lats, vals, dstLons, dstLats, DefaultOptions())
	require.NoError(t, err)
	assert.True(t, math.IsNaN(out.At(0, 0)))

	// A wider radius of influence reaches the grid.
	opts := DefaultOptions()
	opts.RadiusOfInfluenceM = 200e3
	out, err = ResampleNearest(lons, lats, vals, dstLons, dstLats, opts)
	require.NoError(t, err)
	assert.False(t, math.IsNaN(out.At(0, 0)))
}

func TestResampleNearestCustomFillValue(t *testing.T) {
	lons, lats, vals := smallGrid()

	dstLons := mat.NewDense(1, 1, []float64{1.0})
	dstLats := mat.NewDense(1, 1, []float64{1.0})

	opts := DefaultOptions()
	opts.FillValue = -999.0

	out, err := ResampleNearest(lons, lats, vals, dstLons, dstLats, opts)
	require.NoError(t, err)
	assert.Equal(t, -999.0, out.At(0, 0))
}

func TestResampleNearestNaNTargetCoords(t *testing.T) {
	lons, lats, vals := smallGrid()

	dstLons := mat.NewDense(1, 2, []float64{math.NaN(), 0.0})
	dstLats := mat.NewDense(1, 2, []float64{0.0, 0.0})

	out, err := ResampleNearest(lons, lats, vals, dstLons, dstLats, DefaultOptions())
	require.NoError(t, err)
	assert.True(t, math.IsNaN(out.At(0, 0)))
	assert.Equal(t, 3.0, out.At(0, 1))
}

func TestResampleNearestSkipsNaNSourceCoords(t *testing.T) {
	lons := mat.NewDense(1, 2, []float64{math.NaN(), 0.02})
	lats := mat.NewDense(1, 2, []float64{0.0, 0.0})
	vals := mat.NewDense(1, 2, []float64{7, 8})

	// The nearest source by value would be the first pixel, but its
	// coordinates are off disk so only the second can be matched.
	dstLons := mat.NewDense(1, 1, []float64{0.02})
	dstLats := mat.NewDense(1, 1, []float64{0.0})

	out, err := ResampleNearest(lons, lats, vals, dstLons, dstLats, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 8.0, out.At(0, 0))
}

func TestResampleNearestAllSourcesInvalid(t *testing.T) {
	lons := mat.NewDense(1, 1, []float64{math.NaN()})
	lats := mat.NewDense(1, 1, []float64{math.NaN()})
	vals := mat.NewDense(1, 1, []float64{7})

	dstLons := mat.NewDense(1, 1, []float64{0.0})
	dstLats := mat.NewDense(1, 1, []float64{0.0})

	out, err := ResampleNearest(lons, lats, vals, dstLons, dstLats, DefaultOptions())
	require.NoError(t, err)
	assert.True(t, math.IsNaN(out.At(0, 0)))
}

func TestResampleNearestShapeMismatch(t *testing.T) {
	lons, lats, vals := smallGrid()

	badVals := mat.NewDense(1, 2, []float64{1, 2})
	_, err := ResampleNearest(lons, lats, badVals, lons, lats, DefaultOptions())
	require.Error(t, err)

	badDstLats := mat.NewDense(1, 1, []float64{0})
	_, err = ResampleNearest(lons, lats, vals, lons, badDstLats, DefaultOptions())
	require.Error(t, err)
}

func TestResampleNearestOutputShape(t *testing.T) {
	lons, lats, vals := smallGrid()

	dstLons := mat.NewDense(3, 5, make([]float64, 15))
	dstLats := mat.NewDense(3, 5, make([]float64, 15))

	out, err := ResampleNearest(lons, lats, vals, dstLons, dstLats, DefaultOptions())
	require.NoError(t, err)

	rows, cols := out.Dims()
	assert.Equal(t, 3, rows)
	assert.Equal(t, 5, cols)
}
