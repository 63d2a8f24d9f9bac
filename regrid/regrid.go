// Package regrid resamples 2D fields between geodetic grids using
// nearest-neighbor lookup over a k-d tree of Earth-centered coordinates.
package regrid

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/kdtree"
)

// earthRadiusM is the spherical Earth radius used to place grid pixels in
// Cartesian space before the nearest-neighbor search.
const earthRadiusM = 6370997.0

// DefaultRadiusOfInfluenceM caps how far, in meters, a destination pixel may
// be from its nearest source pixel before it is considered uncovered.
const DefaultRadiusOfInfluenceM = 10000.0

// Options control the nearest-neighbor resampling.
type Options struct {
	// RadiusOfInfluenceM is the maximum source-to-destination distance in
	// meters. Destination pixels with no source pixel within this radius
	// receive FillValue.
	RadiusOfInfluenceM float64
	// FillValue is written to uncovered destination pixels.
	FillValue float64
	// Epsilon is the tolerance allowed in the nearest-neighbor distance
	// search: a returned neighbor may be up to (1+Epsilon) times farther than
	// the true nearest. It trades accuracy for speed and does not affect
	// correctness under normal radii. The tree search used here is exact,
	// which satisfies any non-negative Epsilon.
	Epsilon float64
}

// DefaultOptions returns the standard resampling options: a 10 km radius of
// influence and NaN fill.
func DefaultOptions() Options {
	return Options{
		RadiusOfInfluenceM: DefaultRadiusOfInfluenceM,
		FillValue:          math.NaN(),
		Epsilon:            0.5,
	}
}

// gridPoint is one source pixel placed on the Earth sphere, carrying its flat
// index back into the source field.
type gridPoint struct {
	xyz [3]float64
	idx int
}

func (p gridPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(gridPoint)
	return p.xyz[d] - q.xyz[d]
}

func (p gridPoint) Dims() int { return 3 }

// Distance returns the squared Euclidean (chord) distance between two points.
func (p gridPoint) Distance(c kdtree.Comparable) float64 {
	q := c.(gridPoint)
	dx := p.xyz[0] - q.xyz[0]
	dy := p.xyz[1] - q.xyz[1]
	dz := p.xyz[2] - q.xyz[2]
	return dx*dx + dy*dy + dz*dz
}

// gridPoints implements kdtree.Interface for a slice of gridPoint.
type gridPoints []gridPoint

func (p gridPoints) Index(i int) kdtree.Comparable { return p[i] }
func (p gridPoints) Len() int                      { return len(p) }
func (p gridPoints) Pivot(d kdtree.Dim) int        { return plane{gridPoints: p, Dim: d}.Pivot() }
func (p gridPoints) Slice(start, end int) kdtree.Interface {
	return p[start:end]
}

// plane is a gridPoints ordering along a single dimension, used while the
// tree is built.
type plane struct {
	kdtree.Dim
	gridPoints
}

func (p plane) Less(i, j int) bool {
	return p.gridPoints[i].xyz[p.Dim] < p.gridPoints[j].xyz[p.Dim]
}
func (p plane) Pivot() int {
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}
func (p plane) Slice(start, end int) kdtree.SortSlicer {
	p.gridPoints = p.gridPoints[start:end]
	return p
}
func (p plane) Swap(i, j int) {
	p.gridPoints[i], p.gridPoints[j] = p.gridPoints[j], p.gridPoints[i]
}

// lonLatToXYZ places a geodetic coordinate on the Earth sphere.
func lonLatToXYZ(lonDeg, latDeg float64) [3]float64 {
	lon := lonDeg * math.Pi / 180.0
	lat := latDeg * math.Pi / 180.0
	cosLat := math.Cos(lat)
	return [3]float64{
		earthRadiusM * cosLat * math.Cos(lon),
		earthRadiusM * cosLat * math.Sin(lon),
		earthRadiusM * math.Sin(lat),
	}
}

// ResampleNearest resamples src, defined on the srcLons/srcLats grid, onto
// the dstLons/dstLats grid by nearest-neighbor lookup. Source pixels with
// non-finite coordinates are excluded from the search; destination pixels
// with non-finite coordinates, or with no source pixel within the radius of
// influence, receive opts.FillValue. The returned field has the destination
// grid's shape.
func ResampleNearest(srcLons, srcLats, src, dstLons, dstLats *mat.Dense, opts Options) (*mat.Dense, error) {
	srcRows, srcCols := srcLons.Dims()
	if r, c := srcLats.Dims(); r != srcRows || c != srcCols {
		return nil, fmt.Errorf("regrid: source lon grid is %dx%d but lat grid is %dx%d", srcRows, srcCols, r, c)
	}
	if r, c := src.Dims(); r != srcRows || c != srcCols {
		return nil, fmt.Errorf("regrid: source field is %dx%d but its geo grid is %dx%d", r, c, srcRows, srcCols)
	}
	dstRows, dstCols := dstLons.Dims()
	if r, c := dstLats.Dims(); r != dstRows || c != dstCols {
		return nil, fmt.Errorf("regrid: destination lon grid is %dx%d but lat grid is %dx%d", dstRows, dstCols, r, c)
	}

	pts := make(gridPoints, 0, srcRows*srcCols)
	for r := 0; r < srcRows; r++ {
		for c := 0; c < srcCols; c++ {
			lon := srcLons.At(r, c)
			lat := srcLats.At(r, c)
			if math.IsNaN(lon) || math.IsInf(lon, 0) || math.IsNaN(lat) || math.IsInf(lat, 0) {
				continue
			}
			pts = append(pts, gridPoint{xyz: lonLatToXYZ(lon, lat), idx: r*srcCols + c})
		}
	}

	dst := mat.NewDense(dstRows, dstCols, nil)
	if len(pts) == 0 {
		dst.Apply(func(_, _ int, _ float64) float64 { return opts.FillValue }, dst)
		return dst, nil
	}

	tree := kdtree.New(pts, false)
	maxDistSq := opts.RadiusOfInfluenceM * opts.RadiusOfInfluenceM

	dst.Apply(func(r, c int, _ float64) float64 {
		lon := dstLons.At(r, c)
		lat := dstLats.At(r, c)
		if math.IsNaN(lon) || math.IsInf(lon, 0) || math.IsNaN(lat) || math.IsInf(lat, 0) {
			return opts.FillValue
		}
		got, distSq := tree.Nearest(gridPoint{xyz: lonLatToXYZ(lon, lat), idx: -1})
		if got == nil || distSq > maxDistSq {
			return opts.FillValue
		}
		idx := got.(gridPoint).idx
		return src.At(idx/srcCols, idx%srcCols)
	}, dst)

	return dst, nil
}
