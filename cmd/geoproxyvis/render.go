package main

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	_ "gonum.org/v1/plot/font/liberation"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	vgdraw "gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/meteolab/geoproxyvis/proxyvis"
)

// CompositeToImage renders a composite field to an 8-bit grayscale image.
// Values are scaled from [0, 1.3] to [0, 255]. Pixels whose longitude is
// non-finite are off the earth disk and come out fully transparent.
func CompositeToImage(field, lons *mat.Dense) *image.NRGBA {
	rows, cols := field.Dims()
	img := image.NewNRGBA(image.Rect(0, 0, cols, rows))

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			lon := lons.At(r, c)
			if math.IsNaN(lon) || math.IsInf(lon, 0) {
				img.SetNRGBA(c, r, color.NRGBA{})
				continue
			}

			t := field.At(r, c) / proxyvis.VisScalingFactor
			if t < 0 {
				t = 0
			} else if t > 1 {
				t = 1
			}
			gray := uint8(math.Round(t * 255.0))
			img.SetNRGBA(c, r, color.NRGBA{R: gray, G: gray, B: gray, A: 255})
		}
	}
	return img
}

func SaveImagePNG(filename string, img image.Image) (err error) {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return png.Encode(f, img)
}

// StepTicks is a custom tick marker for plots with fixed step intervals.
type StepTicks struct {
	Step   float64
	Format string
}

func (t StepTicks) Ticks(min, max float64) []plot.Tick {
	var ticks []plot.Tick
	start := math.Ceil(min/t.Step) * t.Step
	for v := start; v <= max; v += t.Step {
		ticks = append(ticks, plot.Tick{
			Value: v,
			Label: fmt.Sprintf(t.Format, v),
		})
	}
	return ticks
}

// PlotTerminatorProfile plots one grid row of the composite against
// longitude. A row that crosses the terminator shows the blend seam between
// the scaled nighttime field and the adjusted visible field.
func PlotTerminatorProfile(field, lons *mat.Dense, row int, title string, wPx, hPx float64) (image.Image, error) {
	rows, cols := field.Dims()
	if row < 0 || row >= rows {
		return nil, fmt.Errorf("profile row %d out of range [0, %d)", row, rows)
	}

	p := plot.New()

	p.Y.Min = -0.1
	p.Y.Max = 1.4

	p.Title.TextStyle.Font.Typeface = "Liberation"
	p.Title.TextStyle.Font.Variant = "Sans"
	p.Title.TextStyle.Font.Size = vg.Points(12)

	p.X.Label.TextStyle.Font.Typeface = "Liberation"
	p.X.Label.TextStyle.Font.Variant = "Sans"
	p.X.Label.TextStyle.Font.Size = vg.Points(12)

	p.Y.Label.TextStyle.Font.Typeface = "Liberation"
	p.Y.Label.TextStyle.Font.Variant = "Sans"
	p.Y.Label.TextStyle.Font.Size = vg.Points(12)

	p.X.Tick.Label.Font.Typeface = "Liberation"
	p.X.Tick.Label.Font.Variant = "Sans"
	p.X.Tick.Label.Font.Size = vg.Points(10)

	p.Y.Tick.Label.Font.Typeface = "Liberation"
	p.Y.Tick.Label.Font.Variant = "Sans"
	p.Y.Tick.Label.Font.Size = vg.Points(10)

	p.Title.Text = title
	p.X.Label.Text = "longitude (degrees east)"
	p.Y.Label.Text = "proxy albedo"
	p.X.Tick.Marker = StepTicks{Step: 10.0, Format: "%.0f"}
	p.Y.Tick.Marker = StepTicks{Step: 0.2, Format: "%.2f"}
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, 0, cols)
	for c := 0; c < cols; c++ {
		lon := lons.At(row, c)
		if math.IsNaN(lon) || math.IsInf(lon, 0) {
			continue // off disk
		}
		pts = append(pts, plotter.XY{X: lon, Y: field.At(row, c)})
	}
	if len(pts) == 0 {
		return nil, fmt.Errorf("profile row %d is entirely off the earth disk", row)
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	line.Color = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	p.Add(line)

	const dpi = 96
	width := vg.Length(wPx) * vg.Inch / dpi
	height := vg.Length(hPx) * vg.Inch / dpi

	c := vgimg.New(width, height)
	dc := vgdraw.New(c)
	p.Draw(dc)

	return c.Image(), nil
}
