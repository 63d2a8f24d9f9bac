package main

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"gonum.org/v1/gonum/mat"

	"github.com/meteolab/geoproxyvis/proxyvis"
)

// readRawGrid loads a row-major little-endian float32 file into a float64
// matrix. The file length must match the declared grid shape exactly.
func readRawGrid(path string, rows, cols int) (*mat.Dense, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	want := rows * cols * 4
	if len(data) != want {
		return nil, fmt.Errorf("%s: file is %d bytes, want %d for a %dx%d float32 grid",
			path, len(data), want, rows, cols)
	}

	vals := make([]float64, rows*cols)
	for i := range vals {
		bits := binary.LittleEndian.Uint32(data[4*i:])
		vals[i] = float64(math.Float32frombits(bits))
	}
	return mat.NewDense(rows, cols, vals), nil
}

func loadGeoGrid(grid GridConfig) (proxyvis.GeoGrid, error) {
	lons, err := readRawGrid(grid.LonsPath, grid.Rows, grid.Cols)
	if err != nil {
		return proxyvis.GeoGrid{}, err
	}
	lats, err := readRawGrid(grid.LatsPath, grid.Rows, grid.Cols)
	if err != nil {
		return proxyvis.GeoGrid{}, err
	}
	return proxyvis.GeoGrid{Lons: lons, Lats: lats}, nil
}

// loadChannelData loads every channel file named in the scene's two grids:
// the IR grid's channels as brightness temperatures, the visible grid's as
// radiances.
func loadChannelData(scene *SceneConfig) (proxyvis.ChannelData, error) {
	data := proxyvis.ChannelData{
		BrightnessTemp: make(map[string]*mat.Dense, len(scene.IRGrid.ChannelPaths)),
		Radiances:      make(map[string]*mat.Dense, len(scene.VisGrid.ChannelPaths)),
	}

	for name, path := range scene.IRGrid.ChannelPaths {
		field, err := readRawGrid(path, scene.IRGrid.Rows, scene.IRGrid.Cols)
		if err != nil {
			return proxyvis.ChannelData{}, fmt.Errorf("channel %s: %w", name, err)
		}
		data.BrightnessTemp[name] = field
	}

	for name, path := range scene.VisGrid.ChannelPaths {
		field, err := readRawGrid(path, scene.VisGrid.Rows, scene.VisGrid.Cols)
		if err != nil {
			return proxyvis.ChannelData{}, fmt.Errorf("channel %s: %w", name, err)
		}
		data.Radiances[name] = field
	}

	return data, nil
}
