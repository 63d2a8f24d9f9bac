package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	json "github.com/KevinWang15/go-json5"

	"github.com/meteolab/geoproxyvis/proxyvis"
)

// GridConfig describes one resolution of the scene: grid shape, the raw
// lon/lat files, and the per-channel field files. All files hold row-major
// little-endian float32 values, rows*cols of them.
type GridConfig struct {
	Rows, Cols   int
	LonsPath     string
	LatsPath     string
	ChannelPaths map[string]string // native channel name -> field file
}

// SceneConfig is one full-disk scene to process, read from a JSON5 file.
type SceneConfig struct {
	Satellite  string
	Instrument string // "abi", "ahi" or "seviri"

	ScanStart    time.Time
	ScanDuration time.Duration

	NighttimeAlgorithm string
	DaytimeAlgorithm   string
	UseSavedBounds     bool
	OutputResolution   string

	OutputFolder string
	ProfileRow   int // IR-grid row for the terminator profile plot, -1 = none

	IRGrid  GridConfig
	VisGrid GridConfig
}

func loadSceneConfig(path string) (*SceneConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var jsonTable map[string]interface{}
	if err := json.Unmarshal(data, &jsonTable); err != nil {
		return nil, fmt.Errorf("cannot parse %s: %w", path, err)
	}

	scene := &SceneConfig{}
	if msg, ok := validateJsonFileAndFillScene(jsonTable, scene); !ok {
		return nil, fmt.Errorf("%s: %s", path, msg)
	}
	return scene, nil
}

func getLeafValue(jsonTable map[string]interface{}, path ...string) (interface{}, bool) {
	var cur interface{} = jsonTable
	for _, p := range path {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		cur, ok = m[p]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func validateJsonFileAndFillScene(jsonTable map[string]interface{}, scene *SceneConfig) (string, bool) {
	msg := "No problem found in json file" // Initialize msg to presumed success.

	satellite, ok := getLeafValue(jsonTable, "satellite")
	if !ok {
		msg = "satellite: not found"
		return msg, false
	}
	scene.Satellite, ok = satellite.(string)
	if !ok {
		msg = "satellite: is not a string"
		return msg, false
	}

	instrument, ok := getLeafValue(jsonTable, "instrument")
	if !ok {
		msg = "instrument: not found"
		return msg, false
	}
	instrumentName, ok := instrument.(string)
	if !ok {
		msg = "instrument: is not a string"
		return msg, false
	}
	scene.Instrument = strings.ToLower(strings.TrimSpace(instrumentName))
	switch scene.Instrument {
	case "abi", "ahi", "seviri":
	default:
		msg = fmt.Sprintf("instrument: %q is not one of abi, ahi, seviri", instrumentName)
		return msg, false
	}

	scanStart, ok := getLeafValue(jsonTable, "scan_start_utc")
	if !ok {
		msg = "scan_start_utc: not found"
		return msg, false
	}
	scanStartStr, ok := scanStart.(string)
	if !ok {
		msg = "scan_start_utc: is not a string"
		return msg, false
	}
	t, err := time.Parse(time.RFC3339, scanStartStr)
	if err != nil {
		msg = fmt.Sprintf("scan_start_utc: %v", err)
		return msg, false
	}
	scene.ScanStart = t.UTC()

	scanMinutes, ok := getLeafValue(jsonTable, "scan_duration_minutes")
	if !ok {
		scene.ScanDuration = 10 * time.Minute // full-disk default
	} else {
		minutes, ok := scanMinutes.(float64)
		if !ok {
			msg = "scan_duration_minutes: is not a float64"
			return msg, false
		}
		scene.ScanDuration = time.Duration(minutes * float64(time.Minute))
	}

	nightAlg, ok := getLeafValue(jsonTable, "nighttime_algorithm")
	if !ok {
		scene.NighttimeAlgorithm = "nighttime_pvis_main_two_eq" // operational default
	} else {
		scene.NighttimeAlgorithm, ok = nightAlg.(string)
		if !ok {
			msg = "nighttime_algorithm: is not a string"
			return msg, false
		}
	}
	if _, err := proxyvis.ParseNighttimeAlgorithm(scene.NighttimeAlgorithm); err != nil {
		msg = err.Error()
		return msg, false
	}

	dayAlg, ok := getLeafValue(jsonTable, "daytime_algorithm")
	if !ok {
		scene.DaytimeAlgorithm = "vis_disp_sza"
	} else {
		scene.DaytimeAlgorithm, ok = dayAlg.(string)
		if !ok {
			msg = "daytime_algorithm: is not a string"
			return msg, false
		}
	}
	if _, err := proxyvis.ParseDaytimeAlgorithm(scene.DaytimeAlgorithm); err != nil {
		msg = err.Error()
		return msg, false
	}

	useSaved, ok := getLeafValue(jsonTable, "use_saved_bounds")
	if !ok {
		scene.UseSavedBounds = true // default to reproducible bounds
	} else {
		scene.UseSavedBounds, ok = useSaved.(bool)
		if !ok {
			msg = "use_saved_bounds: is not a bool"
			return msg, false
		}
	}

	outputRes, ok := getLeafValue(jsonTable, "output_resolution")
	if !ok {
		scene.OutputResolution = proxyvis.OutputResBoth
	} else {
		scene.OutputResolution, ok = outputRes.(string)
		if !ok {
			msg = "output_resolution: is not a string"
			return msg, false
		}
	}

	outputFolder, ok := getLeafValue(jsonTable, "output_folder")
	if !ok {
		msg = "output_folder: not found"
		return msg, false
	}
	scene.OutputFolder, ok = outputFolder.(string)
	if !ok {
		msg = "output_folder: is not a string"
		return msg, false
	}

	profileRow, ok := getLeafValue(jsonTable, "terminator_profile_row")
	if !ok {
		scene.ProfileRow = -1 // no profile plot unless asked for
	} else {
		row, ok := profileRow.(float64)
		if !ok {
			msg = "terminator_profile_row: is not a float64"
			return msg, false
		}
		scene.ProfileRow = int(row)
	}

	if m, ok2 := fillGridConfig(jsonTable, "ir_grid", &scene.IRGrid); !ok2 {
		return m, false
	}
	if m, ok2 := fillGridConfig(jsonTable, "vis_grid", &scene.VisGrid); !ok2 {
		return m, false
	}

	return msg, true
}

func fillGridConfig(jsonTable map[string]interface{}, group string, grid *GridConfig) (string, bool) {
	if _, ok := getLeafValue(jsonTable, group); !ok {
		return group + ": group not found and is required.", false
	}

	v, ok := getLeafValue(jsonTable, group, "rows")
	if !ok {
		return group + ".rows: not found", false
	}
	rows, ok := v.(float64)
	if !ok {
		return group + ".rows: is not a float64", false
	}
	grid.Rows = int(rows)

	v, ok = getLeafValue(jsonTable, group, "cols")
	if !ok {
		return group + ".cols: not found", false
	}
	cols, ok := v.(float64)
	if !ok {
		return group + ".cols: is not a float64", false
	}
	grid.Cols = int(cols)

	if grid.Rows <= 0 || grid.Cols <= 0 {
		return group + ": rows and cols must be positive", false
	}

	v, ok = getLeafValue(jsonTable, group, "lons_file")
	if !ok {
		return group + ".lons_file: not found", false
	}
	grid.LonsPath, ok = v.(string)
	if !ok {
		return group + ".lons_file: is not a string", false
	}

	v, ok = getLeafValue(jsonTable, group, "lats_file")
	if !ok {
		return group + ".lats_file: not found", false
	}
	grid.LatsPath, ok = v.(string)
	if !ok {
		return group + ".lats_file: is not a string", false
	}

	v, ok = getLeafValue(jsonTable, group, "channels")
	if !ok {
		return group + ".channels: not found", false
	}
	channels, ok := v.(map[string]interface{})
	if !ok {
		return group + ".channels: is not a group of name/file pairs", false
	}
	if len(channels) == 0 {
		return group + ".channels: is empty", false
	}
	grid.ChannelPaths = make(map[string]string, len(channels))
	for name, pathValue := range channels {
		pathStr, ok := pathValue.(string)
		if !ok {
			return fmt.Sprintf("%s.channels.%s: is not a string", group, name), false
		}
		grid.ChannelPaths[name] = pathStr
	}

	return "", true
}

// channelMapsFor picks the instrument's channel-to-argument maps. The simple
// algorithm family only reads the 3.9 micron channel, so it gets the smaller
// map and the scene file does not have to supply the unused channels.
func channelMapsFor(instrument, nighttimeAlg string) (pvisMap, visMap map[string]string, err error) {
	simple := strings.Contains(strings.ToLower(nighttimeAlg), "simple")
	switch instrument {
	case "abi":
		if simple {
			return proxyvis.ABISimple, proxyvis.ABIVis, nil
		}
		return proxyvis.ABIMain, proxyvis.ABIVis, nil
	case "ahi":
		if simple {
			return proxyvis.AHISimple, proxyvis.AHIVis, nil
		}
		return proxyvis.AHIMain, proxyvis.AHIVis, nil
	case "seviri":
		if simple {
			return proxyvis.SEVIRISimple, proxyvis.SEVIRIVis, nil
		}
		return proxyvis.SEVIRIMain, proxyvis.SEVIRIVis, nil
	default:
		return nil, nil, fmt.Errorf("unknown instrument %q", instrument)
	}
}
