package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/meteolab/geoproxyvis/proxyvis"
)

func main() {
	scenePath := flag.String("scene", "scene.json5", "path to the scene description file")
	flag.Parse()

	scene, err := loadSceneConfig(*scenePath)
	if err != nil {
		log.Fatalf("scene config: %v", err)
	}

	pvisMap, visMap, err := channelMapsFor(scene.Instrument, scene.NighttimeAlgorithm)
	if err != nil {
		log.Fatalf("%v", err)
	}

	geoIR, err := loadGeoGrid(scene.IRGrid)
	if err != nil {
		log.Fatalf("IR geo grid: %v", err)
	}
	geoVis, err := loadGeoGrid(scene.VisGrid)
	if err != nil {
		log.Fatalf("visible geo grid: %v", err)
	}
	data, err := loadChannelData(scene)
	if err != nil {
		log.Fatalf("channel data: %v", err)
	}

	if err := os.MkdirAll(scene.OutputFolder, 0o755); err != nil {
		log.Fatalf("output folder: %v", err)
	}

	startedAt := time.Now()
	composite, err := proxyvis.GenerateComposite(
		scene.Satellite, scene.ScanStart, data, pvisMap, visMap,
		geoIR, geoVis, scene.ScanDuration,
		scene.NighttimeAlgorithm, scene.DaytimeAlgorithm,
		scene.UseSavedBounds, scene.OutputResolution,
	)
	if err != nil {
		log.Fatalf("composite: %v", err)
	}
	fmt.Printf("composite for %s at %s computed in %v (bounds %.3f..%.3f)\n",
		scene.Satellite, scene.ScanStart.Format(time.RFC3339),
		time.Since(startedAt).Round(time.Millisecond),
		composite.BoundsMin, composite.BoundsMax)

	stamp := scene.ScanStart.Format("20060102T150405Z")

	if composite.IR != nil {
		img := CompositeToImage(composite.IR, geoIR.Lons)
		outPath := filepath.Join(scene.OutputFolder,
			fmt.Sprintf("%s_%s_pvis_2.0km.png", scene.Satellite, stamp))
		if err := SaveImagePNG(outPath, img); err != nil {
			log.Fatalf("save %s: %v", outPath, err)
		}
		fmt.Printf("wrote %s\n", outPath)

		if scene.ProfileRow >= 0 {
			title := fmt.Sprintf("%s terminator profile, row %d", scene.Satellite, scene.ProfileRow)
			plotImg, err := PlotTerminatorProfile(composite.IR, geoIR.Lons, scene.ProfileRow, title, 1000, 600)
			if err != nil {
				log.Fatalf("terminator profile: %v", err)
			}
			plotPath := filepath.Join(scene.OutputFolder,
				fmt.Sprintf("%s_%s_profile_row%d.png", scene.Satellite, stamp, scene.ProfileRow))
			if err := SaveImagePNG(plotPath, plotImg); err != nil {
				log.Fatalf("save %s: %v", plotPath, err)
			}
			fmt.Printf("wrote %s\n", plotPath)
		}
	}

	if composite.Vis != nil {
		img := CompositeToImage(composite.Vis, geoVis.Lons)
		outPath := filepath.Join(scene.OutputFolder,
			fmt.Sprintf("%s_%s_pvis_0.5km.png", scene.Satellite, stamp))
		if err := SaveImagePNG(outPath, img); err != nil {
			log.Fatalf("save %s: %v", outPath, err)
		}
		fmt.Printf("wrote %s\n", outPath)
	}
}
