// Command cukemeasure measures a produce item photographed on a reference
// sheet and outputs its physical dimensions.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"cucumeter/internal/imageio"
	"cucumeter/internal/pipeline"
	"cucumeter/internal/version"

	"gocv.io/x/gocv"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	imagePath := flag.String("image", "", "Path to photo (TIFF, PNG, or JPEG)")
	sheetWidth := flag.Float64("sheet-width", 210, "Reference sheet width in mm")
	sheetHeight := flag.Float64("sheet-height", 297, "Reference sheet height in mm")
	configPath := flag.String("config", "", "Optional JSON pipeline config")
	debugOut := flag.String("debug-out", "", "Write annotated debug image to this path")
	jsonOut := flag.Bool("json", false, "Print the result as JSON")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	if *imagePath == "" {
		fmt.Println("Usage: cukemeasure -image <path> [-sheet-width 210] [-sheet-height 297] [-config cfg.json] [-debug-out out.png] [-json]")
		os.Exit(1)
	}

	cfg := pipeline.DefaultConfig()
	if *configPath != "" {
		loaded, err := pipeline.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}
	cfg.Sheet = cfg.Sheet.WithSheetSize(*sheetWidth, *sheetHeight)

	img, err := imageio.Load(*imagePath)
	if err != nil {
		log.Fatalf("Failed to load image: %v", err)
	}
	defer img.Close()

	fmt.Printf("Loaded image: %dx%d pixels\n", img.Cols(), img.Rows())
	fmt.Printf("Sheet: %.0fx%.0f mm\n\n", cfg.Sheet.WidthMm, cfg.Sheet.HeightMm)

	result := pipeline.New(cfg).Process(img)
	defer result.Debug.Close()

	if *debugOut != "" {
		if ok := writeDebug(*debugOut, result); !ok {
			log.Printf("Failed to write debug image to %s", *debugOut)
		} else {
			fmt.Printf("Debug image written to %s\n", *debugOut)
		}
	}

	if result.Measurement.Failed() {
		fmt.Fprintf(os.Stderr, "Measurement failed: %s\n", result.Measurement.Err)
		os.Exit(1)
	}

	if *jsonOut {
		data, err := json.MarshalIndent(result.Measurement, "", "  ")
		if err != nil {
			log.Fatalf("Failed to encode result: %v", err)
		}
		fmt.Println(string(data))
		return
	}

	m := result.Measurement
	fmt.Printf("Sheet detected at (%d,%d) %dx%d px via %s\n",
		result.SheetRect.X, result.SheetRect.Y,
		result.SheetRect.Width, result.SheetRect.Height, result.SheetStrategy)
	fmt.Printf("Scale: %.3f px/mm\n", result.Scale)
	fmt.Printf("Object found via %s (%d contour points)\n\n", result.ObjectFinder, len(result.Contour))

	fmt.Printf("%-12s %10s\n", "Metric", "Value")
	fmt.Printf("%-12s %10.1f mm\n", "Length", m.LengthMm)
	fmt.Printf("%-12s %10.1f mm\n", "Width", m.WidthMm)
	fmt.Printf("%-12s %10.1f mm\n", "Diameter", m.DiameterMm)
	fmt.Printf("%-12s %10.0f mm3\n", "Volume", m.VolumeMm3)
	fmt.Printf("%-12s %10.3f rad (curved: %v)\n", "Curvature", m.CurvatureRad, m.Curved)
}

func writeDebug(path string, result pipeline.ProcessedResult) bool {
	if result.Debug.Empty() {
		return false
	}
	return gocv.IMWrite(path, result.Debug)
}
