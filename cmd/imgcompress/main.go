package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"imgcompress/pkg/compressor"
	"imgcompress/pkg/config"
	"imgcompress/pkg/visualization"
)

func main() {
	// Parse command line arguments
	inputPath := flag.String("input", "", "Image file to compress (PNG, JPEG or BMP)")
	colors := flag.Int("colors", 16, "Number of colors in the compressed image")
	analysis := flag.Bool("analysis", false, "Compress at multiple levels and render a visual report")
	outputDir := flag.String("output", "output", "Directory for compressed images")
	reportDir := flag.String("report-dir", "", "Directory for report artifacts (default: <output>/comparisons)")
	configPath := flag.String("config", "imgcompress.yaml", "YAML configuration file")
	seed := flag.Int64("seed", 0, "Clustering seed override (0 keeps the configured seed)")
	workers := flag.Int("workers", 0, "Concurrent levels in analysis mode (0 keeps the configured count)")
	flag.Parse()

	// Validate inputs
	if *inputPath == "" {
		flag.Usage()
		os.Exit(1)
	}
	if _, err := os.Stat(*inputPath); err != nil {
		log.Fatalf("Input image not accessible: %v", err)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *seed != 0 {
		cfg.Clustering.Seed = *seed
	}
	if *workers > 0 {
		cfg.Analysis.Workers = *workers
	}

	params := &compressor.Params{
		InputPath: *inputPath,
		OutputDir: *outputDir,
		Colors:    *colors,
		Clustering: compressor.ClusterOptions{
			MaxIterations: cfg.Clustering.MaxIterations,
			Tolerance:     cfg.Clustering.Tolerance,
			Seed:          cfg.Clustering.Seed,
			ReseedRetries: cfg.Clustering.ReseedRetries,
		},
		Verbose: cfg.Output.Verbose,
	}

	fmt.Println("================================")
	fmt.Println("IMAGE COLOR COMPRESSION BY K-MEANS CLUSTERING")
	fmt.Println("================================")

	comp := compressor.NewCompressor(params)
	startTime := time.Now()

	if *analysis {
		runAnalysis(comp, cfg, *outputDir, *reportDir)
	} else {
		result, err := comp.Process()
		if err != nil {
			log.Fatalf("Compression failed: %v", err)
		}
		fmt.Printf("\nCompressed image saved to: %s\n", result.Path)
		fmt.Printf("Color reduction ratio: %.2fx (proxy metric, not encoded size)\n", result.Ratio)
		fmt.Printf("RMSE: %.2f  PSNR: %.2f dB\n", result.Metrics.RMSE, result.Metrics.PSNR)
	}

	fmt.Printf("\nDone in %.2f seconds\n", time.Since(startTime).Seconds())
}

// runAnalysis compresses the image at every configured level, renders the
// visual report and prints the summary table.
func runAnalysis(comp *compressor.Compressor, cfg *config.Config, outputDir, reportDir string) {
	results, err := comp.ProcessLevels(cfg.Analysis.Levels, compressor.LevelPolicy{
		Workers:         cfg.Analysis.Workers,
		ContinueOnError: cfg.Analysis.ContinueOnError,
	})
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	if reportDir == "" {
		reportDir = filepath.Join(outputDir, cfg.Output.ReportDir)
	}
	reporter := visualization.NewReporter(comp.SourceImage(), comp.SourceUniqueColors(), results)
	reporter.PaletteSwatches = cfg.Output.PaletteSwatches
	if err := reporter.GenerateReport(reportDir); err != nil {
		// Clustering work is already on disk; a report failure is not fatal.
		log.Printf("Warning: failed to render report: %v", err)
	}

	fmt.Println("\nAnalysis summary:")
	fmt.Println("----------------------------------------------------------------------")
	fmt.Printf("%-10s %-14s %-10s %-12s %s\n", "Colors", "File size", "Ratio", "PSNR", "Path")
	fmt.Println("----------------------------------------------------------------------")
	for _, r := range results {
		fmt.Printf("%-10d %9.1f KB  %7.2fx  %8.2f dB  %s\n",
			r.Colors, float64(r.FileSize)/1024, r.Ratio, r.Metrics.PSNR, filepath.Base(r.Path))
	}
	fmt.Println("----------------------------------------------------------------------")
	fmt.Printf("Report artifacts in: %s\n", reportDir)
}
