// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Command lifedemo runs the GPU simulation headless for a fixed number of
// generations and saves the final frame as a PNG.
//
// Output:
//
//	tmp/lifegrid.png — the final rendered generation
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/image/draw"

	"github.com/gogpu/lifegrid"
)

func main() {
	var (
		gridSize    = flag.Int("grid", 512, "grid edge in cells")
		generations = flag.Uint64("gen", 300, "number of generations to run")
		seed        = flag.Int64("seed", 0, "RNG seed for the initial population (0 = time-based)")
		scale       = flag.Int("scale", 2, "output upscaling factor")
		output      = flag.String("o", "tmp/lifegrid.png", "output PNG path")
		verbose     = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	if *verbose {
		lifegrid.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	fmt.Println("Colored Life GPU Demo")
	fmt.Println("=====================")
	fmt.Println()
	fmt.Printf("Grid: %dx%d cells, %d generations\n\n", *gridSize, *gridSize, *generations)

	opts := []lifegrid.Option{lifegrid.WithGridSize(*gridSize)}
	if *seed != 0 {
		opts = append(opts, lifegrid.WithRandSource(rand.NewSource(*seed)))
	}

	initStart := time.Now()
	engine, err := lifegrid.New(opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
	defer engine.Close()
	fmt.Printf("GPU init... %v ✓\n", time.Since(initStart).Round(time.Millisecond))

	runStart := time.Now()
	target := *generations
	if err := engine.RunUntil(func(gen uint64) bool { return gen >= target }); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
	runDur := time.Since(runStart)
	perTick := runDur
	if target > 0 {
		perTick = runDur / time.Duration(target)
	}
	fmt.Printf("Ran %d generations... %v ✓ (%v/tick)\n", engine.Generation(), runDur.Round(time.Millisecond), perTick.Round(10*time.Microsecond))

	frame, err := engine.Frame()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: read frame: %v\n", err)
		os.Exit(1)
	}
	if *scale > 1 {
		frame = upscale(frame, *scale)
	}

	if err := os.MkdirAll(filepath.Dir(*output), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: cannot create output dir: %v\n", err)
		os.Exit(1)
	}
	if err := savePNG(frame, *output); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: save frame: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("Output:")
	fmt.Printf("  Frame: %s (%dx%d)\n", *output, frame.Bounds().Dx(), frame.Bounds().Dy())
}

// upscale enlarges the frame with nearest-neighbor sampling so cells stay
// sharp squares instead of blurring together.
func upscale(src *image.RGBA, factor int) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// savePNG writes an RGBA image to a PNG file.
func savePNG(img *image.RGBA, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
