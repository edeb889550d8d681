// Package pkg provides the libraries behind voronoisvg.
//
// # Overview
//
// voronoisvg renders the Voronoi tessellation of a jittered grid: every grid
// cell holds one site, offset randomly within the cell, and the cell's
// polygon is the region closer to its site than to any other. Because sites
// never leave their cells, each polygon is bounded by bisectors with sites
// at most two cells away, so cells can be built independently and in
// parallel.
//
// # Architecture
//
//	[sitefield] values and site offsets per cell
//	     ↓
//	[cell] polygon from the 24-neighbourhood bisectors
//	     ↓
//	[shape] full, scaled, flagstone, pebble or worley pieces, [clip]ped to the canvas
//	     ↓
//	[render] self-contained records with colours or gradients
//	     ↓
//	[dispatch] parallel workers, batched writes
//	     ↓
//	render/sink SVG or PNG document
//
// [pipeline] wires the stages together from a single Options value and adds
// document caching through [cache].
//
// # Quick Start
//
//	opts := pipeline.DefaultOptions()
//	opts.CellMode = "pebble"
//	opts.Jobs = runtime.NumCPU()
//	runner := pipeline.NewRunner(nil, nil, logger)
//	result, err := runner.Execute(ctx, opts, os.Stdout)
//
// # Supporting Packages
//
// [geom] vectors, lines and scalar helpers. [sampler] reads per-cell colours
// from images. [errors] carries error codes. [observability] exposes hooks
// for progress reporting. [buildinfo] holds version information.
package pkg
