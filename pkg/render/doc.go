// Package render turns cells into self-contained drawable records.
//
// # Overview
//
// An [Emitter] combines the pieces of the pipeline for one cell: it builds
// the cell polygon from the site field, reshapes it with the configured
// [shape.Shape] and paints it with a [ColorMode]. The result is a sequence of
// [Record] values, one per drawable path.
//
// A Record never refers to anything outside itself: solid cells carry their
// colour, and Worley triangles carry their own gradient definition. Records
// from different cells can therefore be written in any order and
// interleaved freely by concurrent workers.
//
//	e := render.NewEmitter(field, clip.Canvas{Width: 512, Height: 512},
//	    shape.Full{}, render.Grayscale{ValueRange: render.ValueRange{Low: 0.05, High: 0.95}})
//	records, err := e.Emit(3, 4)
//	if err != nil {
//	    return err // geometry errors surface before any record
//	}
//	for r := range records {
//	    fmt.Println(r.Path.D(), r.Paint())
//	}
//
// # Colour Modes
//
//   - [Grayscale]: the cell value as a gray level
//   - [CellCoord]: red and green from the wrapped cell coordinate
//   - [CellCoordValue]: like CellCoord with the cell value in blue
//   - [ImageRGB]: the colour of the source image at the cell
//
// # Gradient Ids
//
// Worley gradients are named grad<A>_<B> where A and B are the linear ids
// of the cell and its neighbour in the halo-padded grid (see [GradientID]),
// so the same edge seen from both sides gets two distinct, stable ids.
//
// # Output
//
// Records are written to documents by the render/sink subpackage.
package render
