// Package parser reads the parts of an OOXML package that excelize does not
// expose in streaming or structured form: sheet cell data, sheet metadata and
// chart drawings.
package parser

// EMUPerPixel is the number of EMUs (English Metric Units) per pixel at 96 DPI.
// 1 inch = 914400 EMU, 1 inch = 96 pixels at 96 DPI
// Therefore: 914400 / 96 = 9525 EMU per pixel
const EMUPerPixel = 9525

// Default cell size in pixels, used to turn two-cell anchors into a size.
const (
	DefaultColumnPixels = 64
	DefaultRowPixels    = 20
)

// EMUToPixels converts EMU (English Metric Units) to pixels at 96 DPI.
func EMUToPixels(emu int64) int {
	return int(emu / EMUPerPixel)
}
