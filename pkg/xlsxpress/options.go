// Package xlsxpress provides a mutable, random-access workbook over a
// read-only decoder and a forward-only xlsx encoder.
package xlsxpress

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/source"
)

// Options configures opening and saving workbooks.
type Options struct {
	// Logger receives debug summaries and warnings about dropped source
	// features. The zero value discards everything.
	Logger zerolog.Logger
	// Charset is the code page of legacy .xls text. Defaults to utf-8.
	Charset string
	// CacheVisited keeps every fully read sheet in memory.
	// If nil, defaults to true.
	CacheVisited *bool
}

// DefaultOptions returns default options.
func DefaultOptions() Options {
	return Options{
		Logger:  zerolog.Nop(),
		Charset: source.DefaultCharset,
	}
}

// ShouldCacheVisited returns whether fully read sheets stay cached.
func (o Options) ShouldCacheVisited() bool {
	if o.CacheVisited != nil {
		return *o.CacheVisited
	}
	return true
}

// Mode represents how much of a workbook Export includes.
type Mode string

const (
	// ModeLight exports cell values only.
	ModeLight Mode = "light"
	// ModeStandard adds dimensions, charts, merged ranges, validations,
	// defined names and document properties.
	ModeStandard Mode = "standard"
	// ModeVerbose adds cell hyperlinks, style summaries and chart sizes.
	ModeVerbose Mode = "verbose"
)

// ParseMode converts a mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeLight, ModeStandard, ModeVerbose:
		return m, nil
	}
	return "", fmt.Errorf("invalid mode: %s (must be light, standard, or verbose)", s)
}

// ExportOptions configures Export.
type ExportOptions struct {
	// Mode specifies the export mode (light, standard, verbose).
	Mode Mode
	// IncludeLinks specifies whether to include cell hyperlinks.
	// If nil, defaults to true for verbose mode, false otherwise.
	IncludeLinks *bool
}

// DefaultExportOptions returns default export options.
func DefaultExportOptions() ExportOptions {
	return ExportOptions{
		Mode: ModeStandard,
	}
}

// ShouldIncludeLinks returns whether to include cell hyperlinks.
func (o ExportOptions) ShouldIncludeLinks() bool {
	if o.IncludeLinks != nil {
		return *o.IncludeLinks
	}
	return o.Mode == ModeVerbose
}
