package source

import (
	"archive/zip"
	"bytes"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/parser"
)

// Format identifies a workbook container.
type Format string

const (
	Unknown = Format("")
	XLSX    = Format("xlsx")
	XLSB    = Format("xlsb")
	XLS     = Format("xls")
	ODS     = Format("ods")
)

var (
	ole2Magic = []byte{0xd0, 0xcf, 0x11, 0xe0}
	zipMagic  = []byte{0x50, 0x4b, 0x03, 0x04}
)

const odsMimeType = "application/vnd.oasis.opendocument.spreadsheet"

// Detect sniffs the container format from its leading bytes, falling back
// to the file extension.
func Detect(data []byte, name string) Format {
	switch {
	case bytes.HasPrefix(data, ole2Magic):
		return XLS
	case bytes.HasPrefix(data, zipMagic):
		if zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data))); err == nil {
			switch {
			case parser.HasZipFile(zr, "xl/workbook.bin"):
				return XLSB
			case parser.HasZipFile(zr, "xl/workbook.xml"):
				return XLSX
			}
			if mime, _ := parser.ReadZipFile(zr, "mimetype"); strings.HasPrefix(string(mime), odsMimeType) {
				return ODS
			}
		}
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm", ".xlam":
		return XLSX
	case ".xlsb":
		return XLSB
	case ".xls", ".xla", ".xlt":
		return XLS
	case ".ods":
		return ODS
	}
	return Unknown
}

// Options configures decoding.
type Options struct {
	// Charset names the code page of legacy .xls strings; see htmlindex.
	Charset string
	Logger  zerolog.Logger
}

// Open decodes a workbook held in memory. name is only used for format
// detection and may be empty.
func Open(data []byte, name string, opts Options) (Source, error) {
	format := Detect(data, name)
	opts.Logger.Debug().Str("format", string(format)).Int("size", len(data)).Msg("opening source")

	switch format {
	case XLSX:
		return openXLSX(data, opts.Logger)
	case XLSB:
		return openXLSB(data)
	case XLS:
		return openXLS(data, opts.Charset)
	case ODS:
		return nil, NewDecodeError("", "OpenDocument spreadsheets have no decoder", ErrUnsupportedFormat)
	}
	return nil, NewDecodeError("", "unrecognized container", ErrUnsupportedFormat)
}
