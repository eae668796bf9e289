package parser

import (
	"encoding/xml"
	"errors"
	"io"
	"strconv"
)

// ColWidth is a <col> element with an explicit width.
type ColWidth struct {
	Min, Max int // one-based, inclusive
	Width    float64
}

// LinkRef is a <hyperlink> element. Targets of external links live in the
// sheet relationships and are resolved by the caller.
type LinkRef struct {
	Ref      string
	RelID    string
	Location string
	Display  string
	Tooltip  string
}

// SheetMeta holds the worksheet elements that surround the cell data.
type SheetMeta struct {
	Dimension string
	Cols      []ColWidth
	Links     []LinkRef
}

// ScanSheetMeta reads the dimension, column and hyperlink elements of a
// worksheet part, skipping the cell data.
func ScanSheetMeta(r io.Reader) (SheetMeta, error) {
	var meta SheetMeta
	decoder := xml.NewDecoder(r)

	for {
		token, err := decoder.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return meta, nil
			}
			return meta, err
		}

		se, ok := token.(xml.StartElement)
		if !ok {
			continue
		}
		switch se.Name.Local {
		case "dimension":
			meta.Dimension = attr(se, "ref")
		case "col":
			width, err := strconv.ParseFloat(attr(se, "width"), 64)
			if err != nil || width <= 0 {
				continue
			}
			lo, _ := strconv.Atoi(attr(se, "min"))
			hi, _ := strconv.Atoi(attr(se, "max"))
			if lo < 1 || hi < lo {
				continue
			}
			meta.Cols = append(meta.Cols, ColWidth{Min: lo, Max: hi, Width: width})
		case "sheetData":
			if err := decoder.Skip(); err != nil {
				return meta, err
			}
		case "hyperlink":
			meta.Links = append(meta.Links, LinkRef{
				Ref:      attr(se, "ref"),
				RelID:    attr(se, "id"),
				Location: attr(se, "location"),
				Display:  attr(se, "display"),
				Tooltip:  attr(se, "tooltip"),
			})
		}
	}
}
