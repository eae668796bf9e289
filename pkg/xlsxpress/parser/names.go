package parser

import (
	"strings"

	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/coord"
)

// ParseNameReference parses the target of a defined name such as a print
// area. Format: 'Sheet Name'!$A$1:$D$10,'Sheet Name'!$F$1:$F$4
// It returns the sheet of the first area and every range that parses.
func ParseNameReference(ref string) (string, []coord.Range) {
	var ranges []coord.Range
	var sheetName string

	for _, part := range strings.Split(strings.TrimPrefix(ref, "="), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		idx := strings.LastIndex(part, "!")
		if idx < 0 {
			continue
		}
		sheet := strings.Trim(part[:idx], "'")
		sheet = strings.ReplaceAll(sheet, "''", "'")
		if sheetName == "" {
			sheetName = sheet
		}

		if rng, err := coord.ParseRange(part[idx+1:]); err == nil {
			ranges = append(ranges, rng)
		}
	}

	return sheetName, ranges
}
