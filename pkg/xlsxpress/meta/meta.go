// Package meta holds workbook metadata records shared by the read and write
// paths: document properties, defined names and hyperlinks.
package meta

import (
	"strings"

	"github.com/xuri/excelize/v2"
)

// DocProps are the core document properties.
type DocProps struct {
	Title       string
	Subject     string
	Creator     string
	Keywords    string
	Description string
	Category    string
	// Created and Modified are W3CDTF timestamps, e.g. 2024-01-02T15:04:05Z.
	Created  string
	Modified string
}

// IsZero reports whether no property is set.
func (p DocProps) IsZero() bool { return p == DocProps{} }

// ToExcelize converts p for excelize.File.SetDocProps.
func (p DocProps) ToExcelize() *excelize.DocProperties {
	return &excelize.DocProperties{
		Title:       p.Title,
		Subject:     p.Subject,
		Creator:     p.Creator,
		Keywords:    p.Keywords,
		Description: p.Description,
		Category:    p.Category,
		Created:     p.Created,
		Modified:    p.Modified,
	}
}

// DocPropsFromExcelize converts properties read with excelize.File.GetDocProps.
func DocPropsFromExcelize(dp *excelize.DocProperties) DocProps {
	if dp == nil {
		return DocProps{}
	}
	return DocProps{
		Title:       dp.Title,
		Subject:     dp.Subject,
		Creator:     dp.Creator,
		Keywords:    dp.Keywords,
		Description: dp.Description,
		Category:    dp.Category,
		Created:     dp.Created,
		Modified:    dp.Modified,
	}
}

// workbookScope is how excelize names the global scope.
const workbookScope = "Workbook"

// DefinedName is a named formula or range.
type DefinedName struct {
	Name string
	// RefersTo is the formula, e.g. Sheet1!$A$1:$B$4.
	RefersTo string
	// Scope is the owning sheet name, or empty for workbook scope.
	Scope   string
	Comment string
}

// IsBuiltin reports whether n is reserved, such as _xlnm.Print_Area.
func (n DefinedName) IsBuiltin() bool {
	return strings.HasPrefix(strings.ToLower(n.Name), "_xlnm.")
}

// ToExcelize converts n for excelize.File.SetDefinedName.
func (n DefinedName) ToExcelize() *excelize.DefinedName {
	dn := &excelize.DefinedName{
		Name:     n.Name,
		Comment:  n.Comment,
		RefersTo: n.RefersTo,
	}
	if n.Scope != "" {
		dn.Scope = n.Scope
	}
	return dn
}

// DefinedNameFromExcelize converts a name read with excelize.File.GetDefinedName.
func DefinedNameFromExcelize(dn excelize.DefinedName) DefinedName {
	n := DefinedName{Name: dn.Name, RefersTo: dn.RefersTo, Comment: dn.Comment}
	if !strings.EqualFold(dn.Scope, workbookScope) {
		n.Scope = dn.Scope
	}
	return n
}

// Hyperlink is a link attached to a cell.
type Hyperlink struct {
	// Target is a URL, or a location such as Sheet2!A1 when Internal is set.
	Target   string
	Display  string
	Tooltip  string
	Internal bool
}

// LinkType returns the excelize link type.
func (h Hyperlink) LinkType() string {
	if h.Internal {
		return "Location"
	}
	return "External"
}

// Options returns the excelize display options, or nil.
func (h Hyperlink) Options() []excelize.HyperlinkOpts {
	if h.Display == "" && h.Tooltip == "" {
		return nil
	}
	var opts excelize.HyperlinkOpts
	if h.Display != "" {
		d := h.Display
		opts.Display = &d
	}
	if h.Tooltip != "" {
		t := h.Tooltip
		opts.Tooltip = &t
	}
	return []excelize.HyperlinkOpts{opts}
}
