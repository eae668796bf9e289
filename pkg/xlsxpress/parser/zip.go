package parser

import (
	"archive/zip"
	"encoding/xml"
	"io"
	"path"
	"strings"
)

// Rel is one entry of a .rels part.
type Rel struct {
	ID       string
	Type     string
	Target   string
	External bool
}

// ReadZipFile returns the content of the named part, or nil if it is absent.
func ReadZipFile(r *zip.Reader, name string) ([]byte, error) {
	f := findZipFile(r, name)
	if f == nil {
		return nil, nil
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// OpenZipFile opens the named part for streaming. It returns nil, nil if the
// part is absent.
func OpenZipFile(r *zip.Reader, name string) (io.ReadCloser, error) {
	f := findZipFile(r, name)
	if f == nil {
		return nil, nil
	}
	return f.Open()
}

func findZipFile(r *zip.Reader, name string) *zip.File {
	for _, f := range r.File {
		if strings.EqualFold(f.Name, name) {
			return f
		}
	}
	return nil
}

// HasZipFile reports whether the archive contains the named part.
func HasZipFile(r *zip.Reader, name string) bool {
	return findZipFile(r, name) != nil
}

func readElementText(decoder *xml.Decoder) (string, error) {
	var text strings.Builder
	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return text.String(), err
		}
		switch t := token.(type) {
		case xml.CharData:
			text.Write(t)
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
	return text.String(), nil
}

// resolveRelativePath resolves a relationship target against the directory
// of the part that owns the relationship.
func resolveRelativePath(target, baseDir string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Join(baseDir, target)
}

// relsPathFor returns the .rels part describing the relationships of part.
func relsPathFor(part string) string {
	dir, file := path.Split(part)
	return dir + "_rels/" + file + ".rels"
}

func attr(se xml.StartElement, local string) string {
	for _, a := range se.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// parseRels parses a .rels part into a map keyed by relationship id.
func parseRels(data []byte) map[string]Rel {
	result := make(map[string]Rel)
	decoder := xml.NewDecoder(strings.NewReader(string(data)))

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "Relationship" {
			rel := Rel{
				ID:       attr(se, "Id"),
				Type:     attr(se, "Type"),
				Target:   attr(se, "Target"),
				External: strings.EqualFold(attr(se, "TargetMode"), "External"),
			}
			if rel.ID != "" {
				result[rel.ID] = rel
			}
		}
	}

	return result
}

// SheetPart pairs a sheet name with its worksheet part path.
type SheetPart struct {
	Name string
	Path string
}

// WorkbookSheets lists the worksheets of an OOXML package in workbook order.
func WorkbookSheets(r *zip.Reader) ([]SheetPart, error) {
	workbookXML, err := ReadZipFile(r, "xl/workbook.xml")
	if err != nil || workbookXML == nil {
		return nil, err
	}
	wbRelsXML, err := ReadZipFile(r, "xl/_rels/workbook.xml.rels")
	if err != nil || wbRelsXML == nil {
		return nil, err
	}
	rels := parseRels(wbRelsXML)

	var result []SheetPart
	for _, s := range parseWorkbookSheets(workbookXML) {
		rel, ok := rels[s.rID]
		if !ok || !strings.Contains(strings.ToLower(rel.Type), "worksheet") {
			continue
		}
		result = append(result, SheetPart{Name: s.name, Path: resolveRelativePath(rel.Target, "xl")})
	}
	return result, nil
}

type workbookSheet struct {
	name string
	rID  string
}

func parseWorkbookSheets(data []byte) []workbookSheet {
	var result []workbookSheet
	decoder := xml.NewDecoder(strings.NewReader(string(data)))

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "sheet" {
			s := workbookSheet{name: attr(se, "name"), rID: attr(se, "id")}
			if s.name != "" && s.rID != "" {
				result = append(result, s)
			}
		}
	}

	return result
}

// findRelationship returns the first relationship whose type contains kind.
func findRelationship(rels map[string]Rel, kind string) (Rel, bool) {
	var found Rel
	ok := false
	for _, rel := range rels {
		if strings.Contains(strings.ToLower(rel.Type), kind) && (!ok || rel.ID < found.ID) {
			found, ok = rel, true
		}
	}
	return found, ok
}
