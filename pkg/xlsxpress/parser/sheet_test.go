package parser

import (
	"strings"
	"testing"
)

const testSheetXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
<dimension ref="A1:C4"/>
<cols><col min="2" max="3" width="18.5" customWidth="1"/><col min="4" max="4" width="0"/></cols>
<sheetData>
<row r="1"><c r="A1" t="s"><v>0</v></c><c r="B1" t="inlineStr"><is><r><t>in</t></r><r><t>line</t></r></is></c></row>
<row r="3" ht="30" customHeight="1"><c r="A3" s="2"><v>1234.56</v></c><c t="b"><v>1</v></c><c r="C3" t="e"><v>#DIV/0!</v></c></row>
<row><c r="A4"><f>SUM(A1:A3)</f><v>1234.56</v></c><c r="B4"><f t="shared" si="0"/></c><c r="C4" s="3"/></row>
</sheetData>
<mergeCells count="1"><mergeCell ref="A1:B1"/></mergeCells>
<hyperlinks><hyperlink ref="A1" r:id="rId1" display="site"/><hyperlink ref="B3" location="Other!A1" tooltip="jump"/></hyperlinks>
</worksheet>`

func TestSheetDecoder(t *testing.T) {
	d := NewSheetDecoder(strings.NewReader(testSheetXML))

	var rows []RawRow
	for d.Next() {
		rows = append(rows, d.Row())
	}
	if err := d.Err(); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	if rows[0].Index != 0 || len(rows[0].Cells) != 2 {
		t.Errorf("row 0 = %+v", rows[0])
	}
	if c := rows[0].Cells[0]; c.Type != "s" || c.Value != "0" {
		t.Errorf("shared string cell = %+v", c)
	}
	if c := rows[0].Cells[1]; c.Type != "inlineStr" || c.Value != "inline" || c.Col != 1 {
		t.Errorf("inline string cell = %+v", c)
	}

	r := rows[1]
	if r.Index != 2 || r.Height != 30 || !r.CustomHeight {
		t.Errorf("row 2 header = %+v", r)
	}
	if c := r.Cells[0]; c.Style != 2 || c.Value != "1234.56" {
		t.Errorf("number cell = %+v", c)
	}
	if c := r.Cells[1]; c.Col != 1 || c.Row != 2 || c.Type != "b" {
		t.Errorf("cell without reference = %+v", c)
	}
	if c := r.Cells[2]; c.Type != "e" || c.Value != "#DIV/0!" {
		t.Errorf("error cell = %+v", c)
	}

	r = rows[2]
	if r.Index != 3 {
		t.Errorf("row without r attribute got index %d, expected 3", r.Index)
	}
	if c := r.Cells[0]; !c.HasFormula || c.Formula != "SUM(A1:A3)" || c.SharedFormula {
		t.Errorf("formula cell = %+v", c)
	}
	if c := r.Cells[1]; !c.SharedFormula {
		t.Errorf("shared formula follower = %+v", c)
	}
	if c := r.Cells[2]; c.HasValue || c.Style != 3 {
		t.Errorf("styled blank cell = %+v", c)
	}

	if d.Next() {
		t.Error("Next after the end returned true")
	}
}

func TestSheetDecoderInvalidRow(t *testing.T) {
	d := NewSheetDecoder(strings.NewReader(`<worksheet><sheetData><row r="x"/></sheetData></worksheet>`))
	if d.Next() {
		t.Fatal("expected Next to fail")
	}
	if d.Err() == nil {
		t.Error("expected an error for a malformed row number")
	}
}

func TestSheetDecoderTruncated(t *testing.T) {
	d := NewSheetDecoder(strings.NewReader(`<worksheet><sheetData><row r="1"><c r="A1"><v>1`))
	for d.Next() {
	}
	if d.Err() == nil {
		t.Error("expected an error for truncated XML")
	}
}

func TestParseSharedStrings(t *testing.T) {
	const sst = `<sst count="3" uniqueCount="3">
<si><t>Product</t></si>
<si><r><t>Rich </t></r><r><rPr><b/></rPr><t>text</t></r></si>
<si><t>漢字</t><rPh sb="0" eb="2"><t>カンジ</t></rPh></si>
</sst>`

	got, err := ParseSharedStrings(strings.NewReader(sst))
	if err != nil {
		t.Fatalf("ParseSharedStrings failed: %v", err)
	}
	expected := []string{"Product", "Rich text", "漢字"}
	if len(got) != len(expected) {
		t.Fatalf("got %d strings, expected %d", len(got), len(expected))
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("string %d = %q, expected %q", i, got[i], expected[i])
		}
	}
}

func TestScanSheetMeta(t *testing.T) {
	meta, err := ScanSheetMeta(strings.NewReader(testSheetXML))
	if err != nil {
		t.Fatalf("ScanSheetMeta failed: %v", err)
	}
	if meta.Dimension != "A1:C4" {
		t.Errorf("Dimension = %q", meta.Dimension)
	}
	if len(meta.Cols) != 1 || meta.Cols[0] != (ColWidth{Min: 2, Max: 3, Width: 18.5}) {
		t.Errorf("Cols = %+v", meta.Cols)
	}
	if len(meta.Links) != 2 {
		t.Fatalf("Links = %+v", meta.Links)
	}
	if l := meta.Links[0]; l.Ref != "A1" || l.RelID != "rId1" || l.Display != "site" {
		t.Errorf("external link = %+v", l)
	}
	if l := meta.Links[1]; l.Location != "Other!A1" || l.Tooltip != "jump" {
		t.Errorf("internal link = %+v", l)
	}
}
