package writer

import (
	"archive/zip"
	"bytes"
	"io"
	"slices"
	"strings"
)

// countingWriter tracks bytes written through it.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// sortZip rewrites the package in data with its entries ordered by name.
// excelize emits stream-written parts in map order; sorting makes equal
// workbooks encode to equal bytes. Entries are copied without recompression.
func sortZip(w io.Writer, data []byte) (int64, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, err
	}
	files := slices.Clone(zr.File)
	slices.SortFunc(files, func(a, b *zip.File) int {
		return strings.Compare(a.Name, b.Name)
	})

	cw := &countingWriter{w: w}
	zw := zip.NewWriter(cw)
	for _, f := range files {
		raw, err := f.OpenRaw()
		if err != nil {
			return cw.n, err
		}
		hdr := f.FileHeader
		dst, err := zw.CreateRaw(&hdr)
		if err != nil {
			return cw.n, err
		}
		if _, err := io.Copy(dst, raw); err != nil {
			return cw.n, err
		}
	}
	if err := zw.Close(); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}
