package overlay

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/cell"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/coord"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/source"
)

// countingSource records how many row passes reach the backend.
type countingSource struct {
	source.Source
	passes atomic.Int32
	closes atomic.Int32
}

func (c *countingSource) Rows(sheet string) (source.RowIterator, error) {
	c.passes.Add(1)
	return c.Source.Rows(sheet)
}

func (c *countingSource) Close() error {
	c.closes.Add(1)
	return c.Source.Close()
}

func newOverlay(t *testing.T, cacheVisited bool) (*Overlay, *countingSource) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetCellValue("Sheet1", "A1", "Old"))
	require.NoError(t, f.SetCellValue("Sheet1", "F6", 42))
	require.NoError(t, f.SetCellValue("Sheet1", "C2", "middle"))
	for i := range 4 {
		name := fmt.Sprintf("Data%d", i)
		_, err := f.NewSheet(name)
		require.NoError(t, err)
		for r := 1; r <= 50; r++ {
			ref, _ := excelize.CoordinatesToCellName(i+1, r)
			require.NoError(t, f.SetCellValue(name, ref, r*10+i))
		}
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	src, err := source.Open(buf.Bytes(), "book.xlsx", source.Options{Logger: zerolog.Nop()})
	require.NoError(t, err)
	cs := &countingSource{Source: src}
	o := New(cs, Options{CacheVisited: cacheVisited, Logger: zerolog.Nop()})
	t.Cleanup(func() { o.Close() })
	return o, cs
}

func TestCellRandomAccess(t *testing.T) {
	o, cs := newOverlay(t, false)

	c, err := o.Cell("Sheet1", coord.MustNew(0, 0))
	require.NoError(t, err)
	assert.True(t, cell.String("Old").Equal(c.Value))

	c, err = o.Cell("Sheet1", coord.MustNew(5, 5))
	require.NoError(t, err)
	assert.True(t, cell.Number(42).Equal(c.Value))

	// beyond the used range and inside a gap
	for _, pos := range []coord.Coordinate{coord.MustNew(1000, 3), coord.MustNew(1, 0), coord.MustNew(0, 16000)} {
		c, err = o.Cell("Sheet1", pos)
		require.NoError(t, err)
		assert.True(t, c.Value.IsEmpty(), "%v should be empty", pos)
		assert.Equal(t, pos, c.Coord)
	}

	assert.Equal(t, int32(1), cs.passes.Load(), "random access decodes a sheet once")

	_, err = o.Cell("Missing", coord.MustNew(0, 0))
	var notFound *source.SheetNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestRowsRestartable(t *testing.T) {
	o, _ := newOverlay(t, false)

	read := func() []string {
		it, err := o.Rows("Sheet1")
		require.NoError(t, err)
		defer it.Close()
		var refs []string
		for it.Next() {
			for _, c := range it.Row().Cells {
				refs = append(refs, c.Coord.String())
			}
		}
		require.NoError(t, it.Err())
		return refs
	}

	expected := []string{"A1", "C2", "F6"}
	assert.Equal(t, expected, read())
	assert.Equal(t, expected, read())
}

func TestRowsCacheVisited(t *testing.T) {
	o, cs := newOverlay(t, true)

	it, err := o.Rows("Data0")
	require.NoError(t, err)
	n := 0
	for it.Next() {
		n++
	}
	require.NoError(t, it.Err())
	require.NoError(t, it.Close())
	assert.Equal(t, 50, n)

	sc, err := o.cache("Data0")
	require.NoError(t, err)
	assert.True(t, sc.complete, "a full pass fills the cache")

	c, err := o.Cell("Data0", coord.MustNew(49, 0))
	require.NoError(t, err)
	assert.True(t, cell.Number(500).Equal(c.Value))
	assert.Equal(t, int32(1), cs.passes.Load())
}

func TestRowsWithoutCache(t *testing.T) {
	o, cs := newOverlay(t, false)

	for range 2 {
		it, err := o.Rows("Data1")
		require.NoError(t, err)
		for it.Next() {
		}
		require.NoError(t, it.Close())
	}
	sc, err := o.cache("Data1")
	require.NoError(t, err)
	assert.False(t, sc.complete)
	assert.Equal(t, int32(2), cs.passes.Load())
}

func TestUsedRangeAndDimensions(t *testing.T) {
	o, _ := newOverlay(t, false)

	rng, ok, err := o.UsedRange("Sheet1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "A1:F6", rng.String())

	rows, cols, err := o.Dimensions("Sheet1")
	require.NoError(t, err)
	assert.Equal(t, uint32(6), rows)
	assert.Equal(t, uint32(6), cols)

	// not cached yet: answered by the source
	rows, cols, err = o.Dimensions("Data3")
	require.NoError(t, err)
	assert.Equal(t, uint32(50), rows)
	assert.Equal(t, uint32(4), cols)
}

func TestPrefetchConcurrent(t *testing.T) {
	o, cs := newOverlay(t, false)

	require.NoError(t, o.Prefetch(context.Background()))
	assert.Equal(t, int32(5), cs.passes.Load())

	var wg sync.WaitGroup
	for i := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			name := fmt.Sprintf("Data%d", i)
			for r := range uint32(50) {
				c, err := o.Cell(name, coord.MustNew(r, uint32(i)))
				assert.NoError(t, err)
				assert.True(t, cell.Number(float64((r+1)*10)+float64(i)).Equal(c.Value))
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(5), cs.passes.Load(), "cached sheets are not decoded again")

	assert.Error(t, o.Prefetch(context.Background(), "Nope"))
}

func TestPrefetchCanceled(t *testing.T) {
	o, _ := newOverlay(t, false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, o.Prefetch(ctx, "Data0"), context.Canceled)
}

func TestCloseOnce(t *testing.T) {
	o, cs := newOverlay(t, false)
	require.NoError(t, o.Close())
	require.NoError(t, o.Close())
	assert.Equal(t, int32(1), cs.closes.Load())
}

func TestFeaturesPassthrough(t *testing.T) {
	o, _ := newOverlay(t, false)

	feat, err := o.Features("Sheet1")
	require.NoError(t, err)
	assert.Empty(t, feat.Merges)

	_, err = o.Features("Missing")
	assert.Error(t, err)

	st, err := o.Style(0)
	require.NoError(t, err)
	assert.True(t, st.IsZero())
}
