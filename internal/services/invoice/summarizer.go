// Package invoice sums the "Total" column of invoice tables for one product.
//
// The rules are fixed: a table qualifies when its header row has cells named
// exactly "Product" and "Total" (after newlines are folded to spaces), and a row
// counts when its product cell contains "Thingamajig". Everything PDF-specific
// lives behind the pdf.Opener interface.
package invoice

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Shimizu-Technology/finsight-api/internal/logger"
	"github.com/Shimizu-Technology/finsight-api/internal/services/pdf"
)

// Header names a table must carry, and the product substring that selects rows.
const (
	ProductHeader = "Product"
	TotalHeader   = "Total"
	ProductMatch  = "Thingamajig"
)

var (
	// ErrEmptyTable means the extractor returned a table with no header row.
	ErrEmptyTable = errors.New("table has no rows")
	// ErrShortRow means a row ends before a column the header resolved.
	ErrShortRow = errors.New("row is shorter than its header")
)

// Summarizer runs the invoice rules over documents opened by an injected Opener.
type Summarizer struct {
	opener pdf.Opener
}

// New creates a Summarizer.
func New(opener pdf.Opener) *Summarizer {
	return &Summarizer{opener: opener}
}

// Analyze opens data as a PDF and returns the running total over every page and table.
//
// Any failure, including a panic inside the PDF library, aborts the whole call:
// the caller gets an error and no partial sum.
func (s *Summarizer) Analyze(ctx context.Context, data []byte) (total float64, err error) {
	log := logger.FromContext(ctx)

	// Go Pattern: A deferred recover converts a panic in this goroutine into an
	// ordinary error. PDF parsers tend to panic on malformed input.
	defer func() {
		if r := recover(); r != nil {
			total = 0
			err = fmt.Errorf("PDF parser panic: %v", r)
		}
	}()

	doc, err := s.opener.Open(data)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := doc.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("failed to close document")
		}
	}()

	pages := doc.NumPages()
	tableCount := 0
	for i := 0; i < pages; i++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		page, err := doc.Page(i)
		if err != nil {
			return 0, err
		}
		tables, err := page.Tables()
		if err != nil {
			return 0, err
		}

		for j, t := range tables {
			sum, err := sumTable(t, log)
			if err != nil {
				return 0, fmt.Errorf("page %d, table %d: %w", i+1, j+1, err)
			}
			total += sum
		}
		tableCount += len(tables)
	}

	log.Debug().Int("pages", pages).Int("tables", tableCount).Float64("sum", total).Msg("invoice analyzed")
	return total, nil
}

// columnIndex holds the resolved positions of the two columns we read.
type columnIndex struct {
	product int
	total   int
}

// resolveColumns finds the product and total columns in a header row.
// ok is false unless both are present.
func resolveColumns(header pdf.Row) (idx columnIndex, ok bool) {
	idx = columnIndex{product: -1, total: -1}
	for i, h := range header {
		name := strings.ReplaceAll(h, "\n", " ")
		if name == ProductHeader && idx.product < 0 {
			idx.product = i
		}
		if name == TotalHeader && idx.total < 0 {
			idx.total = i
		}
	}
	return idx, idx.product >= 0 && idx.total >= 0
}

// sumTable returns the contribution of one table. Tables without the two
// columns contribute nothing; rows whose total is not a number are skipped.
func sumTable(t pdf.Table, log zerolog.Logger) (float64, error) {
	if len(t) == 0 {
		return 0, ErrEmptyTable
	}
	idx, ok := resolveColumns(t[0])
	if !ok {
		return 0, nil
	}

	var sum float64
	for n, row := range t[1:] {
		if idx.product >= len(row) {
			return 0, fmt.Errorf("%w: row %d has %d cells, product column is %d", ErrShortRow, n+1, len(row), idx.product)
		}
		product := row[idx.product]
		if product == "" || !strings.Contains(product, ProductMatch) {
			continue
		}
		if idx.total >= len(row) {
			return 0, fmt.Errorf("%w: row %d has %d cells, total column is %d", ErrShortRow, n+1, len(row), idx.total)
		}
		raw := row[idx.total]
		if raw == "" {
			continue
		}
		v, err := parseAmount(raw)
		if err != nil {
			log.Debug().Str("product", product).Str("total", raw).Msg("skipping row with non-numeric total")
			continue
		}
		sum += v
	}
	return sum, nil
}

// parseAmount parses a total cell. Surrounding whitespace is ignored;
// NaN and infinities are rejected since they cannot be summed or encoded as JSON.
func parseAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite amount %q", s)
	}
	return v, nil
}
