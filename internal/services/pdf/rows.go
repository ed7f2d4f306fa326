package pdf

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// RowsBackend extracts tables from the text rows that ledongthuc/pdf reports.
// It is a pure Go implementation, no CGO or external binaries required.
type RowsBackend struct{}

// NewRowsBackend creates the ledongthuc/pdf based backend.
func NewRowsBackend() *RowsBackend {
	return &RowsBackend{}
}

// Open parses the PDF from memory.
//
// Go Pattern: The pdf library wants an io.ReaderAt plus a size; bytes.Reader
// gives us random access over the uploaded bytes without touching disk.
func (b *RowsBackend) Open(data []byte) (Document, error) {
	if err := checkHeader(data); err != nil {
		return nil, err
	}
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	return &rowsDocument{r: r}, nil
}

type rowsDocument struct {
	r *pdf.Reader
}

func (d *rowsDocument) NumPages() int { return d.r.NumPage() }

func (d *rowsDocument) Page(index int) (Page, error) {
	if index < 0 || index >= d.r.NumPage() {
		return nil, fmt.Errorf("page index %d out of range", index)
	}
	// ledongthuc/pdf pages are 1-indexed
	return &rowsPage{p: d.r.Page(index + 1)}, nil
}

// Close is a no-op; the reader holds no handles beyond the byte slice.
func (d *rowsDocument) Close() error { return nil }

type rowsPage struct {
	p pdf.Page
}

func (p *rowsPage) Tables() ([]Table, error) {
	if p.p.V.IsNull() {
		return nil, nil
	}
	rows, err := p.p.GetTextByRow()
	if err != nil {
		return nil, fmt.Errorf("failed to read text rows: %w", err)
	}

	// PDF y grows upwards, so the top of the page has the largest position.
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Position > rows[j].Position })

	// GetTextByRow reports start positions only (W and FontSize stay zero), so
	// every show-text operation lands in its own cell unless two share an x.
	lines := make([]line, 0, len(rows))
	for _, row := range rows {
		spans := make([]span, 0, len(row.Content))
		for _, t := range row.Content {
			// Td emits an empty text at the pen position.
			if strings.TrimSpace(t.S) == "" {
				continue
			}
			spans = append(spans, span{X: t.X, W: t.W, Size: t.FontSize, S: t.S})
		}
		lines = append(lines, line{y: float64(row.Position), cells: cellsFromSpans(spans)})
	}
	return tablesFromLines(lines), nil
}
