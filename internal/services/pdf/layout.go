package pdf

import (
	"sort"
	"strings"
)

// span is a positioned run of text on one baseline, in PDF points.
type span struct {
	X    float64
	W    float64
	Size float64
	S    string
}

// cell is a group of spans close enough together to read as one value.
type cell struct {
	x0, x1 float64
	text   string
}

func (c cell) center() float64 { return (c.x0 + c.x1) / 2 }

const (
	// Horizontal gap, in ems, that separates two cells on the same line.
	cellGapEm = 1.0
	// Horizontal gap, in ems, above which a space is inserted between spans of one cell.
	wordGapEm = 0.2
	// Lines with fewer cells than this break a table.
	minTableCols = 2
	// Runs of tabular lines shorter than this are not reported as tables.
	minTableRows = 2
	// A row gap this many times the header-to-first-row pitch ends a table.
	maxRowGapFactor = 2.0
)

// cellsFromSpans groups the spans of one text line into cells, left to right.
func cellsFromSpans(spans []span) []cell {
	if len(spans) == 0 {
		return nil
	}
	sorted := make([]span, len(spans))
	copy(sorted, spans)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	var cells []cell
	var b strings.Builder
	cur := cell{x0: sorted[0].X, x1: sorted[0].X + sorted[0].W}
	b.WriteString(sorted[0].S)

	flush := func() {
		cur.text = strings.TrimSpace(b.String())
		if cur.text != "" {
			cells = append(cells, cur)
		}
		b.Reset()
	}

	for _, s := range sorted[1:] {
		em := s.Size
		if em <= 0 {
			em = 1
		}
		gap := s.X - cur.x1
		if gap > cellGapEm*em && strings.TrimSpace(s.S) != "" {
			flush()
			cur = cell{x0: s.X, x1: s.X + s.W}
			b.WriteString(s.S)
			continue
		}
		if gap > wordGapEm*em && !strings.HasSuffix(b.String(), " ") && !strings.HasPrefix(s.S, " ") {
			b.WriteByte(' ')
		}
		b.WriteString(s.S)
		if end := s.X + s.W; end > cur.x1 {
			cur.x1 = end
		}
	}
	flush()
	return cells
}

// line is the cells of one baseline. y grows upwards; lines with unknown
// positions all carry 0.
type line struct {
	y     float64
	cells []cell
}

// tablesFromLines turns a page's lines (top to bottom) into tables. A table is
// a run of consecutive lines that each hold at least minTableCols cells. Its
// first line is the header, and the header cells fix the columns.
//
// A run is cut short, and the current line starts a new one, when the line has
// more cells than the run's header (a two-cell caption such as "Invoice No" and
// "Date" above a wider table) or when the gap to the previous line exceeds
// maxRowGapFactor times the run's first row pitch.
func tablesFromLines(lines []line) []Table {
	var tables []Table
	var block []line

	emit := func() {
		if len(block) >= minTableRows {
			tables = append(tables, alignToHeader(block))
		}
		block = nil
	}

	for _, ln := range lines {
		if len(ln.cells) < minTableCols {
			emit()
			continue
		}
		if len(block) > 0 && breaksBlock(block, ln) {
			emit()
		}
		block = append(block, ln)
	}
	emit()
	return tables
}

// breaksBlock reports whether ln cannot continue the run in block.
func breaksBlock(block []line, ln line) bool {
	if len(ln.cells) > len(block[0].cells) {
		return true
	}
	if len(block) < 2 {
		return false
	}
	pitch := block[0].y - block[1].y
	gap := block[len(block)-1].y - ln.y
	return pitch > 0 && gap > maxRowGapFactor*pitch
}

// alignToHeader places each cell of the body lines under the header column whose
// span (bounded by midpoints between neighbouring header cells) holds the cell's center.
func alignToHeader(block []line) Table {
	header := block[0].cells
	bounds := make([]float64, len(header)-1)
	for i := range bounds {
		bounds[i] = (header[i].x1 + header[i+1].x0) / 2
	}

	table := make(Table, 0, len(block))
	hdr := make(Row, len(header))
	for i, c := range header {
		hdr[i] = c.text
	}
	table = append(table, hdr)

	for _, ln := range block[1:] {
		row := make(Row, len(header))
		for _, c := range ln.cells {
			col := sort.SearchFloat64s(bounds, c.center())
			if row[col] == "" {
				row[col] = c.text
			} else {
				row[col] += " " + c.text
			}
		}
		table = append(table, row)
	}
	return table
}
