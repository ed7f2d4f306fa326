package pdf

import (
	"fmt"
	"os"

	"github.com/tsawler/tabula/model"
	"github.com/tsawler/tabula/pages"
	"github.com/tsawler/tabula/reader"
	"github.com/tsawler/tabula/tables"
)

// GeometricBackend detects tables with tabula's geometric detector, which
// clusters positioned text fragments and scores them for grid regularity.
//
// tabula reads from an *os.File, so each document is spooled to a temp file
// that is removed again on Close.
type GeometricBackend struct {
	tempDir string
	config  tables.Config
}

// NewGeometricBackend creates the tabula based backend. An empty tempDir
// means the OS default.
func NewGeometricBackend(tempDir string) *GeometricBackend {
	return &GeometricBackend{
		tempDir: tempDir,
		config:  tables.DefaultConfig(),
	}
}

// Open spools data to disk and opens it with tabula's reader.
func (b *GeometricBackend) Open(data []byte) (Document, error) {
	if err := checkHeader(data); err != nil {
		return nil, err
	}

	f, err := os.CreateTemp(b.tempDir, "finsight-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	path := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}

	r, err := reader.Open(path)
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	n, err := r.PageCount()
	if err != nil {
		r.Close()
		os.Remove(path)
		return nil, fmt.Errorf("failed to read page tree: %w", err)
	}

	// One detector per document: Configure mutates detector state.
	det := tables.NewGeometricDetector()
	if err := det.Configure(b.config); err != nil {
		r.Close()
		os.Remove(path)
		return nil, fmt.Errorf("failed to configure table detector: %w", err)
	}

	return &geometricDocument{r: r, path: path, pages: n, detector: det}, nil
}

type geometricDocument struct {
	r        *reader.Reader
	path     string
	pages    int
	detector tables.Detector
}

func (d *geometricDocument) NumPages() int { return d.pages }

func (d *geometricDocument) Page(index int) (Page, error) {
	p, err := d.r.GetPage(index)
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", index+1, err)
	}
	return &geometricPage{doc: d, index: index, page: p}, nil
}

// Close releases the reader and removes the spooled file.
func (d *geometricDocument) Close() error {
	err := d.r.Close()
	if rmErr := os.Remove(d.path); rmErr != nil && !os.IsNotExist(rmErr) && err == nil {
		err = rmErr
	}
	return err
}

type geometricPage struct {
	doc   *geometricDocument
	index int
	page  *pages.Page
}

func (p *geometricPage) Tables() ([]Table, error) {
	fragments, err := p.doc.r.ExtractTextFragments(p.page)
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", p.index+1, err)
	}

	width, _ := p.page.Width()
	height, _ := p.page.Height()
	mp := model.NewPage(width, height)
	mp.Number = p.index + 1
	for _, f := range fragments {
		mp.RawText = append(mp.RawText, model.TextFragment{
			Text:     f.Text,
			BBox:     model.BBox{X: f.X, Y: f.Y, Width: f.Width, Height: f.Height},
			FontSize: f.FontSize,
			FontName: f.FontName,
		})
	}

	detected, err := p.doc.detector.Detect(mp)
	if err != nil {
		return nil, fmt.Errorf("page %d: table detection failed: %w", p.index+1, err)
	}

	out := make([]Table, 0, len(detected))
	for _, t := range detected {
		out = append(out, fromModelTable(t))
	}
	return out, nil
}

func fromModelTable(t *model.Table) Table {
	table := make(Table, 0, len(t.Rows))
	for _, cells := range t.Rows {
		row := make(Row, len(cells))
		for i, c := range cells {
			row[i] = c.Text
		}
		table = append(table, row)
	}
	return table
}
