// Package pdf provides the PDF table-extraction capability used by the invoice analyzer.
//
// The rest of the application only sees the small interfaces below:
// Opener -> Document -> Page -> []Table. Two backends implement them:
//
//   - "rows": ledongthuc/pdf text rows, regrouped into tables by column position.
//     Pure Go, works on any PDF with a text layer.
//   - "geometric": tsawler/tabula's geometric table detector.
//
// Go Pattern: Small interfaces at the point of use. The summarizer depends on
// these interfaces, not on either library, so tests can hand it an in-memory fake.
package pdf

import (
	"errors"
	"fmt"
)

// Backend names accepted by NewOpener.
const (
	BackendRows      = "rows"
	BackendGeometric = "geometric"
)

// ErrNotPDF is returned when the input does not start with a PDF header.
var ErrNotPDF = errors.New("not a PDF document")

// Row is one table row. Cells the extractor could not fill are empty strings.
type Row []string

// Table is an ordered list of rows; row 0 is the header by convention.
type Table []Row

// Opener turns raw bytes into an open Document.
type Opener interface {
	Open(data []byte) (Document, error)
}

// Document is an opened PDF. Close must be called when done.
type Document interface {
	NumPages() int
	// Page returns the page at a 0-based index.
	Page(index int) (Page, error)
	Close() error
}

// Page is a single page that can report its tables.
type Page interface {
	Tables() ([]Table, error)
}

// Options configures NewOpener.
type Options struct {
	Backend    string // BackendRows or BackendGeometric
	Validation string // ValidationOff, ValidationRelaxed or ValidationStrict
	TempDir    string // scratch directory for backends that need a file on disk
}

// NewOpener builds the Opener selected by opts, wrapped with structural validation
// unless validation is turned off.
func NewOpener(opts Options) (Opener, error) {
	var base Opener
	switch opts.Backend {
	case "", BackendRows:
		base = NewRowsBackend()
	case BackendGeometric:
		base = NewGeometricBackend(opts.TempDir)
	default:
		return nil, fmt.Errorf("unknown table backend %q", opts.Backend)
	}

	v, err := NewValidator(opts.Validation)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return base, nil
	}
	return &validatingOpener{next: base, validator: v}, nil
}

// ValidatePDF checks if the data looks like a valid PDF by checking the magic bytes.
func ValidatePDF(data []byte) bool {
	// PDF files start with "%PDF-"
	return len(data) >= 5 && string(data[:5]) == "%PDF-"
}

// checkHeader is shared by the backends so both report the same error for non-PDF input.
func checkHeader(data []byte) error {
	if !ValidatePDF(data) {
		return fmt.Errorf("%w: missing %%PDF- header", ErrNotPDF)
	}
	return nil
}

type validatingOpener struct {
	next      Opener
	validator *Validator
}

func (o *validatingOpener) Open(data []byte) (Document, error) {
	if err := checkHeader(data); err != nil {
		return nil, err
	}
	if err := o.validator.Validate(data); err != nil {
		return nil, err
	}
	return o.next.Open(data)
}
