package invoice_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Shimizu-Technology/finsight-api/internal/services/invoice"
	"github.com/Shimizu-Technology/finsight-api/internal/services/pdf"
)

// fakeOpener hands out an in-memory document made of pre-built tables.
type fakeOpener struct {
	doc     *fakeDocument
	err     error
	panicOn bool
}

func (o *fakeOpener) Open(data []byte) (pdf.Document, error) {
	if o.panicOn {
		panic("malformed xref")
	}
	if o.err != nil {
		return nil, o.err
	}
	return o.doc, nil
}

type fakeDocument struct {
	pages  []fakePage
	closed bool
}

func (d *fakeDocument) NumPages() int { return len(d.pages) }

func (d *fakeDocument) Page(i int) (pdf.Page, error) { return d.pages[i], nil }

func (d *fakeDocument) Close() error {
	d.closed = true
	return nil
}

type fakePage struct {
	tables []pdf.Table
	err    error
}

func (p fakePage) Tables() ([]pdf.Table, error) { return p.tables, p.err }

func docOf(pages ...fakePage) *fakeDocument {
	return &fakeDocument{pages: pages}
}

func pageOf(tables ...pdf.Table) fakePage {
	return fakePage{tables: tables}
}

var invoiceHeader = pdf.Row{"Item", "Product", "Qty", "Total"}

var _ = Describe("Summarizer", func() {
	var (
		ctx    context.Context
		opener *fakeOpener
		s      *invoice.Summarizer
	)

	BeforeEach(func() {
		ctx = context.Background()
		opener = &fakeOpener{}
		s = invoice.New(opener)
	})

	analyze := func() (float64, error) {
		return s.Analyze(ctx, []byte("%PDF-1.7"))
	}

	Context("when the document has no tables", func() {
		It("should return zero", func() {
			opener.doc = docOf(pageOf(), pageOf())
			sum, err := analyze()
			Expect(err).NotTo(HaveOccurred())
			Expect(sum).To(BeZero())
		})
	})

	Context("when the document has no pages", func() {
		It("should return zero", func() {
			opener.doc = docOf()
			sum, err := analyze()
			Expect(err).NotTo(HaveOccurred())
			Expect(sum).To(BeZero())
		})
	})

	Context("when a table lacks a required header", func() {
		It("should skip the table without error", func() {
			opener.doc = docOf(pageOf(
				pdf.Table{{"Product", "Amount"}, {"Thingamajig", "100"}},
				pdf.Table{{"Item", "Total"}, {"Thingamajig", "100"}},
				pdf.Table{invoiceHeader, {"1", "Thingamajig", "1", "7"}},
			))
			sum, err := analyze()
			Expect(err).NotTo(HaveOccurred())
			Expect(sum).To(Equal(7.0))
		})
	})

	Context("when matching product names", func() {
		It("should include exact and substring matches and exclude others", func() {
			opener.doc = docOf(pageOf(pdf.Table{
				invoiceHeader,
				{"1", "Thingamajig", "2", "100"},
				{"2", "Thingamajig Deluxe", "1", "50.5"},
				{"3", "Widget", "4", "1000"},
				{"4", "thingamajig", "1", "9"},
				{"5", "", "1", "9"},
			}))
			sum, err := analyze()
			Expect(err).NotTo(HaveOccurred())
			Expect(sum).To(Equal(150.5))
		})
	})

	Context("when a total is not numeric", func() {
		It("should skip that row and keep going", func() {
			opener.doc = docOf(pageOf(pdf.Table{
				invoiceHeader,
				{"1", "Thingamajig", "1", "N/A"},
				{"2", "Thingamajig", "1", ""},
				{"3", "Thingamajig", "1", "NaN"},
				{"4", "Thingamajig", "1", " 42 "},
			}))
			sum, err := analyze()
			Expect(err).NotTo(HaveOccurred())
			Expect(sum).To(Equal(42.0))
		})
	})

	Context("when two pages each hold a matching row", func() {
		It("should sum across pages", func() {
			opener.doc = docOf(
				pageOf(pdf.Table{invoiceHeader, {"1", "Thingamajig", "1", "100"}}),
				pageOf(pdf.Table{invoiceHeader, {"1", "Thingamajig", "2", "258"}}),
			)
			sum, err := analyze()
			Expect(err).NotTo(HaveOccurred())
			Expect(sum).To(Equal(358.0))
		})

		It("should also accumulate duplicate tables on one page independently", func() {
			t := pdf.Table{invoiceHeader, {"1", "Thingamajig", "1", "100"}}
			opener.doc = docOf(pageOf(t, t))
			sum, err := analyze()
			Expect(err).NotTo(HaveOccurred())
			Expect(sum).To(Equal(200.0))
		})
	})

	Context("when header cells contain newlines", func() {
		It("should only match the exact normalized name", func() {
			opener.doc = docOf(pageOf(
				pdf.Table{{"Product", "Total\nAmount"}, {"Thingamajig", "100"}},
				pdf.Table{{"Pro\nduct", "Total"}, {"Thingamajig", "100"}},
			))
			sum, err := analyze()
			Expect(err).NotTo(HaveOccurred())
			Expect(sum).To(BeZero())
		})
	})

	Context("when opening fails", func() {
		It("should return the open error", func() {
			opener.err = pdf.ErrNotPDF
			sum, err := analyze()
			Expect(err).To(MatchError(pdf.ErrNotPDF))
			Expect(sum).To(BeZero())
		})
	})

	Context("when the PDF library panics", func() {
		It("should convert the panic into an error", func() {
			opener.panicOn = true
			sum, err := analyze()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("malformed xref"))
			Expect(sum).To(BeZero())
		})
	})

	Context("when a later page fails", func() {
		It("should discard the partial sum and close the document", func() {
			doc := docOf(
				pageOf(pdf.Table{invoiceHeader, {"1", "Thingamajig", "1", "100"}}),
				fakePage{err: errors.New("content stream truncated")},
			)
			opener.doc = doc
			sum, err := analyze()
			Expect(err).To(MatchError(ContainSubstring("content stream truncated")))
			Expect(sum).To(BeZero())
			Expect(doc.closed).To(BeTrue())
		})
	})

	Context("when a table is structurally broken", func() {
		It("should fail on a table with no rows", func() {
			opener.doc = docOf(pageOf(pdf.Table{}))
			_, err := analyze()
			Expect(err).To(MatchError(invoice.ErrEmptyTable))
		})

		It("should fail on a row shorter than the product column", func() {
			opener.doc = docOf(pageOf(pdf.Table{invoiceHeader, {"1"}}))
			_, err := analyze()
			Expect(err).To(MatchError(invoice.ErrShortRow))
		})

		It("should tolerate a short row whose product does not match", func() {
			opener.doc = docOf(pageOf(pdf.Table{invoiceHeader, {"1", "Widget"}}))
			sum, err := analyze()
			Expect(err).NotTo(HaveOccurred())
			Expect(sum).To(BeZero())
		})
	})

	Context("when the request is cancelled", func() {
		It("should stop before reading pages", func() {
			opener.doc = docOf(pageOf(pdf.Table{invoiceHeader, {"1", "Thingamajig", "1", "100"}}))
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := s.Analyze(cctx, []byte("%PDF-1.7"))
			Expect(err).To(MatchError(context.Canceled))
			Expect(opener.doc.closed).To(BeTrue())
		})
	})
})
