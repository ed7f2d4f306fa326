package invoice_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Shimizu-Technology/finsight-api/internal/services/invoice"
	"github.com/Shimizu-Technology/finsight-api/internal/services/pdf"
	"github.com/Shimizu-Technology/finsight-api/internal/services/pdf/pdftest"
)

var _ = Describe("Summarizer with the rows backend", func() {
	columns := []float64{72, 250, 400}
	header := []string{"Product", "Quantity", "Total"}

	var s *invoice.Summarizer

	BeforeEach(func() {
		opener, err := pdf.NewOpener(pdf.Options{Backend: pdf.BackendRows, Validation: pdf.ValidationRelaxed})
		Expect(err).NotTo(HaveOccurred())
		s = invoice.New(opener)
	})

	It("should sum matching rows across two pages", func() {
		doc := pdftest.Build(
			pdftest.Table(720, 18, columns, header,
				[]string{"Thingamajig", "2", "100"},
				[]string{"Widget", "4", "1000"},
			),
			pdftest.Table(720, 18, columns, header,
				[]string{"Thingamajig Deluxe", "1", "258"},
			),
		)
		sum, err := s.Analyze(context.Background(), doc)
		Expect(err).NotTo(HaveOccurred())
		Expect(sum).To(Equal(358.0))
	})

	It("should not mistake a caption line for the table header", func() {
		page := append(
			pdftest.Row(738, []float64{72, 400}, "Invoice No: 42", "Date: 2024-01-01"),
			pdftest.Table(720, 18, columns, header,
				[]string{"Thingamajig", "2", "100"},
				[]string{"Thingamajig", "1", "N/A"},
				[]string{"Thingamajig", "5", "258"},
			)...,
		)
		sum, err := s.Analyze(context.Background(), pdftest.Build(page))
		Expect(err).NotTo(HaveOccurred())
		Expect(sum).To(Equal(358.0))
	})

	It("should return zero for a document without tables", func() {
		doc := pdftest.Build(pdftest.Page{{X: 72, Y: 720, S: "Thank you for your business"}})
		sum, err := s.Analyze(context.Background(), doc)
		Expect(err).NotTo(HaveOccurred())
		Expect(sum).To(BeZero())
	})
})
