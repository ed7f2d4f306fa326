// Package pdftest builds small, valid PDF documents for tests.
//
// Every text run is placed with its own Tm operator in 12pt Helvetica, so
// readers that only track the text matrix see exact coordinates.
package pdftest

import (
	"bytes"
	"fmt"
	"strings"
)

// Text is one run of text with its baseline origin in points.
type Text struct {
	X, Y float64
	S    string
}

// Page is the text runs of one page.
type Page []Text

// Row lays out cells on one baseline at the given x positions.
func Row(y float64, xs []float64, cells ...string) []Text {
	out := make([]Text, 0, len(cells))
	for i, s := range cells {
		out = append(out, Text{X: xs[i], Y: y, S: s})
	}
	return out
}

// Table lays out rows top-down from y, pitch points apart, sharing column xs.
func Table(y, pitch float64, xs []float64, rows ...[]string) Page {
	var p Page
	for i, cells := range rows {
		p = append(p, Row(y-float64(i)*pitch, xs, cells...)...)
	}
	return p
}

// Build writes a Letter-sized document with one page per argument.
func Build(pages ...Page) []byte {
	var buf bytes.Buffer
	var offsets []int

	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")

	// 1 catalog, 2 page tree, 3 font, then a page and its content per page.
	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	obj("<< /Type /Catalog /Pages 2 0 R >>")
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)))
	obj("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	for i, p := range pages {
		obj(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
			"/Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i))

		content := contentStream(p)
		obj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return buf.Bytes()
}

func contentStream(p Page) string {
	var b strings.Builder
	b.WriteString("BT\n/F1 12 Tf\n")
	for _, t := range p {
		fmt.Fprintf(&b, "1 0 0 1 %g %g Tm\n(%s) Tj\n", t.X, t.Y, escape(t.S))
	}
	b.WriteString("ET")
	return b.String()
}

// escape quotes the characters that are special inside a PDF literal string.
func escape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`).Replace(s)
}
