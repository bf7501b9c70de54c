// Package pdf renders loan prediction reports as US Letter PDFs and reads
// their text back.
package pdf

import (
	"context"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/kirillkom/loan-approval-predictor/internal/core/report"
)

const (
	fontFamily  = "Helvetica"
	titleSize   = 16
	headingSize = 12
	bodySize    = 11
	lineHeight  = 10
)

type Renderer struct {
	creator string
}

func NewRenderer(creator string) *Renderer {
	return &Renderer{creator: creator}
}

// Render lays the document out as a title, then one bold heading per
// section followed by its lines. Every page carries a "Page N" footer.
func (r *Renderer) Render(ctx context.Context, doc report.Document, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetTitle(doc.Title, true)
	if r.creator != "" {
		pdf.SetCreator(r.creator, true)
	}
	if !doc.GeneratedAt.IsZero() {
		pdf.SetCreationDate(doc.GeneratedAt)
		pdf.SetModificationDate(doc.GeneratedAt)
	}
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(fontFamily, "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont(fontFamily, "B", titleSize)
	pdf.CellFormat(0, lineHeight, tr(doc.Title), "", 1, "C", false, 0, "")
	pdf.Ln(lineHeight)

	for _, section := range doc.Sections {
		pdf.SetFont(fontFamily, "B", headingSize)
		pdf.CellFormat(0, lineHeight, tr(section.Heading+":"), "", 1, "L", false, 0, "")
		pdf.SetFont(fontFamily, "", bodySize)
		for _, line := range section.Lines {
			pdf.MultiCell(0, lineHeight, tr(line), "", "L", false)
		}
		pdf.Ln(lineHeight / 2)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
