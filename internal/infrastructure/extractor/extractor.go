package extractor

import (
	"context"
	"fmt"

	"github.com/kirillkom/resume-classifier/internal/core/domain"
)

// Extractor turns an uploaded document into plain text. The handler is picked
// by the filename extension; there is no registration of extra formats.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(ctx context.Context, doc domain.UploadedDocument) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	switch format := doc.Format(); format {
	case domain.FormatPDF:
		return extractPDF(doc.Content)
	case domain.FormatDOCX:
		return extractDOCX(doc.Content)
	case domain.FormatText:
		return extractPlainText(doc.Content)
	default:
		return "", domain.WrapError(domain.ErrExtraction, "extract text", fmt.Errorf("no handler for format %q", format))
	}
}
