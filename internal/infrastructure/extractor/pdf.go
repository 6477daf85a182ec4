package extractor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/kirillkom/resume-classifier/internal/core/domain"
)

// extractPDF concatenates the plain text of every page in page order. A
// document without pages yields an empty string.
func extractPDF(raw []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = domain.WrapError(domain.ErrExtraction, "read pdf", fmt.Errorf("malformed document: %v", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", domain.WrapError(domain.ErrExtraction, "open pdf", err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		// Fonts are resolved per page; resource names are not unique across pages.
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", domain.WrapError(domain.ErrExtraction, fmt.Sprintf("read pdf page %d", i), err)
		}
		b.WriteString(pageText)
	}
	return b.String(), nil
}
