package extractor

import (
	"errors"
	"unicode/utf8"

	"github.com/kirillkom/resume-classifier/internal/core/domain"
)

// extractPlainText decodes the upload as UTF-8 without trimming.
func extractPlainText(raw []byte) (string, error) {
	if !utf8.Valid(raw) {
		return "", domain.WrapError(domain.ErrExtraction, "decode plain text", errors.New("content is not valid utf-8"))
	}
	return string(raw), nil
}
