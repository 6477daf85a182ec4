package domain

import (
	"errors"
	"fmt"
)

var (
	ErrResumeNotFound = errors.New("resume not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrTemporary      = errors.New("temporary failure")

	// Pipeline failure kinds.
	ErrExtraction     = errors.New("text extraction failed")
	ErrEmptyText      = errors.New("empty extracted text")
	ErrClassification = errors.New("classification failed")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}

// FailureKind returns a short label for metrics and logs.
func FailureKind(err error) string {
	switch {
	case err == nil:
		return ""
	case IsKind(err, ErrEmptyText):
		return "empty_text"
	case IsKind(err, ErrExtraction):
		return "extraction"
	case IsKind(err, ErrInvalidInput):
		return "invalid_input"
	case IsKind(err, ErrClassification):
		return "classification"
	case IsKind(err, ErrTemporary):
		return "temporary"
	default:
		return "unclassified"
	}
}

// FailureMessage renders the user-visible text for a failed interaction.
func FailureMessage(err error) string {
	if err == nil {
		return ""
	}
	if IsKind(err, ErrEmptyText) {
		return "Unable to extract text from the file."
	}
	return fmt.Sprintf("Error processing file: %v", err)
}
