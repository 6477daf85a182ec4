package httpadapter

import (
	"errors"
	"net/http"

	"github.com/kirillkom/resume-classifier/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrResumeNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrEmptyText), domain.IsKind(err, domain.ErrExtraction):
		return http.StatusUnprocessableEntity
	case domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}

// writePipelineError renders classification failures with the same wording the
// result panel shows.
func writePipelineError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": domain.FailureMessage(err)})
}
