package httpadapter

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/kirillkom/resume-classifier/internal/core/domain"
)

const (
	// multipartOverhead is headroom for boundaries and part headers on top of
	// the file size limit.
	multipartOverhead = 64 << 10
	multipartMemory   = 8 << 20
)

func (rt *Router) uploadLimit() int64 {
	if rt.cfg.MaxUploadBytes <= 0 {
		return 5 << 20
	}
	return rt.cfg.MaxUploadBytes
}

// readUpload pulls the single "file" part into memory, enforcing the upload
// size limit on both the request and the file itself.
func (rt *Router) readUpload(w http.ResponseWriter, r *http.Request) (domain.UploadedDocument, string, error) {
	limit := rt.uploadLimit()
	r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return domain.UploadedDocument{}, "", err
		}
		return domain.UploadedDocument{}, "", domain.WrapError(domain.ErrInvalidInput, "read upload", errors.New("multipart field 'file' is required"))
	}
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return domain.UploadedDocument{}, "", domain.WrapError(domain.ErrInvalidInput, "read upload", errors.New("multipart field 'file' is required"))
	}
	defer file.Close()

	if strings.TrimSpace(header.Filename) == "" {
		return domain.UploadedDocument{}, "", domain.WrapError(domain.ErrInvalidInput, "read upload", errors.New("filename is required"))
	}

	raw, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return domain.UploadedDocument{}, "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(raw)) > limit {
		return domain.UploadedDocument{}, "", &http.MaxBytesError{Limit: limit}
	}

	return domain.UploadedDocument{Filename: header.Filename, Content: raw}, header.Header.Get("Content-Type"), nil
}
