package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// Format is the closed set of document formats the extractor understands.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatText Format = "text"
)

// DetectFormat picks the format from the filename extension. Anything that is
// not .pdf or .docx is treated as plain text.
func DetectFormat(filename string) Format {
	switch strings.ToLower(filepath.Ext(strings.TrimSpace(filename))) {
	case ".pdf":
		return FormatPDF
	case ".docx":
		return FormatDOCX
	default:
		return FormatText
	}
}

// UploadedDocument is the raw upload handed to the extractor.
type UploadedDocument struct {
	Filename string
	Content  []byte
}

func (d UploadedDocument) Format() Format {
	return DetectFormat(d.Filename)
}

type ResumeStatus string

const (
	StatusUploaded   ResumeStatus = "uploaded"
	StatusProcessing ResumeStatus = "processing"
	StatusReady      ResumeStatus = "ready"
	StatusFailed     ResumeStatus = "failed"
)

// Resume is the persisted record of an asynchronously classified upload.
type Resume struct {
	ID          string       `json:"id"`
	Filename    string       `json:"filename"`
	MimeType    string       `json:"mime_type"`
	StoragePath string       `json:"storage_path"`
	CategoryID  *int         `json:"category_id,omitempty"`
	Category    string       `json:"category,omitempty"`
	Status      ResumeStatus `json:"status"`
	Error       string       `json:"error,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
