// Package mcpadapter exposes the classifier as a Model Context Protocol tool.
package mcpadapter

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kirillkom/resume-classifier/internal/core/domain"
	"github.com/kirillkom/resume-classifier/internal/core/ports"
)

const ToolClassifyResume = "classify_resume"

type Server struct {
	classifier ports.ResumeClassifier
	maxBytes   int64
	mcp        *server.MCPServer
}

func NewServer(classifier ports.ResumeClassifier, version string, maxBytes int64) *Server {
	s := &Server{
		classifier: classifier,
		maxBytes:   maxBytes,
		mcp: server.NewMCPServer(
			"resume-classifier",
			version,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
		),
	}

	tool := mcp.NewTool(ToolClassifyResume,
		mcp.WithDescription("Predict the job category of a résumé. Pass either plain text, or a filename (.pdf, .docx, .txt) with base64 file content."),
		mcp.WithString("text", mcp.Description("Résumé text, used instead of a file")),
		mcp.WithString("filename", mcp.Description("Original file name; the extension selects the extractor")),
		mcp.WithString("content_base64", mcp.Description("Base64-encoded file content")),
	)
	s.mcp.AddTool(tool, s.handleClassify)
	return s
}

// ServeStdio blocks until ctx is cancelled or stdin is closed.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	return server.NewStdioServer(s.mcp).Listen(ctx, in, out)
}

func (s *Server) handleClassify(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := request.GetString("text", "")
	filename := strings.TrimSpace(request.GetString("filename", ""))
	encoded := request.GetString("content_base64", "")

	var (
		prediction domain.Prediction
		err        error
	)
	switch {
	case filename != "":
		doc, decodeErr := s.decodeDocument(filename, encoded)
		if decodeErr != nil {
			return mcp.NewToolResultError(decodeErr.Error()), nil
		}
		prediction, err = s.classifier.ClassifyDocument(ctx, doc)
	case text != "":
		prediction, err = s.classifier.ClassifyText(ctx, text)
	default:
		return mcp.NewToolResultError("either text or filename with content_base64 is required"), nil
	}
	if err != nil {
		return mcp.NewToolResultError(domain.FailureMessage(err)), nil
	}
	return mcp.NewToolResultText(prediction.Message()), nil
}

func (s *Server) decodeDocument(filename, encoded string) (domain.UploadedDocument, error) {
	if s.maxBytes > 0 && int64(base64.StdEncoding.DecodedLen(len(encoded))) > s.maxBytes+2 {
		return domain.UploadedDocument{}, fmt.Errorf("file exceeds %d bytes", s.maxBytes)
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return domain.UploadedDocument{}, errors.New("content_base64 is not valid base64")
	}
	if s.maxBytes > 0 && int64(len(raw)) > s.maxBytes {
		return domain.UploadedDocument{}, fmt.Errorf("file exceeds %d bytes", s.maxBytes)
	}
	return domain.UploadedDocument{Filename: filename, Content: raw}, nil
}
