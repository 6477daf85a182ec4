package extractor

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kirillkom/resume-classifier/internal/core/domain"
)

const docxBodyPart = "word/document.xml"

// Subtrees inside a paragraph that hold text of other paragraphs, such as
// textboxes and shapes.
var docxForeignSubtrees = map[string]bool{
	"p":                true,
	"drawing":          true,
	"pict":             true,
	"object":           true,
	"AlternateContent": true,
	"txbxContent":      true,
}

// extractDOCX joins the text of the body's top-level paragraphs with a single
// newline. Paragraphs nested in tables or content controls are not part of
// the body sequence and are skipped.
func extractDOCX(raw []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", domain.WrapError(domain.ErrExtraction, "open docx", err)
	}

	var part *zip.File
	for _, f := range zr.File {
		if f.Name == docxBodyPart {
			part = f
			break
		}
	}
	if part == nil {
		return "", domain.WrapError(domain.ErrExtraction, "open docx", errors.New("missing "+docxBodyPart))
	}

	rc, err := part.Open()
	if err != nil {
		return "", domain.WrapError(domain.ErrExtraction, "open docx body", err)
	}
	defer rc.Close()

	paragraphs, err := readBodyParagraphs(rc)
	if err != nil {
		return "", domain.WrapError(domain.ErrExtraction, "parse docx body", err)
	}
	return strings.Join(paragraphs, "\n"), nil
}

func readBodyParagraphs(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)

	var (
		stack      []string
		paragraphs []string
		current    strings.Builder
		inPara     bool
		paraDepth  int
		inText     bool
		skipDepth  int
	)

	parent := func() string {
		if len(stack) < 2 {
			return ""
		}
		return stack[len(stack)-2]
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			stack = append(stack, t.Name.Local)
			if !inPara {
				if t.Name.Local == "p" && parent() == "body" {
					inPara = true
					paraDepth = len(stack)
					current.Reset()
				}
				continue
			}
			if skipDepth > 0 {
				continue
			}
			if docxForeignSubtrees[t.Name.Local] {
				skipDepth = len(stack)
				continue
			}
			if parent() != "r" {
				continue
			}
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				current.WriteByte('\t')
			case "cr":
				current.WriteByte('\n')
			case "br":
				if isLineBreak(t) {
					current.WriteByte('\n')
				}
			}
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("unbalanced element %s", t.Name.Local)
			}
			if skipDepth > 0 && len(stack) == skipDepth {
				skipDepth = 0
			}
			if inPara && len(stack) == paraDepth {
				paragraphs = append(paragraphs, current.String())
				inPara = false
			}
			if t.Name.Local == "t" {
				inText = false
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if inPara && inText {
				current.Write(t)
			}
		}
	}

	if len(stack) != 0 {
		return nil, errors.New("truncated document body")
	}
	return paragraphs, nil
}

// isLineBreak reports whether a w:br is a text-wrapping break. Page and
// column breaks carry no text.
func isLineBreak(br xml.StartElement) bool {
	for _, attr := range br.Attr {
		if attr.Name.Local == "type" {
			return attr.Value == "" || attr.Value == "textWrapping"
		}
	}
	return true
}
