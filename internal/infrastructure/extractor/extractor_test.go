package extractor

import (
	"context"
	"strings"
	"testing"

	"github.com/kirillkom/resume-classifier/internal/core/domain"
)

func extract(t *testing.T, filename string, content []byte) (string, error) {
	t.Helper()
	return New().Extract(context.Background(), domain.UploadedDocument{Filename: filename, Content: content})
}

func TestExtractDOCXJoinsParagraphsWithNewline(t *testing.T) {
	text, err := extract(t, "resume.docx", buildDOCX(t, []string{"Hello", "", "World"}, ""))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if text != "Hello\n\nWorld" {
		t.Fatalf("expected %q, got %q", "Hello\n\nWorld", text)
	}
}

func TestExtractDOCXRunsTabsAndBreaks(t *testing.T) {
	body := `<w:p><w:r><w:t>Go</w:t></w:r><w:r><w:tab/><w:t>Rust</w:t><w:br/><w:t>C &amp; C++</w:t></w:r></w:p>`
	text, err := extract(t, "cv.DOCX", buildDOCX(t, []string{"Skills"}, body))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if text != "Skills\nGo\tRust\nC & C++" {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestExtractDOCXSkipsTableParagraphs(t *testing.T) {
	table := `<w:tbl><w:tr><w:tc><w:p><w:r><w:t>cell</w:t></w:r></w:p></w:tc></w:tr></w:tbl>`
	text, err := extract(t, "cv.docx", buildDOCX(t, []string{"Intro"}, table+`<w:p><w:r><w:t>Outro</w:t></w:r></w:p>`))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if text != "Intro\nOutro" {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestExtractDOCXIgnoresTextboxContent(t *testing.T) {
	body := `<w:p><w:r><w:t>Name</w:t></w:r><w:r><w:drawing><wp:inline xmlns:wp="urn:wp"><a:graphic xmlns:a="urn:a"><a:graphicData>` +
		`<wps:wsp xmlns:wps="urn:wps"><wps:txbx><w:txbxContent><w:p><w:r><w:t>BOX</w:t></w:r></w:p></w:txbxContent></wps:txbx></wps:wsp>` +
		`</a:graphicData></a:graphic></wp:inline></w:drawing></w:r></w:p>` +
		`<w:p><w:r><w:t>A</w:t><w:br w:type="page"/><w:t>B</w:t></w:r></w:p>`
	text, err := extract(t, "cv.docx", buildDOCX(t, nil, body))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if text != "Name\nAB" {
		t.Fatalf("expected %q, got %q", "Name\nAB", text)
	}
}

func TestExtractDOCXSkipsAlternateContent(t *testing.T) {
	body := `<w:p><w:r><w:t>Lead</w:t></w:r><w:r><mc:AlternateContent xmlns:mc="urn:mc">` +
		`<mc:Choice><w:drawing><w:txbxContent><w:p><w:r><w:t>dup</w:t></w:r></w:p></w:txbxContent></w:drawing></mc:Choice>` +
		`<mc:Fallback><w:pict><w:txbxContent><w:p><w:r><w:t>dup</w:t></w:r></w:p></w:txbxContent></w:pict></mc:Fallback>` +
		`</mc:AlternateContent></w:r><w:r><w:t>Tail</w:t></w:r></w:p>`
	text, err := extract(t, "cv.docx", buildDOCX(t, nil, body))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if text != "LeadTail" {
		t.Fatalf("expected %q, got %q", "LeadTail", text)
	}
}

func TestExtractDOCXBreakTypes(t *testing.T) {
	body := `<w:p><w:r><w:t>a</w:t><w:br w:type="textWrapping"/><w:t>b</w:t><w:br w:type="column"/><w:t>c</w:t><w:br/><w:t>d</w:t></w:r></w:p>`
	text, err := extract(t, "cv.docx", buildDOCX(t, nil, body))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if text != "a\nbc\nd" {
		t.Fatalf("expected %q, got %q", "a\nbc\nd", text)
	}
}

func TestExtractDOCXCorruptContainer(t *testing.T) {
	_, err := extract(t, "cv.docx", []byte("definitely not a zip archive"))
	if !domain.IsKind(err, domain.ErrExtraction) {
		t.Fatalf("expected ErrExtraction, got %v", err)
	}
}

func TestExtractDOCXMissingBodyPart(t *testing.T) {
	raw := buildZip(t, map[string]string{"word/styles.xml": "<w:styles/>"})
	_, err := extract(t, "cv.docx", raw)
	if !domain.IsKind(err, domain.ErrExtraction) {
		t.Fatalf("expected ErrExtraction, got %v", err)
	}
	if !strings.Contains(err.Error(), docxBodyPart) {
		t.Fatalf("expected missing part in error, got %v", err)
	}
}

func TestExtractDOCXTruncatedBody(t *testing.T) {
	raw := buildZip(t, map[string]string{docxBodyPart: `<w:document xmlns:w="x"><w:body><w:p><w:r><w:t>cut`})
	_, err := extract(t, "cv.docx", raw)
	if !domain.IsKind(err, domain.ErrExtraction) {
		t.Fatalf("expected ErrExtraction, got %v", err)
	}
}

func TestExtractPDFZeroPages(t *testing.T) {
	text, err := extract(t, "empty.pdf", buildPDF(t, nil))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if text != "" {
		t.Fatalf("expected empty text, got %q", text)
	}
}

func TestExtractPDFPreservesPageOrder(t *testing.T) {
	text, err := extract(t, "cv.pdf", buildPDF(t, []string{"FirstPage", "SecondPage"}))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	first := strings.Index(text, "FirstPage")
	second := strings.Index(text, "SecondPage")
	if first < 0 || second < 0 {
		t.Fatalf("expected both pages in %q", text)
	}
	if first > second {
		t.Fatalf("pages out of order in %q", text)
	}
}

func TestExtractPDFCorruptContainer(t *testing.T) {
	_, err := extract(t, "cv.pdf", []byte("%PDF-1.4\nthis is not really a pdf\n"))
	if !domain.IsKind(err, domain.ErrExtraction) {
		t.Fatalf("expected ErrExtraction, got %v", err)
	}
}

func TestExtractPlainTextKeepsContent(t *testing.T) {
	text, err := extract(t, "resume.txt", []byte("  Experienced in Python, Django  \n"))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if text != "  Experienced in Python, Django  \n" {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestExtractUnknownExtensionTreatedAsText(t *testing.T) {
	for _, name := range []string{"resume", "resume.md", "resume.doc"} {
		text, err := extract(t, name, []byte("Résumé"))
		if err != nil {
			t.Fatalf("Extract(%q) error = %v", name, err)
		}
		if text != "Résumé" {
			t.Fatalf("Extract(%q) = %q", name, text)
		}
	}
}

func TestExtractPlainTextInvalidUTF8(t *testing.T) {
	_, err := extract(t, "resume.bin", []byte{0xff, 0xfe, 'a'})
	if !domain.IsKind(err, domain.ErrExtraction) {
		t.Fatalf("expected ErrExtraction, got %v", err)
	}
}

func TestExtractHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().Extract(ctx, domain.UploadedDocument{Filename: "a.txt", Content: []byte("a")})
	if err == nil {
		t.Fatalf("expected context error")
	}
}
