package service

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"
)

// buildDocx assembles a minimal DOCX archive around the given document XML.
func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("word/document.xml")
	if err != nil {
		t.Fatalf("failed to create zip entry: %v", err)
	}
	if _, err := f.Write([]byte(documentXML)); err != nil {
		t.Fatalf("failed to write zip entry: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	return buf.Bytes()
}

func TestExtractDocumentTextPlainText(t *testing.T) {
	text, err := ExtractDocumentText([]byte("patient notes"), "text/plain")
	if err != nil {
		t.Fatalf("ExtractDocumentText returned error: %v", err)
	}
	if text != "patient notes" {
		t.Errorf("expected passthrough, got %q", text)
	}
}

func TestExtractDocumentTextDocx(t *testing.T) {
	docXML := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Medical history: hypothyroidism.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Medications: levothyroxine.</w:t></w:r></w:p>
  </w:body>
</w:document>`

	data := buildDocx(t, docXML)
	text, err := ExtractDocumentText(data, docxMimeType)
	if err != nil {
		t.Fatalf("ExtractDocumentText returned error: %v", err)
	}
	if !strings.Contains(text, "hypothyroidism") || !strings.Contains(text, "levothyroxine") {
		t.Errorf("paragraph text not extracted: %q", text)
	}
	// Paragraphs must stay separated, not run together.
	if !strings.Contains(text, "hypothyroidism.\n") {
		t.Errorf("expected paragraph break after first paragraph: %q", text)
	}
}

func TestExtractDocumentTextDocxWithoutDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, _ := w.Create("word/styles.xml")
	f.Write([]byte("<styles/>"))
	w.Close()

	_, err := ExtractDocumentText(buf.Bytes(), docxMimeType)
	if err == nil {
		t.Fatal("expected error for DOCX without word/document.xml")
	}
}

func TestExtractDocumentTextCorruptPDF(t *testing.T) {
	_, err := ExtractDocumentText([]byte("not a pdf"), "application/pdf")
	if err == nil {
		t.Fatal("expected error for corrupt PDF")
	}
}

func TestExtractDocumentTextLegacyDoc(t *testing.T) {
	_, err := ExtractDocumentText([]byte{0xD0, 0xCF, 0x11, 0xE0}, "application/msword")
	var formatErr *UnsupportedFormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("expected UnsupportedFormatError for legacy .doc, got %v", err)
	}
	if formatErr.MimeType != "application/msword" {
		t.Errorf("unexpected mime type in error: %q", formatErr.MimeType)
	}
}
