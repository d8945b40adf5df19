package service

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// UnsupportedFormatError indicates a document format the extractor cannot
// pre-process for text-only providers.
type UnsupportedFormatError struct {
	MimeType string
}

// Error returns the error message.
func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported document format %q; supported formats are PDF, DOCX, and plain text", e.MimeType)
}

const docxMimeType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// ExtractDocumentText extracts plain text from a document so it can be sent
// to providers that do not accept raw binary uploads.
func ExtractDocumentText(data []byte, mimeType string) (string, error) {
	switch {
	case mimeType == "application/pdf":
		return extractPDFText(data)
	case mimeType == docxMimeType:
		return extractDocxText(data)
	case strings.HasPrefix(mimeType, "text/"):
		return string(data), nil
	default:
		// Legacy .doc and everything else binary.
		return "", &UnsupportedFormatError{MimeType: mimeType}
	}
}

// extractPDFText pulls the plain text out of a PDF document.
func extractPDFText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	textReader, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract PDF text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(textReader); err != nil {
		return "", fmt.Errorf("failed to read PDF text: %w", err)
	}
	return buf.String(), nil
}

// extractDocxText pulls the paragraph text out of a DOCX archive. A DOCX
// file is a zip containing word/document.xml; the character data of that
// XML, with paragraph breaks preserved, is the document text.
func extractDocxText(data []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open DOCX archive: %w", err)
	}

	var docXML io.ReadCloser
	for _, f := range archive.File {
		if f.Name == "word/document.xml" {
			docXML, err = f.Open()
			if err != nil {
				return "", fmt.Errorf("failed to open document.xml: %w", err)
			}
			break
		}
	}
	if docXML == nil {
		return "", fmt.Errorf("DOCX archive has no word/document.xml")
	}
	defer docXML.Close()

	decoder := xml.NewDecoder(docXML)
	var b strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.EndElement:
			if t.Name.Local == "p" {
				b.WriteString("\n")
			}
		}
	}
	return b.String(), nil
}
