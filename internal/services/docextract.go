package services

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	pdf "github.com/ledongthuc/pdf"

	"github.com/overruled/mocktrial-backend/internal/apierr"
	"github.com/overruled/mocktrial-backend/internal/logger"
)

// DocumentService is the document collaborator: it converts uploaded
// exhibits to plain text before they reach the case intake. The verdict
// core only ever sees the extracted text.
type DocumentService struct {
	log *logger.Logger
}

func NewDocumentService(baseLog *logger.Logger) *DocumentService {
	return &DocumentService{log: baseLog.With("service", "DocumentService")}
}

// ExtractText determines the real file type from the bytes first (magic
// sniffing beats the declared mime type), then extracts accordingly.
// Supported: PDF, DOCX, plain text / markdown, HTML.
func (ds *DocumentService) ExtractText(originalName, mimeType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", apierr.Newf(apierr.KindValidation, "empty file: %s", originalName)
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	mt := strings.ToLower(strings.TrimSpace(mimeType))

	switch {
	case hasPDFHeader(data):
		return extractPDFText(data)
	case hasZipHeader(data):
		// DOCX is a zip container with word/ parts.
		text, err := extractDOCXText(data)
		if err != nil {
			return "", apierr.Wrap(apierr.KindValidation,
				fmt.Sprintf("unsupported zip container: %s", originalName), err)
		}
		return text, nil
	case looksLikeHTML(data) || mt == "text/html" || ext == ".html" || ext == ".htm":
		return stripHTML(string(data)), nil
	case isProbablyText(data) || mt == "text/plain" || ext == ".txt" || ext == ".md":
		return normalizeWhitespace(string(data)), nil
	}

	if mt == "application/pdf" || ext == ".pdf" {
		return "", apierr.Newf(apierr.KindValidation,
			"file %s claims to be pdf but has no %%PDF header", originalName)
	}
	return "", apierr.Newf(apierr.KindValidation,
		"unsupported file type: name=%s ext=%s mime=%s", originalName, ext, mt)
}

func hasPDFHeader(b []byte) bool {
	return len(b) >= 5 && string(b[:5]) == "%PDF-"
}

func hasZipHeader(b []byte) bool {
	return len(b) >= 4 && b[0] == 'P' && b[1] == 'K' && b[2] == 3 && b[3] == 4
}

func looksLikeHTML(b []byte) bool {
	head := strings.ToLower(strings.TrimSpace(string(b[:minInt(len(b), 2048)])))
	return strings.HasPrefix(head, "<!doctype") ||
		strings.HasPrefix(head, "<html") ||
		(strings.Contains(head, "<html") && strings.Contains(head, "<body"))
}

// isProbablyText accepts data where nearly every byte is printable or
// whitespace and there are no NULs.
func isProbablyText(b []byte) bool {
	sample := b[:minInt(len(b), 4096)]
	good := 0
	for _, c := range sample {
		if c == 0x00 {
			return false
		}
		if c == '\n' || c == '\r' || c == '\t' || (c >= 0x20 && c <= 0x7E) || c >= 0x80 {
			good++
		}
	}
	return float64(good)/float64(len(sample)) > 0.9
}

func extractPDFText(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", apierr.Wrap(apierr.KindValidation, "pdf reader", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", apierr.Wrap(apierr.KindValidation, "pdf plaintext", err)
	}
	b, err := io.ReadAll(plain)
	if err != nil {
		return "", apierr.Wrap(apierr.KindValidation, "pdf read", err)
	}
	return normalizeWhitespace(string(b)), nil
}

func extractDOCXText(zipBytes []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(zipBytes), int64(len(zipBytes)))
	if err != nil {
		return "", err
	}
	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", fmt.Errorf("zip has no word/document.xml part")
	}

	rc, err := doc.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()
	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}

	text := collectXMLText(raw, "t")
	if text == "" {
		return "", fmt.Errorf("no text found in document.xml")
	}
	return normalizeWhitespace(text), nil
}

// collectXMLText gathers the character data of every element with the
// given local name ("t" holds the runs in WordprocessingML).
func collectXMLText(raw []byte, localName string) string {
	dec := xml.NewDecoder(bytes.NewReader(raw))
	var out strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != localName {
			continue
		}
		var v string
		_ = dec.DecodeElement(&v, &se)
		if v != "" {
			out.WriteString(v)
			out.WriteString(" ")
		}
	}
	return out.String()
}

var htmlTagRe = regexp.MustCompile(`(?s)<[^>]*>`)

func stripHTML(s string) string {
	s = htmlTagRe.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = strings.ReplaceAll(s, "&amp;", "&")
	return normalizeWhitespace(s)
}

func normalizeWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.Join(strings.Fields(s), " ")
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
