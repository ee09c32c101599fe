// Package extract pulls plain text out of uploaded resume documents (PDF, DOCX).
package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// MaxUploadBytes bounds accepted documents.
const MaxUploadBytes = 10 << 20

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var (
	// ErrUnsupported is returned for formats other than PDF and DOCX.
	ErrUnsupported = errors.New("unsupported document type")
	// ErrNoText is returned when a supported document yields no text, e.g. a scanned PDF.
	ErrNoText = errors.New("no extractable text")
)

// Format is a readable document kind.
type Format string

const (
	FormatUnknown Format = ""
	FormatPDF     Format = "pdf"
	FormatDOCX    Format = "docx"
)

// Detect decides the format from the file signature first, then the declared type, then
// the extension. A ZIP only counts as DOCX when it carries word/document.xml.
func Detect(mimeType, fileName string, data []byte) Format {
	if bytes.HasPrefix(data, []byte("%PDF-")) {
		return FormatPDF
	}
	if len(data) > 0 && bytes.HasPrefix(data, []byte("PK")) {
		if _, ok := docxBody(data); ok {
			return FormatDOCX
		}
		return FormatUnknown
	}
	declared := strings.ToLower(strings.TrimSpace(strings.SplitN(mimeType, ";", 2)[0]))
	switch declared {
	case mimePDF:
		return FormatPDF
	case mimeDOCX:
		return FormatDOCX
	case "", "application/octet-stream", "application/zip":
		switch strings.ToLower(filepath.Ext(fileName)) {
		case ".pdf":
			return FormatPDF
		case ".docx":
			return FormatDOCX
		}
	}
	return FormatUnknown
}

// IsSupported reports whether the upload is one we can read.
func IsSupported(mimeType, fileName string, data []byte) bool {
	return Detect(mimeType, fileName, data) != FormatUnknown
}

// Text extracts normalized plain text from an uploaded document.
func Text(ctx context.Context, data []byte, mimeType, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var (
		text string
		err  error
	)
	switch format := Detect(mimeType, fileName, data); format {
	case FormatPDF:
		text, err = pdfText(data)
	case FormatDOCX:
		text, err = docxText(data)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupported, mimeType)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoText, err)
	}
	if text = tidy(text); text == "" {
		return "", ErrNoText
	}
	return text, nil
}

// pdfText reads a PDF text layer. The parser panics on some malformed inputs (bad xref
// offsets, truncated objects); those surface as ErrNoText.
func pdfText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("%w: malformed pdf: %v", ErrNoText, r)
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	b, err := io.ReadAll(plain)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func docxBody(data []byte) (*zip.File, bool) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, false
	}
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == "word/document.xml" {
			return f, true
		}
	}
	return nil, false
}

func docxText(data []byte) (string, error) {
	f, ok := docxBody(data)
	if !ok {
		return "", errors.New("word/document.xml not found")
	}
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	var sb strings.Builder
	dec := xml.NewDecoder(rc)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("decode document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.StartElement:
			if t.Name.Local == "tab" {
				sb.WriteByte('\t')
			}
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				sb.WriteByte('\n')
			}
		}
	}
	return sb.String(), nil
}

// tidy trims every line and folds runs of blank lines into one.
func tidy(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	out := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" && (len(out) == 0 || out[len(out)-1] == "") {
			continue
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
