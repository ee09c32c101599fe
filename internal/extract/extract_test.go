package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"testing"
)

func buildDocx(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	doc := `<?xml version="1.0" encoding="UTF-8"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` + body + `</w:body></w:document>`
	if _, err := w.Write([]byte(doc)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestTextDocx(t *testing.T) {
	data := buildDocx(t, `<w:p><w:r><w:t>John Doe</w:t></w:r></w:p><w:p></w:p><w:p></w:p><w:p><w:r><w:t>Senior Engineer</w:t></w:r></w:p>`)

	text, err := Text(context.Background(), data, mimeDOCX, "cv.docx")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if text != "John Doe\n\nSenior Engineer" {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestTextZipDocxNormalizes(t *testing.T) {
	data := buildDocx(t, `<w:p><w:r><w:t>Hello</w:t></w:r></w:p>`)

	for _, mime := range []string{"application/zip", "application/octet-stream", ""} {
		if _, err := Text(context.Background(), data, mime, "test.docx"); err != nil {
			t.Fatalf("expected docx to extract with mime %q, got error: %v", mime, err)
		}
	}
}

func TestTextEmptyDocxHasNoText(t *testing.T) {
	data := buildDocx(t, `<w:p></w:p>`)
	_, err := Text(context.Background(), data, mimeDOCX, "cv.docx")
	if !errors.Is(err, ErrNoText) {
		t.Fatalf("expected ErrNoText, got %v", err)
	}
}

func TestTextRealZipRejected(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("notes.txt")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte("hello")); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	_, err = Text(context.Background(), buf.Bytes(), "application/zip", "notes.zip")
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestTextCorruptPDF(t *testing.T) {
	_, err := Text(context.Background(), []byte("%PDF-1.4 not really a pdf"), "application/octet-stream", "cv.pdf")
	if !errors.Is(err, ErrNoText) {
		t.Fatalf("expected ErrNoText, got %v", err)
	}
}

func TestTextMalformedPDFDoesNotPanic(t *testing.T) {
	cases := map[string]string{
		"xref offset past end": "%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\nstartxref\n999999\n%%EOF\n",
		"corrupt xref table":   "%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\nxref\n0 2\ngarbage\ntrailer\n<< /Root 1 0 R >>\nstartxref\n9\n%%EOF\n",
		"truncated":            "%PDF-1.7\n%\xe2\xe3\xcf\xd3\n1 0 obj\n<< /Length 10",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Text(context.Background(), []byte(body), "application/pdf", "cv.pdf")
			if !errors.Is(err, ErrNoText) {
				t.Fatalf("expected ErrNoText, got %v", err)
			}
		})
	}
}

func TestIsSupported(t *testing.T) {
	if !IsSupported("", "cv.pdf", nil) {
		t.Fatalf("expected pdf extension to be supported")
	}
	if !IsSupported("application/pdf", "", nil) {
		t.Fatalf("expected pdf mime to be supported")
	}
	if IsSupported("image/png", "photo.png", []byte{0x89, 'P', 'N', 'G'}) {
		t.Fatalf("expected png to be unsupported")
	}
}

func TestTextCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Text(ctx, nil, mimePDF, "cv.pdf"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestDetect(t *testing.T) {
	docx := buildDocx(t, `<w:p><w:r><w:t>x</w:t></w:r></w:p>`)
	tests := []struct {
		name     string
		mime     string
		fileName string
		data     []byte
		want     Format
	}{
		{"pdf signature beats declared type", "image/png", "x.png", []byte("%PDF-1.7"), FormatPDF},
		{"docx zip as octet stream", "application/octet-stream", "", docx, FormatDOCX},
		{"declared pdf without data", "application/pdf; charset=binary", "", nil, FormatPDF},
		{"extension fallback", "", "CV.DOCX", nil, FormatDOCX},
		{"plain text", "text/plain", "cv.txt", []byte("hello"), FormatUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.mime, tt.fileName, tt.data); got != tt.want {
				t.Fatalf("Detect = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTextDocxTabs(t *testing.T) {
	data := buildDocx(t, `<w:p><w:r><w:t>Go</w:t><w:tab/><w:t>5 years</w:t></w:r></w:p>`)
	text, err := Text(context.Background(), data, mimeDOCX, "cv.docx")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if text != "Go\t5 years" {
		t.Fatalf("unexpected text %q", text)
	}
}
