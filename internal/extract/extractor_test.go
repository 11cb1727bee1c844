package extract

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSupported(t *testing.T) {
	for _, ext := range []string{".txt", ".pdf", ".docx", ".TXT", ".Pdf"} {
		if !Supported(ext) {
			t.Errorf("Supported(%q) = false", ext)
		}
	}
	for _, ext := range []string{".csv", ".doc", ".html", ""} {
		if Supported(ext) {
			t.Errorf("Supported(%q) = true", ext)
		}
	}
}

func TestExtract_plainText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "MSFT_10K_FY2025.txt")
	want := "Revenue grew 10%.\n\nNet income rose."
	if err := os.WriteFile(path, []byte(want), 0644); err != nil {
		t.Fatal(err)
	}
	e := NewExtractor()
	got, err := e.Extract(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("Extract() = %q, want %q", got, want)
	}
}

func TestExtract_invalidUTF8Replaced(t *testing.T) {
	e := NewExtractor()
	got, err := e.ExtractBytes([]byte{'o', 'k', 0xff, 0xfe, '!'}, ".txt")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "ok") || !strings.Contains(got, "�") {
		t.Errorf("invalid bytes should be replaced, got %q", got)
	}
}

func TestExtract_missingFile(t *testing.T) {
	e := NewExtractor()
	if _, err := e.Extract(filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func makeDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestExtract_docx(t *testing.T) {
	docXML := `<?xml version="1.0"?><w:document><w:body>` +
		`<w:p><w:r><w:t>Operator remarks.</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t xml:space="preserve">Prepared statement follows.</w:t></w:r></w:p>` +
		`</w:body></w:document>`
	e := NewExtractor()
	got, err := e.ExtractBytes(makeDOCX(t, docXML), ".docx")
	if err != nil {
		t.Fatal(err)
	}
	want := "Operator remarks. Prepared statement follows."
	if got != want {
		t.Errorf("ExtractBytes() = %q, want %q", got, want)
	}
}

func TestExtract_docxNotAZip(t *testing.T) {
	e := NewExtractor()
	if _, err := e.ExtractBytes([]byte("plain text, not a zip"), ".docx"); err == nil {
		t.Error("expected error for non-zip docx")
	}
}

func TestExtract_docxMissingDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/styles.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("<w:styles/>")); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	e := NewExtractor()
	if _, err := e.ExtractBytes(buf.Bytes(), ".docx"); err == nil {
		t.Error("expected error when word/document.xml is absent")
	}
}

func TestExtract_pdfGarbage(t *testing.T) {
	e := NewExtractor()
	if _, err := e.ExtractBytes([]byte("not a pdf"), ".pdf"); err == nil {
		t.Error("expected error for malformed pdf")
	}
}
