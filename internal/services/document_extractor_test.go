package services

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/testutil"
)

func TestExtractTextDOCX(t *testing.T) {
	extractor := NewDocumentExtractor()

	doc := docxDocument(t, "jane.docx", "Jane A. Doe", "", "Phone: +1 555-123-4567", "Skills: Go & SQL")
	text, err := extractor.ExtractText(doc)
	if err != nil {
		t.Fatalf("ExtractText() error = %v", err)
	}

	want := "Jane A. Doe\n\nPhone: +1 555-123-4567\nSkills: Go & SQL"
	if text != want {
		t.Errorf("ExtractText() = %q, want %q", text, want)
	}
}

func TestExtractTextPDF(t *testing.T) {
	extractor := NewDocumentExtractor()

	tests := []struct {
		name  string
		pages []string
		want  string
	}{
		{name: "single page", pages: []string{"Jane Doe"}, want: "Jane Doe"},
		{name: "pages in order", pages: []string{"Jane Doe", "jane@example.com", "Skills: Go"}, want: "Jane Doe\njane@example.com\nSkills: Go"},
		{name: "blank page skipped", pages: []string{"Jane Doe", "", "jane@example.com"}, want: "Jane Doe\njane@example.com"},
		{name: "no text at all", pages: []string{""}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := models.ResumeDocument{
				Filename:  "resume.pdf",
				MediaType: models.MediaTypePDF,
				Content:   testutil.BuildPDF(t, tt.pages...),
			}

			text, err := extractor.ExtractText(doc)
			if err != nil {
				t.Fatalf("ExtractText() error = %v", err)
			}
			if text != tt.want {
				t.Errorf("ExtractText() = %q, want %q", text, tt.want)
			}
		})
	}
}

func TestExtractTextUnsupportedFormat(t *testing.T) {
	extractor := NewDocumentExtractor()

	tests := []struct {
		name      string
		mediaType string
	}{
		{name: "image", mediaType: "image/png"},
		{name: "legacy word", mediaType: "application/msword"},
		{name: "empty", mediaType: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := extractor.ExtractText(models.ResumeDocument{Filename: "x", MediaType: tt.mediaType, Content: []byte("data")})

			var unsupported *models.UnsupportedFormatError
			if !errors.As(err, &unsupported) {
				t.Fatalf("ExtractText() error = %v, want UnsupportedFormatError", err)
			}
			if unsupported.MediaType != tt.mediaType {
				t.Errorf("MediaType = %q, want %q", unsupported.MediaType, tt.mediaType)
			}
		})
	}
}

func TestExtractTextCorruptDocuments(t *testing.T) {
	extractor := NewDocumentExtractor()

	for _, mediaType := range []string{models.MediaTypePDF, models.MediaTypeDOCX} {
		_, err := extractor.ExtractText(models.ResumeDocument{Filename: "broken", MediaType: mediaType, Content: []byte("not a document")})
		if err == nil {
			t.Errorf("ExtractText(%s) expected error for corrupt content", mediaType)
		}
	}
}

func TestDocumentParagraphs(t *testing.T) {
	body := `<w:document xmlns:w="w"><w:body>` +
		`<w:p><w:r><w:t>Senior</w:t></w:r><w:r><w:tab/><w:t>Engineer</w:t></w:r></w:p>` +
		`<w:p></w:p>` +
		`<w:p><w:r><w:t>Line</w:t><w:br/><w:t>break</w:t></w:r></w:p>` +
		`</w:body></w:document>`

	got, err := documentParagraphs(body)
	if err != nil {
		t.Fatalf("documentParagraphs() error = %v", err)
	}

	want := []string{"Senior\tEngineer", "", "Line\nbreak"}
	if len(got) != len(want) {
		t.Fatalf("documentParagraphs() = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("paragraph %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestReadDocumentFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Resume.DOCX")
	if err := os.WriteFile(path, testutil.BuildDocx(t, "John Smith"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	doc, err := ReadDocumentFile(path)
	if err != nil {
		t.Fatalf("ReadDocumentFile() error = %v", err)
	}
	if doc.Filename != "Resume.DOCX" || doc.MediaType != models.MediaTypeDOCX {
		t.Errorf("ReadDocumentFile() = %+v", doc)
	}

	if _, err := ReadDocumentFile(filepath.Join(dir, "missing.pdf")); err == nil {
		t.Error("expected error for missing file")
	}
}
