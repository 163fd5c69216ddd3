package services

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"alfredoptarigan/resume-screener/internal/models"
)

type DocumentExtractor interface {
	ExtractText(doc models.ResumeDocument) (string, error)
}

type documentExtractor struct{}

func NewDocumentExtractor() DocumentExtractor {
	return &documentExtractor{}
}

// ExtractText returns the trimmed plain text of a PDF or DOCX resume.
// Any other media type yields *models.UnsupportedFormatError.
func (e *documentExtractor) ExtractText(doc models.ResumeDocument) (string, error) {
	switch doc.MediaType {
	case models.MediaTypePDF:
		return extractPDFText(doc.Content)
	case models.MediaTypeDOCX:
		return extractDOCXText(doc.Content)
	default:
		return "", &models.UnsupportedFormatError{Filename: doc.Filename, MediaType: doc.MediaType}
	}
}

func extractPDFText(content []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var pages []string
	for pageIndex := 1; pageIndex <= r.NumPage(); pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		// Pages end with their own line break; the join adds the separator.
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		pages = append(pages, text)
	}

	return strings.TrimSpace(strings.Join(pages, "\n")), nil
}

func extractDOCXText(content []byte) (string, error) {
	r, err := docx.ReadDocxFromMemory(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("failed to open DOCX: %w", err)
	}
	defer r.Close()

	paragraphs, err := documentParagraphs(r.Editable().GetContent())
	if err != nil {
		return "", fmt.Errorf("failed to parse DOCX body: %w", err)
	}

	return strings.TrimSpace(strings.Join(paragraphs, "\n")), nil
}

// documentParagraphs walks word/document.xml and returns the text of each w:p in order.
func documentParagraphs(body string) ([]string, error) {
	decoder := xml.NewDecoder(strings.NewReader(body))

	var (
		paragraphs []string
		current    strings.Builder
		inText     bool
		depth      int
		props      int
	)

	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				if depth == 0 {
					current.Reset()
				}
				depth++
			case "pPr":
				props++
			case "t":
				inText = true
			case "tab":
				// Tab stops inside paragraph properties are not content.
				if props == 0 {
					current.WriteString("\t")
				}
			case "br", "cr":
				current.WriteString("\n")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				depth--
				if depth == 0 {
					paragraphs = append(paragraphs, current.String())
				}
			case "pPr":
				props--
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}

	return paragraphs, nil
}

// ReadDocumentFile loads a resume from disk, inferring the media type from its extension.
func ReadDocumentFile(path string) (models.ResumeDocument, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return models.ResumeDocument{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	name := filepath.Base(path)
	return models.ResumeDocument{
		Filename:  name,
		MediaType: models.MediaTypeFromFilename(name),
		Content:   content,
	}, nil
}
