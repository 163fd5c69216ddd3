package models

import (
	"path/filepath"
	"strings"
)

const (
	MediaTypePDF  = "application/pdf"
	MediaTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// ResumeDocument is one uploaded resume file.
type ResumeDocument struct {
	Filename  string
	MediaType string
	Content   []byte
}

// MediaTypeFromFilename guesses the media type from the file extension.
// Unknown extensions yield an empty string.
func MediaTypeFromFilename(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return MediaTypePDF
	case ".docx":
		return MediaTypeDOCX
	default:
		return ""
	}
}
