package services

import (
	"regexp"
	"strings"

	"alfredoptarigan/resume-screener/internal/models"
)

var (
	phonePattern = regexp.MustCompile(`\+?\d[\d -]{8,}\d`)
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
)

// ExtractCandidateInfo pulls name, phone and email out of resume text.
// The name is the first non-blank line; phone and email are the first pattern matches.
// Missing fields are set to models.NotFound.
func ExtractCandidateInfo(text string) models.CandidateInfo {
	info := models.CandidateInfo{
		Name:  models.NotFound,
		Phone: models.NotFound,
		Email: models.NotFound,
	}

	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			info.Name = line
			break
		}
	}

	if phone := phonePattern.FindString(text); phone != "" {
		info.Phone = phone
	}

	if email := emailPattern.FindString(text); email != "" {
		info.Email = email
	}

	return info
}
