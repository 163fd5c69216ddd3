package models

import "time"

// NotFound is stored in place of any candidate detail the extractor could not locate.
const NotFound = "Not Found"

// RecordID identifies a stored candidate record. The underlying store key is
// converted to and from this type inside the repositories only.
type RecordID string

func (id RecordID) String() string {
	return string(id)
}

type CandidateInfo struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type Evaluation struct {
	RawText string `json:"raw_text"`
	// OverallScore is nil when no score could be read from RawText.
	OverallScore *float64 `json:"overall_score"`
}

type CandidateRecord struct {
	ID               RecordID      `json:"id"`
	JobTitle         string        `json:"job_title"`
	Filename         string        `json:"filename"`
	Candidate        CandidateInfo `json:"candidate_info"`
	Evaluation       Evaluation    `json:"evaluation"`
	Status           Stage         `json:"status"`
	Notes            string        `json:"notes"`
	ResumeText       string        `json:"resume_text,omitempty"`
	DocumentLocation string        `json:"document_location,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
}

// Score returns the overall score and whether it is defined.
func (r CandidateRecord) Score() (float64, bool) {
	if r.Evaluation.OverallScore == nil {
		return 0, false
	}
	return *r.Evaluation.OverallScore, true
}

// ScoreBefore orders defined scores before undefined ones and higher scores before lower ones.
func ScoreBefore(a, b *float64) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return *a > *b
	}
}
