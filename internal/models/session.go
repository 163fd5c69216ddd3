package models

import "time"

type SessionID string

// ScoringSession is a named snapshot of one screening run.
type ScoringSession struct {
	ID           SessionID         `json:"id"`
	SessionName  string            `json:"session_name"`
	JobTitle     string            `json:"job_title"`
	Records      []CandidateRecord `json:"records"`
	AverageScore *float64          `json:"average_score"`
	CreatedAt    time.Time         `json:"created_at"`
}

func (s ScoringSession) NumResumes() int {
	return len(s.Records)
}
