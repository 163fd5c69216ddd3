package models

// SkippedDocument records an upload that could not be turned into text.
type SkippedDocument struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

type ScoreResponse struct {
	JobTitle     string            `json:"job_title"`
	Results      []CandidateRecord `json:"results"`
	Skipped      []SkippedDocument `json:"skipped,omitempty"`
	AverageScore *float64          `json:"average_score"`
	Session      *ScoringSession   `json:"session,omitempty"`
	Error        string            `json:"error,omitempty"`
}

type QuestionsRequest struct {
	JobDescription string `json:"job_description"`
}

type QuestionsResponse struct {
	Questions string `json:"questions"`
}

type StatusUpdateRequest struct {
	Status string `json:"status"`
}

type NotesUpdateRequest struct {
	Notes string `json:"notes"`
}

type BoardColumn struct {
	Stage   Stage             `json:"stage"`
	Count   int               `json:"count"`
	Records []CandidateRecord `json:"records"`
}

type BoardResponse struct {
	JobTitle string        `json:"job_title"`
	Columns  []BoardColumn `json:"columns"`
}

type SearchHit struct {
	RecordID RecordID `json:"record_id"`
	Filename string   `json:"filename"`
	Score    float32  `json:"score"`
	Snippet  string   `json:"snippet"`
}

type SearchResponse struct {
	JobTitle string            `json:"job_title"`
	Query    string            `json:"query"`
	Hits     []SearchHit       `json:"hits"`
	Records  []CandidateRecord `json:"records"`
}
