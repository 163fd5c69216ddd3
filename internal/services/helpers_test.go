package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"gorm.io/gorm"

	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/repositories"
	"alfredoptarigan/resume-screener/internal/testutil"
)

func floatPtr(v float64) *float64 {
	return &v
}

func docxDocument(t *testing.T, filename string, paragraphs ...string) models.ResumeDocument {
	return models.ResumeDocument{
		Filename:  filename,
		MediaType: models.MediaTypeDOCX,
		Content:   testutil.BuildDocx(t, paragraphs...),
	}
}

func openTestDB(t *testing.T) *gorm.DB {
	return testutil.OpenDB(t)
}

type generatorCall struct {
	prompt      string
	attachments []string
}

// stubGenerator returns canned responses in order and can fail on a chosen call.
type stubGenerator struct {
	mu        sync.Mutex
	responses []string
	failOn    int
	calls     []generatorCall
}

func (s *stubGenerator) Model() string {
	return "stub"
}

func (s *stubGenerator) Generate(_ context.Context, prompt string, attachments ...string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, generatorCall{prompt: prompt, attachments: attachments})
	n := len(s.calls)

	if s.failOn == n {
		return "", &models.ServiceError{Provider: "stub", Err: errors.New("quota exceeded")}
	}
	if len(s.responses) == 0 {
		return "no scores here", nil
	}
	return s.responses[(n-1)%len(s.responses)], nil
}

type failingCandidateRepository struct {
	repositories.CandidateRepository
}

func (failingCandidateRepository) Create(*models.CandidateRecord) error {
	return &models.PersistenceError{Op: "create candidate record", Err: errors.New("disk full")}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []CandidateEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event CandidateEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Close() error {
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	var types []string
	for _, event := range p.events {
		types = append(types, event.Type)
	}
	return types
}

type recordingIndexer struct {
	mu      sync.Mutex
	records []models.CandidateRecord
}

func (r *recordingIndexer) Start(context.Context) {}
func (r *recordingIndexer) Stop()                 {}

func (r *recordingIndexer) Enqueue(record models.CandidateRecord) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
	return true
}
