package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/logger"
	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/repositories"
)

var errNoGenerator = &models.ServiceError{Provider: "llm", Err: errors.New("no language model configured")}

// ScreenerDeps wires a Screener. Archive, Indexer and Events are optional.
type ScreenerDeps struct {
	Records   repositories.CandidateRepository
	Sessions  repositories.SessionRepository
	Extractor DocumentExtractor
	Generator Generator
	Strategy  ScoreStrategy
	Archive   DocumentArchive
	Indexer   Indexer
	Events    EventPublisher
	Location  *time.Location
	Log       *zap.Logger
}

// Screener runs the resume scoring pipeline: extract text, read candidate details,
// ask the model for an evaluation, read the score and store the record.
type Screener struct {
	records   repositories.CandidateRepository
	sessions  repositories.SessionRepository
	extractor DocumentExtractor
	generator Generator
	strategy  ScoreStrategy
	prompts   *PromptBuilder
	archive   DocumentArchive
	indexer   Indexer
	events    EventPublisher
	location  *time.Location
	log       *zap.Logger
}

func NewScreener(deps ScreenerDeps) *Screener {
	strategy := deps.Strategy
	if strategy == nil {
		strategy = SlashAverageStrategy{}
	}
	extractor := deps.Extractor
	if extractor == nil {
		extractor = NewDocumentExtractor()
	}
	location := deps.Location
	if location == nil {
		location = time.UTC
	}
	events := deps.Events
	if events == nil {
		events = NewNoopPublisher()
	}

	return &Screener{
		records:   deps.Records,
		sessions:  deps.Sessions,
		extractor: extractor,
		generator: deps.Generator,
		strategy:  strategy,
		prompts:   NewPromptBuilder(),
		archive:   deps.Archive,
		indexer:   deps.Indexer,
		events:    events,
		location:  location,
		log:       logger.OrNop(deps.Log),
	}
}

// ScreeningRun carries the state of one operator request: the store handle the
// pipeline writes to and the results produced so far, in processing order.
type ScreeningRun struct {
	JobTitle       string
	JobDescription string

	records repositories.CandidateRepository
	results []models.CandidateRecord
	skipped []models.SkippedDocument
}

func (r *ScreeningRun) Results() []models.CandidateRecord {
	return append([]models.CandidateRecord(nil), r.results...)
}

// Ranked returns the results ordered by score, unscored last.
func (r *ScreeningRun) Ranked() []models.CandidateRecord {
	ranked := r.Results()
	SortByScore(ranked)
	return ranked
}

func (r *ScreeningRun) Skipped() []models.SkippedDocument {
	return append([]models.SkippedDocument(nil), r.skipped...)
}

func (r *ScreeningRun) Average() *float64 {
	return AverageScore(r.results)
}

// NewRun starts a run for one job title. Both inputs are required.
func (s *Screener) NewRun(jobTitle, jobDescription string) (*ScreeningRun, error) {
	jobTitle = strings.TrimSpace(jobTitle)
	if jobTitle == "" {
		return nil, &models.MissingInputError{Field: "job_title"}
	}
	if strings.TrimSpace(jobDescription) == "" {
		return nil, &models.MissingInputError{Field: "job_description"}
	}

	return &ScreeningRun{
		JobTitle:       jobTitle,
		JobDescription: jobDescription,
		records:        s.records,
	}, nil
}

// ScoreAll processes documents one at a time. Unreadable documents are recorded as
// skipped and processing continues; a model or store failure stops the batch and is
// returned, leaving earlier results in the run.
func (s *Screener) ScoreAll(ctx context.Context, run *ScreeningRun, docs []models.ResumeDocument) error {
	if len(docs) == 0 {
		return &models.MissingInputError{Field: "resumes"}
	}

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return err
		}

		_, err := s.ScoreDocument(ctx, run, doc)
		if err == nil {
			continue
		}

		var serviceErr *models.ServiceError
		var persistenceErr *models.PersistenceError
		if errors.As(err, &serviceErr) || errors.As(err, &persistenceErr) {
			return err
		}

		run.skipped = append(run.skipped, models.SkippedDocument{Filename: doc.Filename, Reason: err.Error()})
		s.log.Warn("skipping document", zap.String(logger.FieldFilename, doc.Filename), zap.Error(err))
	}

	return nil
}

// ScoreDocument runs the full pipeline for a single document and appends the stored record to the run.
func (s *Screener) ScoreDocument(ctx context.Context, run *ScreeningRun, doc models.ResumeDocument) (*models.CandidateRecord, error) {
	log := logger.WithFields(s.log,
		zap.String(logger.FieldJobTitle, run.JobTitle),
		zap.String(logger.FieldFilename, doc.Filename),
	)

	text, err := s.extractor.ExtractText(doc)
	if err != nil {
		return nil, err
	}
	if text == "" {
		log.Warn("no text extracted from document")
	}

	info := ExtractCandidateInfo(text)

	if s.generator == nil {
		return nil, errNoGenerator
	}
	prompt := s.prompts.BuildEvaluationPrompt(run.JobDescription)
	response, err := s.generator.Generate(ctx, prompt, text)
	if err != nil {
		return nil, err
	}

	record := models.CandidateRecord{
		JobTitle:  run.JobTitle,
		Filename:  doc.Filename,
		Candidate: info,
		Evaluation: models.Evaluation{
			RawText:      response,
			OverallScore: s.strategy.ExtractScore(response),
		},
		Status:     models.InitialStage(),
		ResumeText: text,
		CreatedAt:  time.Now(),
	}

	if s.archive != nil {
		location, err := s.archive.Save(ctx, run.JobTitle, doc)
		if err != nil {
			log.Warn("failed to archive document", zap.Error(err))
		} else {
			record.DocumentLocation = location
		}
	}

	if err := run.records.Create(&record); err != nil {
		return nil, err
	}

	run.results = append(run.results, record)

	fields := []zap.Field{zap.String(logger.FieldRecordID, record.ID.String()), zap.String("strategy", s.strategy.Name())}
	if score, ok := record.Score(); ok {
		fields = append(fields, zap.Float64("score", score))
	}
	log.Info("resume scored", fields...)

	if s.indexer != nil {
		s.indexer.Enqueue(record)
	}
	publishQuietly(ctx, s.events, log, NewCandidateEvent(EventCandidateScored, record))

	return &record, nil
}

// SaveSession stores a named snapshot of the run's results.
func (s *Screener) SaveSession(run *ScreeningRun, name string) (*models.ScoringSession, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &models.MissingInputError{Field: "session_name"}
	}

	session := &models.ScoringSession{
		SessionName:  name,
		JobTitle:     run.JobTitle,
		Records:      run.Ranked(),
		AverageScore: run.Average(),
		CreatedAt:    time.Now().In(s.location),
	}

	if err := s.sessions.Create(session); err != nil {
		return nil, err
	}

	s.log.Info("session saved",
		zap.String("session", session.SessionName),
		zap.String(logger.FieldJobTitle, session.JobTitle),
		zap.Int("resumes", session.NumResumes()),
	)

	return session, nil
}

func (s *Screener) ListSessions(limit int) ([]models.ScoringSession, error) {
	return s.sessions.ListRecent(limit)
}

func (s *Screener) DeleteSession(id models.SessionID) error {
	return s.sessions.Delete(id)
}

// GenerateQuestions asks for ten technical interview questions with brief answers.
func (s *Screener) GenerateQuestions(ctx context.Context, jobDescription string) (string, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return "", &models.MissingInputError{Field: "job_description"}
	}
	if s.generator == nil {
		return "", errNoGenerator
	}

	return s.generator.Generate(ctx, s.prompts.BuildTechnicalQuestionsPrompt(jobDescription))
}

func (s *Screener) ScoreStrategy() string {
	return s.strategy.Name()
}
