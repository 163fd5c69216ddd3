package services

import (
	"context"

	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/logger"
	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/repositories"
)

// WorkflowBoard is a view of one job-title collection grouped by hiring stage.
// Every change is written to the store first and the view is then reloaded.
type WorkflowBoard struct {
	jobTitle string
	records  repositories.CandidateRepository
	events   EventPublisher
	log      *zap.Logger
	view     []models.CandidateRecord
}

func NewWorkflowBoard(jobTitle string, records repositories.CandidateRepository, events EventPublisher, log *zap.Logger) *WorkflowBoard {
	if events == nil {
		events = NewNoopPublisher()
	}

	return &WorkflowBoard{
		jobTitle: jobTitle,
		records:  records,
		events:   events,
		log:      logger.WithFields(log, zap.String(logger.FieldJobTitle, jobTitle)),
	}
}

func (b *WorkflowBoard) JobTitle() string {
	return b.jobTitle
}

func (b *WorkflowBoard) Refresh() error {
	records, err := b.records.ListByJobTitle(b.jobTitle)
	if err != nil {
		return err
	}

	b.view = records
	return nil
}

// Columns groups the loaded records by stage in board order. Each column is sorted by
// score with unscored records last; empty stages are included.
func (b *WorkflowBoard) Columns() []models.BoardColumn {
	return GroupByStage(b.view)
}

// Records returns every loaded record in board order.
func (b *WorkflowBoard) Records() []models.CandidateRecord {
	var ordered []models.CandidateRecord
	for _, column := range b.Columns() {
		ordered = append(ordered, column.Records...)
	}
	return ordered
}

func (b *WorkflowBoard) Response() models.BoardResponse {
	return models.BoardResponse{
		JobTitle: b.jobTitle,
		Columns:  b.Columns(),
	}
}

// Select returns a loaded record with its full evaluation text and notes.
func (b *WorkflowBoard) Select(id models.RecordID) (*models.CandidateRecord, error) {
	for i := range b.view {
		if b.view[i].ID == id {
			record := b.view[i]
			return &record, nil
		}
	}
	return nil, &models.PersistenceError{Op: "select candidate", Err: models.ErrRecordNotFound}
}

// MoveCandidate sets a record's stage. Any stage may follow any other.
func (b *WorkflowBoard) MoveCandidate(ctx context.Context, id models.RecordID, stage models.Stage) (*models.CandidateRecord, error) {
	if _, err := b.Select(id); err != nil {
		return nil, err
	}

	if err := b.records.UpdateStatus(id, stage); err != nil {
		return nil, err
	}

	record, err := b.reload(id)
	if err != nil {
		return nil, err
	}

	b.log.Info("candidate moved", zap.String(logger.FieldRecordID, id.String()), zap.String("stage", string(stage)))
	publishQuietly(ctx, b.events, b.log, NewCandidateEvent(EventCandidateStatusChanged, *record))

	return record, nil
}

// SaveNotes replaces a record's notes.
func (b *WorkflowBoard) SaveNotes(ctx context.Context, id models.RecordID, notes string) (*models.CandidateRecord, error) {
	if _, err := b.Select(id); err != nil {
		return nil, err
	}

	if err := b.records.UpdateNotes(id, notes); err != nil {
		return nil, err
	}

	record, err := b.reload(id)
	if err != nil {
		return nil, err
	}

	b.log.Info("candidate notes updated", zap.String(logger.FieldRecordID, id.String()))
	publishQuietly(ctx, b.events, b.log, NewCandidateEvent(EventCandidateNotesUpdated, *record))

	return record, nil
}

func (b *WorkflowBoard) reload(id models.RecordID) (*models.CandidateRecord, error) {
	if err := b.Refresh(); err != nil {
		return nil, err
	}
	return b.Select(id)
}

// GroupByStage partitions records into one column per stage in board order.
func GroupByStage(records []models.CandidateRecord) []models.BoardColumn {
	byStage := make(map[models.Stage][]models.CandidateRecord, len(models.Stages))
	for _, record := range records {
		stage := record.Status
		if !stage.Valid() {
			stage = models.InitialStage()
		}
		byStage[stage] = append(byStage[stage], record)
	}

	columns := make([]models.BoardColumn, 0, len(models.Stages))
	for _, stage := range models.Stages {
		group := byStage[stage]
		SortByScore(group)
		if group == nil {
			group = []models.CandidateRecord{}
		}
		columns = append(columns, models.BoardColumn{
			Stage:   stage,
			Count:   len(group),
			Records: group,
		})
	}

	return columns
}
