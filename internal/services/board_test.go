package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/repositories"
)

func seedRecords(t *testing.T, repo repositories.CandidateRepository, jobTitle string, scores ...*float64) []models.CandidateRecord {
	t.Helper()

	base := time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC)
	records := make([]models.CandidateRecord, 0, len(scores))
	for i, score := range scores {
		record := models.CandidateRecord{
			JobTitle:   jobTitle,
			Filename:   string(rune('a'+i)) + ".pdf",
			Candidate:  models.CandidateInfo{Name: string(rune('A' + i)), Phone: models.NotFound, Email: models.NotFound},
			Evaluation: models.Evaluation{RawText: "evaluation", OverallScore: score},
			Status:     models.InitialStage(),
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		if err := repo.Create(&record); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		records = append(records, record)
	}
	return records
}

func columnFor(t *testing.T, columns []models.BoardColumn, stage models.Stage) models.BoardColumn {
	t.Helper()
	for _, column := range columns {
		if column.Stage == stage {
			return column
		}
	}
	t.Fatalf("no column for stage %q", stage)
	return models.BoardColumn{}
}

func TestWorkflowBoardColumns(t *testing.T) {
	repo := repositories.NewCandidateRepository(openTestDB(t))
	seedRecords(t, repo, "Backend Engineer", floatPtr(6), nil, floatPtr(9))
	seedRecords(t, repo, "Other Role", floatPtr(5))

	board := NewWorkflowBoard("Backend Engineer", repo, nil, nil)
	if err := board.Refresh(); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	columns := board.Columns()
	if len(columns) != len(models.Stages) {
		t.Fatalf("expected %d columns, got %d", len(models.Stages), len(columns))
	}
	for i, column := range columns {
		if column.Stage != models.Stages[i] {
			t.Errorf("column %d = %q, want %q", i, column.Stage, models.Stages[i])
		}
	}

	first := columnFor(t, columns, models.StageResumeScoring)
	if first.Count != 3 {
		t.Fatalf("expected 3 records in first stage, got %d", first.Count)
	}
	want := []string{"c.pdf", "a.pdf", "b.pdf"}
	for i, filename := range want {
		if first.Records[i].Filename != filename {
			t.Errorf("position %d = %s, want %s", i, first.Records[i].Filename, filename)
		}
	}

	if got := len(board.Records()); got != 3 {
		t.Errorf("Records() returned %d, want 3", got)
	}
}

func TestWorkflowBoardMoveCandidate(t *testing.T) {
	repo := repositories.NewCandidateRepository(openTestDB(t))
	records := seedRecords(t, repo, "Backend Engineer", floatPtr(7), floatPtr(8))
	events := &recordingPublisher{}

	board := NewWorkflowBoard("Backend Engineer", repo, events, nil)
	if err := board.Refresh(); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	moved, err := board.MoveCandidate(context.Background(), records[0].ID, models.StageClientInterview)
	if err != nil {
		t.Fatalf("MoveCandidate() error = %v", err)
	}
	if moved.Status != models.StageClientInterview {
		t.Errorf("moved status = %q, want %q", moved.Status, models.StageClientInterview)
	}

	total := 0
	appearances := 0
	for _, column := range board.Columns() {
		total += column.Count
		for _, record := range column.Records {
			if record.ID != records[0].ID {
				continue
			}
			appearances++
			if column.Stage != models.StageClientInterview {
				t.Errorf("record found under %q, want %q", column.Stage, models.StageClientInterview)
			}
		}
	}
	if appearances != 1 {
		t.Errorf("record appears %d times, want exactly once", appearances)
	}
	if total != 2 {
		t.Errorf("board holds %d records, want 2", total)
	}

	stored, err := repo.FindByID(records[0].ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if stored.Status != models.StageClientInterview {
		t.Errorf("stored status = %q, want %q", stored.Status, models.StageClientInterview)
	}

	// Backwards moves are allowed.
	if _, err := board.MoveCandidate(context.Background(), records[0].ID, models.StageResumeScoring); err != nil {
		t.Fatalf("MoveCandidate() back error = %v", err)
	}

	if got := events.types(); len(got) != 2 || got[0] != EventCandidateStatusChanged {
		t.Errorf("events = %v, want two status changes", got)
	}
}

func TestWorkflowBoardSaveNotes(t *testing.T) {
	repo := repositories.NewCandidateRepository(openTestDB(t))
	records := seedRecords(t, repo, "QA", floatPtr(7))

	board := NewWorkflowBoard("QA", repo, nil, nil)
	if err := board.Refresh(); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	updated, err := board.SaveNotes(context.Background(), records[0].ID, "Call back Monday")
	if err != nil {
		t.Fatalf("SaveNotes() error = %v", err)
	}
	if updated.Notes != "Call back Monday" {
		t.Errorf("Notes = %q", updated.Notes)
	}

	selected, err := board.Select(records[0].ID)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if selected.Notes != "Call back Monday" || selected.Evaluation.RawText != "evaluation" {
		t.Errorf("Select() = %+v", selected)
	}
}

func TestWorkflowBoardUnknownRecord(t *testing.T) {
	repo := repositories.NewCandidateRepository(openTestDB(t))
	other := seedRecords(t, repo, "Other Role", floatPtr(5))

	board := NewWorkflowBoard("QA", repo, nil, nil)
	if err := board.Refresh(); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	_, err := board.MoveCandidate(context.Background(), other[0].ID, models.StageSelected)
	if !errors.Is(err, models.ErrRecordNotFound) {
		t.Fatalf("MoveCandidate() error = %v, want not found", err)
	}

	stored, err := repo.FindByID(other[0].ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if stored.Status != models.InitialStage() {
		t.Errorf("record from another collection was modified: %q", stored.Status)
	}

	if _, err := board.SaveNotes(context.Background(), "missing", "x"); !errors.Is(err, models.ErrRecordNotFound) {
		t.Errorf("SaveNotes() error = %v, want not found", err)
	}
}

func TestWorkflowBoardRejectsInvalidStage(t *testing.T) {
	repo := repositories.NewCandidateRepository(openTestDB(t))
	records := seedRecords(t, repo, "QA", nil)

	board := NewWorkflowBoard("QA", repo, nil, nil)
	if err := board.Refresh(); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	if _, err := board.MoveCandidate(context.Background(), records[0].ID, models.Stage("Hired")); !errors.Is(err, models.ErrInvalidStage) {
		t.Fatalf("MoveCandidate() error = %v, want invalid stage", err)
	}
}
