package repositories

import (
	"testing"
	"time"

	"alfredoptarigan/resume-screener/internal/models"
)

func TestSessionRepositoryListRecent(t *testing.T) {
	repo := NewSessionRepository(openTestDB(t))
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	sessions := []models.ScoringSession{
		{SessionName: "oldest", JobTitle: "QA", AverageScore: floatPtr(9.5), CreatedAt: base},
		{SessionName: "no score", JobTitle: "QA", CreatedAt: base.Add(time.Hour)},
		{SessionName: "low", JobTitle: "QA", AverageScore: floatPtr(4), CreatedAt: base.Add(2 * time.Hour)},
		{
			SessionName:  "high",
			JobTitle:     "QA",
			AverageScore: floatPtr(8.25),
			CreatedAt:    base.Add(3 * time.Hour),
			Records: []models.CandidateRecord{
				{ID: "r1", Filename: "a.pdf", Status: models.StageResumeScoring},
				{ID: "r2", Filename: "b.pdf", Status: models.StageResumeScoring},
			},
		},
	}
	for i := range sessions {
		if err := repo.Create(&sessions[i]); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	got, err := repo.ListRecent(3)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}

	wantNames := []string{"high", "low", "no score"}
	if len(got) != len(wantNames) {
		t.Fatalf("ListRecent() returned %d sessions, want %d", len(got), len(wantNames))
	}
	for i, name := range wantNames {
		if got[i].SessionName != name {
			t.Errorf("session[%d] = %q, want %q", i, got[i].SessionName, name)
		}
	}

	if got[0].NumResumes() != 2 || got[0].Records[1].Filename != "b.pdf" {
		t.Errorf("expected stored records to round-trip, got %+v", got[0].Records)
	}
}

func TestSessionRepositoryDelete(t *testing.T) {
	repo := NewSessionRepository(openTestDB(t))

	session := models.ScoringSession{SessionName: "weekly", JobTitle: "QA"}
	if err := repo.Create(&session); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := repo.Delete(session.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if err := repo.Delete(session.ID); !isNotFound(err) {
		t.Fatalf("second Delete() error = %v, want not found", err)
	}

	remaining, err := repo.ListRecent(10)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("expected no sessions, got %d", len(remaining))
	}
}
