package app

import (
	"context"
	"errors"
	"testing"

	"alfredoptarigan/resume-screener/internal/config"
	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/testutil"
)

func TestNewWithoutLanguageModel(t *testing.T) {
	cfg := &config.Config{
		LLM:     config.LLMConfig{Provider: "gemini"},
		Storage: config.StorageConfig{Backend: "none"},
		Scoring: config.ScoringConfig{Strategy: "overall-label", SessionTimezone: "UTC"},
	}

	application, err := NewWithDB(context.Background(), cfg, testutil.OpenDB(t), nil)
	if err != nil {
		t.Fatalf("NewWithDB() error = %v", err)
	}
	t.Cleanup(application.Close)

	if application.Index != nil || application.Indexer != nil {
		t.Error("index should be disabled without qdrant")
	}
	if got := application.Screener.ScoreStrategy(); got != "overall-label" {
		t.Errorf("ScoreStrategy() = %q", got)
	}

	_, err = application.Screener.GenerateQuestions(context.Background(), "Go developer")
	var serviceErr *models.ServiceError
	if !errors.As(err, &serviceErr) {
		t.Errorf("GenerateQuestions() error = %v, want ServiceError", err)
	}

	board := application.Board("Backend Engineer")
	if err := board.Refresh(); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if len(board.Columns()) != len(models.Stages) {
		t.Errorf("expected %d columns, got %d", len(models.Stages), len(board.Columns()))
	}
}

func TestNewRejectsUnknownStrategy(t *testing.T) {
	cfg := &config.Config{
		Storage: config.StorageConfig{Backend: "none"},
		Scoring: config.ScoringConfig{Strategy: "median"},
	}

	if _, err := NewWithDB(context.Background(), cfg, testutil.OpenDB(t), nil); err == nil {
		t.Fatal("expected an error for an unknown strategy")
	}
}
