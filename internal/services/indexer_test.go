package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"alfredoptarigan/resume-screener/internal/models"
)

type fakeIndex struct {
	mu      sync.Mutex
	indexed []models.RecordID
	failFor models.RecordID
}

func (f *fakeIndex) IndexCandidate(_ context.Context, record models.CandidateRecord) error {
	if record.ID == f.failFor {
		return errors.New("embedding quota exceeded")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.indexed = append(f.indexed, record.ID)
	return nil
}

func (f *fakeIndex) RemoveCandidate(context.Context, models.RecordID) error {
	return nil
}

func (f *fakeIndex) Search(context.Context, string, string, int) ([]models.SearchHit, error) {
	return nil, nil
}

func TestIndexerDrainsQueueOnStop(t *testing.T) {
	index := &fakeIndex{}
	w := NewIndexer(index, 2, 10, nil)
	w.Start(context.Background())

	for i := 0; i < 5; i++ {
		if !w.Enqueue(models.CandidateRecord{ID: models.RecordID(fmt.Sprintf("rec-%d", i))}) {
			t.Fatalf("Enqueue(%d) rejected", i)
		}
	}

	w.Stop()

	if len(index.indexed) != 5 {
		t.Errorf("indexed %d records, want 5", len(index.indexed))
	}

	if w.Enqueue(models.CandidateRecord{ID: "late"}) {
		t.Error("expected Enqueue after Stop to be rejected")
	}
}

func TestIndexerRejectsWhenFull(t *testing.T) {
	w := NewIndexer(&fakeIndex{}, 1, 1, nil)

	// Not started, so nothing consumes the queue.
	if !w.Enqueue(models.CandidateRecord{ID: "first"}) {
		t.Fatal("expected first record to be queued")
	}
	if w.Enqueue(models.CandidateRecord{ID: "second"}) {
		t.Fatal("expected full queue to reject second record")
	}
}

func TestIndexerLogsFailures(t *testing.T) {
	core, observed := observer.New(zapcore.ErrorLevel)
	index := &fakeIndex{failFor: "bad"}
	w := NewIndexer(index, 1, 5, zap.New(core))
	w.Start(context.Background())

	w.Enqueue(models.CandidateRecord{ID: "bad", JobTitle: "QA"})
	w.Enqueue(models.CandidateRecord{ID: "good", JobTitle: "QA"})
	w.Stop()

	if len(index.indexed) != 1 || index.indexed[0] != "good" {
		t.Errorf("indexed = %v, want [good]", index.indexed)
	}

	entries := observed.FilterMessage("failed to index candidate").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 failure log, got %d", len(entries))
	}
	if entries[0].ContextMap()["record_id"] != "bad" {
		t.Errorf("unexpected log fields: %v", entries[0].ContextMap())
	}
}
