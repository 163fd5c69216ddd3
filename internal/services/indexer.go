package services

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/logger"
	"alfredoptarigan/resume-screener/internal/models"
)

// Indexer feeds new candidate records to the candidate index in the background so
// scoring requests never wait on embeddings.
type Indexer interface {
	Start(ctx context.Context)
	Stop()
	Enqueue(record models.CandidateRecord) bool
}

type indexer struct {
	index       CandidateIndex
	queue       chan models.CandidateRecord
	concurrency int
	wg          sync.WaitGroup
	stopOnce    sync.Once
	stopChan    chan struct{}
	log         *zap.Logger
}

func NewIndexer(index CandidateIndex, concurrency, queueSize int, log *zap.Logger) Indexer {
	if concurrency <= 0 {
		concurrency = 1
	}
	if queueSize <= 0 {
		queueSize = 100
	}

	return &indexer{
		index:       index,
		queue:       make(chan models.CandidateRecord, queueSize),
		concurrency: concurrency,
		stopChan:    make(chan struct{}),
		log:         logger.OrNop(log),
	}
}

func (w *indexer) Start(ctx context.Context) {
	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.process(ctx, i+1)
	}

	w.log.Info("indexer started", zap.Int("workers", w.concurrency))
}

// Stop drains queued records and waits for the workers to exit.
func (w *indexer) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopChan)
	})
	w.wg.Wait()
	w.log.Info("indexer stopped")
}

// Enqueue reports false when the queue is full or the indexer has stopped; the
// record is then left unindexed until the next reindex.
func (w *indexer) Enqueue(record models.CandidateRecord) bool {
	select {
	case <-w.stopChan:
		return false
	default:
	}

	select {
	case w.queue <- record:
		return true
	default:
		w.log.Warn("index queue full, skipping record", zap.String(logger.FieldRecordID, record.ID.String()))
		return false
	}
}

func (w *indexer) process(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case record := <-w.queue:
			w.indexOne(ctx, workerID, record)
		case <-w.stopChan:
			for {
				select {
				case record := <-w.queue:
					w.indexOne(ctx, workerID, record)
				default:
					return
				}
			}
		case <-ctx.Done():
			return
		}
	}
}

func (w *indexer) indexOne(ctx context.Context, workerID int, record models.CandidateRecord) {
	fields := []zap.Field{
		zap.Int("worker", workerID),
		zap.String(logger.FieldRecordID, record.ID.String()),
		zap.String(logger.FieldJobTitle, record.JobTitle),
	}

	if err := w.index.IndexCandidate(ctx, record); err != nil {
		w.log.Error("failed to index candidate", append(fields, zap.Error(err))...)
		return
	}

	w.log.Debug("candidate indexed", fields...)
}
