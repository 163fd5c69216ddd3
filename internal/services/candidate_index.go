package services

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/logger"
	"alfredoptarigan/resume-screener/internal/models"
)

// CandidateIndex supports semantic search over resume text within a job-title collection.
type CandidateIndex interface {
	IndexCandidate(ctx context.Context, record models.CandidateRecord) error
	RemoveCandidate(ctx context.Context, id models.RecordID) error
	Search(ctx context.Context, jobTitle, query string, limit int) ([]models.SearchHit, error)
}

type QdrantOptions struct {
	URL          string
	APIKey       string
	Collection   string
	VectorSize   uint64
	ChunkSize    int
	ChunkOverlap int
}

type qdrantIndex struct {
	client         *qdrant.Client
	embedder       Embedder
	collectionName string
	vectorSize     uint64
	chunkSize      int
	chunkOverlap   int
	log            *zap.Logger
}

func NewQdrantIndex(ctx context.Context, opts QdrantOptions, embedder Embedder, log *zap.Logger) (CandidateIndex, error) {
	parsed, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	// The gRPC port is used unless the URL names one.
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   parsed.Hostname(),
		Port:   port,
		APIKey: opts.APIKey,
		UseTLS: parsed.Scheme == "https",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	index := &qdrantIndex{
		client:         client,
		embedder:       embedder,
		collectionName: opts.Collection,
		vectorSize:     opts.VectorSize,
		chunkSize:      opts.ChunkSize,
		chunkOverlap:   opts.ChunkOverlap,
		log:            logger.WithFields(log, zap.String("collection", opts.Collection)),
	}

	if err := index.ensureCollection(ctx); err != nil {
		return nil, err
	}

	return index, nil
}

func (q *qdrantIndex) ensureCollection(ctx context.Context) error {
	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     q.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	q.log.Info("qdrant collection created")
	return nil
}

// IndexCandidate embeds each chunk of the resume text and upserts one point per chunk.
func (q *qdrantIndex) IndexCandidate(ctx context.Context, record models.CandidateRecord) error {
	chunks := ChunkText(record.ResumeText, q.chunkSize, q.chunkOverlap)
	if len(chunks) == 0 {
		return nil
	}

	points := make([]*qdrant.PointStruct, 0, len(chunks))
	for i, chunk := range chunks {
		embedding, err := q.embedder.Embed(ctx, chunk)
		if err != nil {
			return fmt.Errorf("failed to embed chunk %d: %w", i, err)
		}

		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewID(uuid.NewString()),
			Vectors: qdrant.NewVectors(embedding...),
			Payload: qdrant.NewValueMap(map[string]any{
				"record_id":   record.ID.String(),
				"job_title":   record.JobTitle,
				"filename":    record.Filename,
				"chunk_index": i,
				"text":        chunk,
			}),
		})
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert points: %w", err)
	}

	q.log.Debug("candidate indexed", zap.String(logger.FieldRecordID, record.ID.String()), zap.Int("chunks", len(points)))
	return nil
}

func (q *qdrantIndex) RemoveCandidate(ctx context.Context, id models.RecordID) error {
	_, err := q.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: q.collectionName,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: &qdrant.Filter{
					Must: []*qdrant.Condition{
						qdrant.NewMatch("record_id", id.String()),
					},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete candidate points: %w", err)
	}

	return nil
}

// Search returns at most limit records, each represented by its best-matching chunk.
func (q *qdrantIndex) Search(ctx context.Context, jobTitle, query string, limit int) ([]models.SearchHit, error) {
	if limit <= 0 {
		limit = 5
	}

	embedding, err := q.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	points, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(embedding...),
		Filter: &qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch("job_title", jobTitle),
			},
		},
		// Several chunks of one resume may match; fetch extra before collapsing.
		Limit:       qdrant.PtrOf(uint64(limit * 4)),
		WithPayload: qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	best := make(map[models.RecordID]models.SearchHit)
	for _, point := range points {
		hit := models.SearchHit{
			RecordID: models.RecordID(payloadString(point.Payload, "record_id")),
			Filename: payloadString(point.Payload, "filename"),
			Score:    point.Score,
			Snippet:  payloadString(point.Payload, "text"),
		}
		if hit.RecordID == "" {
			continue
		}
		if existing, ok := best[hit.RecordID]; !ok || hit.Score > existing.Score {
			best[hit.RecordID] = hit
		}
	}

	return rankHits(best, limit), nil
}

func rankHits(best map[models.RecordID]models.SearchHit, limit int) []models.SearchHit {
	hits := make([]models.SearchHit, 0, len(best))
	for _, hit := range best {
		hits = append(hits, hit)
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score == hits[j].Score {
			return hits[i].RecordID < hits[j].RecordID
		}
		return hits[i].Score > hits[j].Score
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}

func payloadString(payload map[string]*qdrant.Value, key string) string {
	value, ok := payload[key]
	if !ok {
		return ""
	}
	if val, ok := value.GetKind().(*qdrant.Value_StringValue); ok {
		return val.StringValue
	}
	return ""
}
