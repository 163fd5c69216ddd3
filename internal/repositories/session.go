package repositories

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/resume-screener/internal/models"
)

type SessionRepository interface {
	Create(session *models.ScoringSession) error
	ListRecent(limit int) ([]models.ScoringSession, error)
	Delete(id models.SessionID) error
}

type sessionRow struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	SessionName  string    `gorm:"type:text;not null"`
	JobTitle     string    `gorm:"type:text"`
	NumResumes   int
	Results      string `gorm:"type:text"`
	AverageScore *float64
	CreatedAt    time.Time `gorm:"index"`
}

func (sessionRow) TableName() string {
	return "scoring_sessions"
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

// Create stores the session with its records serialized into the results column.
func (r *sessionRepository) Create(session *models.ScoringSession) error {
	results, err := json.Marshal(session.Records)
	if err != nil {
		return &models.PersistenceError{Op: "encode session results", Err: err}
	}

	row := sessionRow{
		ID:           uuid.New(),
		SessionName:  session.SessionName,
		JobTitle:     session.JobTitle,
		NumResumes:   len(session.Records),
		Results:      string(results),
		AverageScore: session.AverageScore,
		CreatedAt:    session.CreatedAt,
	}

	if err := r.db.Create(&row).Error; err != nil {
		return &models.PersistenceError{Op: "create session", Err: err}
	}

	session.ID = models.SessionID(row.ID.String())
	if session.CreatedAt.IsZero() {
		session.CreatedAt = row.CreatedAt
	}
	return nil
}

// ListRecent returns the newest sessions, ordered by average score (undefined last).
func (r *sessionRepository) ListRecent(limit int) ([]models.ScoringSession, error) {
	if limit <= 0 {
		limit = 10
	}

	var rows []sessionRow
	err := r.db.
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, &models.PersistenceError{Op: "list sessions", Err: err}
	}

	sessions := make([]models.ScoringSession, 0, len(rows))
	for _, row := range rows {
		var records []models.CandidateRecord
		if row.Results != "" {
			if err := json.Unmarshal([]byte(row.Results), &records); err != nil {
				return nil, &models.PersistenceError{Op: "decode session results", Err: err}
			}
		}

		sessions = append(sessions, models.ScoringSession{
			ID:           models.SessionID(row.ID.String()),
			SessionName:  row.SessionName,
			JobTitle:     row.JobTitle,
			Records:      records,
			AverageScore: row.AverageScore,
			CreatedAt:    row.CreatedAt,
		})
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		return models.ScoreBefore(sessions[i].AverageScore, sessions[j].AverageScore)
	})

	return sessions, nil
}

func (r *sessionRepository) Delete(id models.SessionID) error {
	key, err := uuid.Parse(string(id))
	if err != nil {
		return &models.PersistenceError{Op: "delete session", Err: models.ErrRecordNotFound}
	}

	result := r.db.Where("id = ?", key).Delete(&sessionRow{})
	if result.Error != nil {
		return &models.PersistenceError{Op: "delete session", Err: result.Error}
	}

	if result.RowsAffected == 0 {
		return &models.PersistenceError{Op: "delete session", Err: models.ErrRecordNotFound}
	}

	return nil
}
