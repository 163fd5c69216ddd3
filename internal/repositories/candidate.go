package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/resume-screener/internal/models"
)

// CandidateRepository stores candidate records grouped into one collection per job title.
// Concurrent updates to the same record are last-write-wins.
type CandidateRepository interface {
	Create(record *models.CandidateRecord) error
	FindByID(id models.RecordID) (*models.CandidateRecord, error)
	ListByJobTitle(jobTitle string) ([]models.CandidateRecord, error)
	ListAll() ([]models.CandidateRecord, error)
	ListJobTitles() ([]string, error)
	UpdateStatus(id models.RecordID, status models.Stage) error
	UpdateNotes(id models.RecordID, notes string) error
}

type candidateRow struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	JobTitle         string    `gorm:"type:text;not null;index"`
	Filename         string    `gorm:"type:text"`
	CandidateName    string    `gorm:"type:text"`
	CandidatePhone   string    `gorm:"type:text"`
	CandidateEmail   string    `gorm:"type:text"`
	EvaluationText   string    `gorm:"type:text"`
	OverallScore     *float64
	Status           string `gorm:"type:text;not null"`
	Notes            string `gorm:"type:text"`
	ResumeText       string `gorm:"type:text"`
	DocumentLocation string `gorm:"type:text"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (candidateRow) TableName() string {
	return "candidate_records"
}

func (row candidateRow) toModel() models.CandidateRecord {
	return models.CandidateRecord{
		ID:       models.RecordID(row.ID.String()),
		JobTitle: row.JobTitle,
		Filename: row.Filename,
		Candidate: models.CandidateInfo{
			Name:  row.CandidateName,
			Phone: row.CandidatePhone,
			Email: row.CandidateEmail,
		},
		Evaluation: models.Evaluation{
			RawText:      row.EvaluationText,
			OverallScore: row.OverallScore,
		},
		Status:           models.Stage(row.Status),
		Notes:            row.Notes,
		ResumeText:       row.ResumeText,
		DocumentLocation: row.DocumentLocation,
		CreatedAt:        row.CreatedAt,
	}
}

type candidateRepository struct {
	db *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) CandidateRepository {
	return &candidateRepository{db: db}
}

// Create assigns the record a fresh identifier and writes it back on success.
func (r *candidateRepository) Create(record *models.CandidateRecord) error {
	if record.Status == "" {
		record.Status = models.InitialStage()
	}
	if !record.Status.Valid() {
		return fmt.Errorf("%w: %q", models.ErrInvalidStage, record.Status)
	}

	row := candidateRow{
		ID:               uuid.New(),
		JobTitle:         record.JobTitle,
		Filename:         record.Filename,
		CandidateName:    record.Candidate.Name,
		CandidatePhone:   record.Candidate.Phone,
		CandidateEmail:   record.Candidate.Email,
		EvaluationText:   record.Evaluation.RawText,
		OverallScore:     record.Evaluation.OverallScore,
		Status:           string(record.Status),
		Notes:            record.Notes,
		ResumeText:       record.ResumeText,
		DocumentLocation: record.DocumentLocation,
		CreatedAt:        record.CreatedAt,
	}

	if err := r.db.Create(&row).Error; err != nil {
		return &models.PersistenceError{Op: "create candidate record", Err: err}
	}

	record.ID = models.RecordID(row.ID.String())
	record.CreatedAt = row.CreatedAt
	return nil
}

func (r *candidateRepository) FindByID(id models.RecordID) (*models.CandidateRecord, error) {
	key, err := uuid.Parse(string(id))
	if err != nil {
		return nil, &models.PersistenceError{Op: "find candidate record", Err: models.ErrRecordNotFound}
	}

	var row candidateRow
	if err := r.db.Where("id = ?", key).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.PersistenceError{Op: "find candidate record", Err: models.ErrRecordNotFound}
		}
		return nil, &models.PersistenceError{Op: "find candidate record", Err: err}
	}

	record := row.toModel()
	return &record, nil
}

// ListByJobTitle returns the collection in insertion order.
func (r *candidateRepository) ListByJobTitle(jobTitle string) ([]models.CandidateRecord, error) {
	var rows []candidateRow
	err := r.db.
		Where("job_title = ?", jobTitle).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, &models.PersistenceError{Op: "list candidate records", Err: err}
	}

	return toModels(rows), nil
}

func (r *candidateRepository) ListAll() ([]models.CandidateRecord, error) {
	var rows []candidateRow
	if err := r.db.Order("job_title ASC, created_at ASC").Find(&rows).Error; err != nil {
		return nil, &models.PersistenceError{Op: "list candidate records", Err: err}
	}

	return toModels(rows), nil
}

func (r *candidateRepository) ListJobTitles() ([]string, error) {
	var titles []string
	err := r.db.Model(&candidateRow{}).
		Distinct("job_title").
		Order("job_title ASC").
		Pluck("job_title", &titles).Error
	if err != nil {
		return nil, &models.PersistenceError{Op: "list job titles", Err: err}
	}

	return titles, nil
}

func (r *candidateRepository) UpdateStatus(id models.RecordID, status models.Stage) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", models.ErrInvalidStage, status)
	}

	return r.update(id, "update status", map[string]interface{}{
		"status":     string(status),
		"updated_at": time.Now(),
	})
}

func (r *candidateRepository) UpdateNotes(id models.RecordID, notes string) error {
	return r.update(id, "update notes", map[string]interface{}{
		"notes":      notes,
		"updated_at": time.Now(),
	})
}

func (r *candidateRepository) update(id models.RecordID, op string, updates map[string]interface{}) error {
	key, err := uuid.Parse(string(id))
	if err != nil {
		return &models.PersistenceError{Op: op, Err: models.ErrRecordNotFound}
	}

	result := r.db.Model(&candidateRow{}).
		Where("id = ?", key).
		Updates(updates)

	if result.Error != nil {
		return &models.PersistenceError{Op: op, Err: result.Error}
	}

	if result.RowsAffected == 0 {
		return &models.PersistenceError{Op: op, Err: models.ErrRecordNotFound}
	}

	return nil
}

func toModels(rows []candidateRow) []models.CandidateRecord {
	records := make([]models.CandidateRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.toModel())
	}
	return records
}
