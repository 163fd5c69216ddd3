package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/logger"
	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/services"
)

type ScoreHandler struct {
	screener    *services.Screener
	maxFileSize int64
	log         *zap.Logger
}

func NewScoreHandler(screener *services.Screener, maxFileSize int64, log *zap.Logger) *ScoreHandler {
	return &ScoreHandler{
		screener:    screener,
		maxFileSize: maxFileSize,
		log:         log,
	}
}

// HandleScore handles POST /score. The multipart form carries job_title,
// job_description, an optional session_name and one or more "resumes" files.
func (h *ScoreHandler) HandleScore(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "failed to parse multipart form")
	}

	run, err := h.screener.NewRun(formValue(form, "job_title"), formValue(form, "job_description"))
	if err != nil {
		return err
	}

	files := form.File["resumes"]
	if len(files) == 0 {
		return &models.MissingInputError{Field: "resumes"}
	}

	var skipped []models.SkippedDocument
	var docs []models.ResumeDocument
	for _, file := range files {
		if h.maxFileSize > 0 && file.Size > h.maxFileSize {
			skipped = append(skipped, models.SkippedDocument{
				Filename: file.Filename,
				Reason:   fmt.Sprintf("file too large, max size: %d bytes", h.maxFileSize),
			})
			continue
		}

		doc, err := readResume(file)
		if err != nil {
			skipped = append(skipped, models.SkippedDocument{Filename: file.Filename, Reason: err.Error()})
			continue
		}
		docs = append(docs, doc)
	}

	var scoreErr error
	if len(docs) > 0 {
		scoreErr = h.screener.ScoreAll(c.UserContext(), run, docs)
	}

	response := models.ScoreResponse{
		JobTitle:     run.JobTitle,
		Results:      run.Ranked(),
		Skipped:      append(skipped, run.Skipped()...),
		AverageScore: run.Average(),
	}

	if scoreErr != nil {
		h.log.Error("scoring stopped early",
			zap.String(logger.FieldJobTitle, run.JobTitle),
			zap.Int("scored", len(response.Results)),
			zap.Error(scoreErr),
		)
		response.Error = scoreErr.Error()
		return c.Status(errorStatus(scoreErr)).JSON(response)
	}

	if name := formValue(form, "session_name"); name != "" && len(response.Results) > 0 {
		session, err := h.screener.SaveSession(run, name)
		if err != nil {
			response.Error = err.Error()
			return c.Status(errorStatus(err)).JSON(response)
		}
		response.Session = session
	}

	return c.JSON(response)
}

func readResume(file *multipart.FileHeader) (models.ResumeDocument, error) {
	mediaType := models.MediaTypeFromFilename(file.Filename)
	if mediaType == "" {
		mediaType = file.Header.Get(fiber.HeaderContentType)
	}

	f, err := file.Open()
	if err != nil {
		return models.ResumeDocument{}, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return models.ResumeDocument{}, fmt.Errorf("failed to read upload: %w", err)
	}

	return models.ResumeDocument{
		Filename:  file.Filename,
		MediaType: mediaType,
		Content:   content,
	}, nil
}

func formValue(form *multipart.Form, key string) string {
	if values := form.Value[key]; len(values) > 0 {
		return strings.TrimSpace(values[0])
	}
	return ""
}
