package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/logger"
	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/repositories"
	"alfredoptarigan/resume-screener/internal/services"
)

// Dependencies are the services the HTTP surface needs. Index and Events may be nil.
type Dependencies struct {
	Screener    *services.Screener
	Records     repositories.CandidateRepository
	Index       services.CandidateIndex
	Events      services.EventPublisher
	MaxFileSize int64
	Log         *zap.Logger
}

// Routes lists the registered endpoints, relative to the API group.
var Routes = []string{
	"POST /score",
	"POST /questions",
	"GET /jobs",
	"GET /board?job_title=",
	"GET /board/export?job_title=",
	"GET /candidates/:id",
	"PATCH /candidates/:id/status",
	"PUT /candidates/:id/notes",
	"GET /search?job_title=&q=",
	"GET /sessions",
	"DELETE /sessions/:id",
	"GET /health",
}

// Register mounts every endpoint on router.
func Register(router fiber.Router, deps Dependencies) {
	log := logger.OrNop(deps.Log)

	scoreHandler := NewScoreHandler(deps.Screener, deps.MaxFileSize, log)
	questionsHandler := NewQuestionsHandler(deps.Screener)
	boardHandler := NewBoardHandler(deps.Records, deps.Index, deps.Events, log)
	sessionHandler := NewSessionHandler(deps.Screener)

	router.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	router.Post("/score", scoreHandler.HandleScore)
	router.Post("/questions", questionsHandler.HandleQuestions)

	router.Get("/jobs", boardHandler.HandleJobs)
	router.Get("/board", boardHandler.HandleBoard)
	router.Get("/board/export", boardHandler.HandleExport)
	router.Get("/candidates/:id", boardHandler.HandleGetCandidate)
	router.Patch("/candidates/:id/status", boardHandler.HandleUpdateStatus)
	router.Put("/candidates/:id/notes", boardHandler.HandleUpdateNotes)
	router.Get("/search", boardHandler.HandleSearch)

	router.Get("/sessions", sessionHandler.HandleList)
	router.Delete("/sessions/:id", sessionHandler.HandleDelete)
}

// ErrorHandler renders any error that reaches fiber as the standard JSON error body.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := errorStatus(err)

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}

func errorStatus(err error) int {
	var fiberErr *fiber.Error
	var unsupported *models.UnsupportedFormatError
	var missing *models.MissingInputError
	var serviceErr *models.ServiceError

	switch {
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	case errors.As(err, &unsupported):
		return fiber.StatusUnsupportedMediaType
	case errors.As(err, &missing), errors.Is(err, models.ErrInvalidStage):
		return fiber.StatusBadRequest
	case errors.Is(err, models.ErrRecordNotFound):
		return fiber.StatusNotFound
	case errors.As(err, &serviceErr):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
