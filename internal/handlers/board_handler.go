package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/repositories"
	"alfredoptarigan/resume-screener/internal/services"
)

const (
	defaultSearchLimit = 5
	xlsxContentType    = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type BoardHandler struct {
	records repositories.CandidateRepository
	index   services.CandidateIndex
	events  services.EventPublisher
	log     *zap.Logger
}

func NewBoardHandler(
	records repositories.CandidateRepository,
	index services.CandidateIndex,
	events services.EventPublisher,
	log *zap.Logger,
) *BoardHandler {
	return &BoardHandler{
		records: records,
		index:   index,
		events:  events,
		log:     log,
	}
}

// HandleJobs handles GET /jobs
func (h *BoardHandler) HandleJobs(c *fiber.Ctx) error {
	titles, err := h.records.ListJobTitles()
	if err != nil {
		return err
	}
	if titles == nil {
		titles = []string{}
	}

	return c.JSON(fiber.Map{
		"job_titles": titles,
	})
}

// HandleBoard handles GET /board?job_title=
func (h *BoardHandler) HandleBoard(c *fiber.Ctx) error {
	board, err := h.loadBoard(c.Query("job_title"))
	if err != nil {
		return err
	}

	return c.JSON(board.Response())
}

// HandleExport handles GET /board/export?job_title=
func (h *BoardHandler) HandleExport(c *fiber.Ctx) error {
	board, err := h.loadBoard(c.Query("job_title"))
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := services.ExportBoard(board.JobTitle(), board.Columns(), &buf); err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", services.ExportFilename(board.JobTitle())))
	return c.Send(buf.Bytes())
}

// HandleGetCandidate handles GET /candidates/:id
func (h *BoardHandler) HandleGetCandidate(c *fiber.Ctx) error {
	record, err := h.records.FindByID(models.RecordID(c.Params("id")))
	if err != nil {
		return err
	}

	return c.JSON(record)
}

// HandleUpdateStatus handles PATCH /candidates/:id/status
func (h *BoardHandler) HandleUpdateStatus(c *fiber.Ctx) error {
	var req models.StatusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request payload")
	}

	stage, err := models.ParseStage(req.Status)
	if err != nil {
		return err
	}

	board, id, err := h.boardForCandidate(c.Params("id"))
	if err != nil {
		return err
	}

	record, err := board.MoveCandidate(c.UserContext(), id, stage)
	if err != nil {
		return err
	}

	return c.JSON(record)
}

// HandleUpdateNotes handles PUT /candidates/:id/notes
func (h *BoardHandler) HandleUpdateNotes(c *fiber.Ctx) error {
	var req models.NotesUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request payload")
	}

	board, id, err := h.boardForCandidate(c.Params("id"))
	if err != nil {
		return err
	}

	record, err := board.SaveNotes(c.UserContext(), id, req.Notes)
	if err != nil {
		return err
	}

	return c.JSON(record)
}

// HandleSearch handles GET /search?job_title=&q=&limit=
func (h *BoardHandler) HandleSearch(c *fiber.Ctx) error {
	if h.index == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "candidate search is not configured")
	}

	jobTitle := strings.TrimSpace(c.Query("job_title"))
	if jobTitle == "" {
		return &models.MissingInputError{Field: "job_title"}
	}
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return &models.MissingInputError{Field: "q"}
	}

	hits, err := h.index.Search(c.UserContext(), jobTitle, query, c.QueryInt("limit", defaultSearchLimit))
	if err != nil {
		return err
	}

	response := models.SearchResponse{
		JobTitle: jobTitle,
		Query:    query,
		Hits:     hits,
		Records:  []models.CandidateRecord{},
	}
	if response.Hits == nil {
		response.Hits = []models.SearchHit{}
	}

	for _, hit := range hits {
		record, err := h.records.FindByID(hit.RecordID)
		if errors.Is(err, models.ErrRecordNotFound) {
			// Index entries can outlive their records.
			continue
		}
		if err != nil {
			return err
		}
		response.Records = append(response.Records, *record)
	}

	return c.JSON(response)
}

func (h *BoardHandler) loadBoard(jobTitle string) (*services.WorkflowBoard, error) {
	jobTitle = strings.TrimSpace(jobTitle)
	if jobTitle == "" {
		return nil, &models.MissingInputError{Field: "job_title"}
	}

	board := services.NewWorkflowBoard(jobTitle, h.records, h.events, h.log)
	if err := board.Refresh(); err != nil {
		return nil, err
	}

	return board, nil
}

func (h *BoardHandler) boardForCandidate(rawID string) (*services.WorkflowBoard, models.RecordID, error) {
	id := models.RecordID(rawID)

	record, err := h.records.FindByID(id)
	if err != nil {
		return nil, "", err
	}

	board, err := h.loadBoard(record.JobTitle)
	if err != nil {
		return nil, "", err
	}

	return board, id, nil
}
