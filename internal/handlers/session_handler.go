package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/services"
)

const defaultSessionLimit = 10

type SessionHandler struct {
	screener *services.Screener
}

func NewSessionHandler(screener *services.Screener) *SessionHandler {
	return &SessionHandler{screener: screener}
}

// HandleList handles GET /sessions?limit=
func (h *SessionHandler) HandleList(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultSessionLimit)
	if limit <= 0 {
		limit = defaultSessionLimit
	}

	sessions, err := h.screener.ListSessions(limit)
	if err != nil {
		return err
	}
	if sessions == nil {
		sessions = []models.ScoringSession{}
	}

	return c.JSON(fiber.Map{
		"sessions": sessions,
	})
}

// HandleDelete handles DELETE /sessions/:id
func (h *SessionHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.screener.DeleteSession(models.SessionID(c.Params("id"))); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}
