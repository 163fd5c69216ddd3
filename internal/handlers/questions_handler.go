package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/services"
)

type QuestionsHandler struct {
	screener *services.Screener
}

func NewQuestionsHandler(screener *services.Screener) *QuestionsHandler {
	return &QuestionsHandler{screener: screener}
}

// HandleQuestions handles POST /questions
func (h *QuestionsHandler) HandleQuestions(c *fiber.Ctx) error {
	var req models.QuestionsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request payload")
	}

	questions, err := h.screener.GenerateQuestions(c.UserContext(), req.JobDescription)
	if err != nil {
		return err
	}

	return c.JSON(models.QuestionsResponse{Questions: questions})
}
