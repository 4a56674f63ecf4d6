package handler

import (
	"quiz-admin/internal/dto"
	"quiz-admin/internal/middleware"
	"quiz-admin/internal/service"
	"quiz-admin/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// QuestionHandler serves the admin question bank.
type QuestionHandler struct {
	service   service.QuestionService
	validator *validation.Validator
}

func NewQuestionHandler(service service.QuestionService, validator *validation.Validator) *QuestionHandler {
	return &QuestionHandler{service: service, validator: validator}
}

// ListQuestions godoc
// @Summary List bank questions
// @Description Paginated, optionally filtered by a text search and a difficulty level.
// @Tags admin-questions
// @Security ApiKeyAuth
// @Produce json
// @Param q query string false "Case-insensitive text search"
// @Param difficulty query string false "all, easy, medium or tough"
// @Param page query int false "Page number, starting at 1"
// @Success 200 {object} dto.QuestionListResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /admin/questions [get]
func (h *QuestionHandler) ListQuestions(c *fiber.Ctx) error {
	resp, err := h.service.ListQuestions(c.UserContext(), c.Query("q"), c.Query("difficulty"), middleware.PageFromContext(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// CreateQuestion godoc
// @Summary Add a question
// @Description Adds a question to the bank. A soft-deleted duplicate is restored instead and returned with restored=true.
// @Tags admin-questions
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param body body dto.QuestionRequest true "Question"
// @Success 201 {object} dto.QuestionResponse
// @Success 200 {object} dto.QuestionResponse "Restored duplicate"
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 409 {object} middleware.ErrorResponse "Question already exists"
// @Router /admin/questions [post]
func (h *QuestionHandler) CreateQuestion(c *fiber.Ctx) error {
	var req dto.QuestionRequest
	if err := bindJSON(c, h.validator, &req); err != nil {
		return err
	}
	userID, _, err := currentUser(c)
	if err != nil {
		return err
	}
	resp, err := h.service.AddQuestion(c.UserContext(), req, userID)
	if err != nil {
		return err
	}
	status := fiber.StatusCreated
	if resp.Restored {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(resp)
}

// GetQuestion godoc
// @Summary Get a question
// @Tags admin-questions
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "Question ID"
// @Success 200 {object} dto.QuestionResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /admin/questions/{id} [get]
func (h *QuestionHandler) GetQuestion(c *fiber.Ctx) error {
	resp, err := h.service.GetQuestion(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// UpdateQuestion godoc
// @Summary Edit a question
// @Description Answers with an id are edited, answers without one are added and missing ones are removed.
// @Tags admin-questions
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path string true "Question ID"
// @Param body body dto.QuestionRequest true "Question"
// @Success 200 {object} dto.QuestionResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /admin/questions/{id} [put]
func (h *QuestionHandler) UpdateQuestion(c *fiber.Ctx) error {
	var req dto.QuestionRequest
	if err := bindJSON(c, h.validator, &req); err != nil {
		return err
	}
	resp, err := h.service.UpdateQuestion(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// DeleteQuestion godoc
// @Summary Delete a question
// @Description Soft deletes unless hard=true, which also removes its answers, quiz links and attempts.
// @Tags admin-questions
// @Security ApiKeyAuth
// @Param id path string true "Question ID"
// @Param hard query bool false "Delete permanently"
// @Success 204
// @Failure 404 {object} middleware.ErrorResponse
// @Router /admin/questions/{id} [delete]
func (h *QuestionHandler) DeleteQuestion(c *fiber.Ctx) error {
	if err := h.service.DeleteQuestion(c.UserContext(), c.Params("id"), c.QueryBool("hard", false)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// QuestionHistory godoc
// @Summary Attempt history of a question
// @Tags admin-questions
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "Question ID"
// @Success 200 {object} dto.QuestionHistoryResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /admin/questions/{id}/history [get]
func (h *QuestionHandler) QuestionHistory(c *fiber.Ctx) error {
	resp, err := h.service.QuestionHistory(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GenerateQuestions godoc
// @Summary Generate questions with the LLM
// @Description Drafts are filed through duplicate detection. Duplicates and invalid drafts are counted, not stored.
// @Tags admin-questions
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param body body dto.GenerateQuestionsRequest true "Topic, difficulty and count"
// @Success 201 {object} dto.GenerateQuestionsResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 503 {object} middleware.ErrorResponse "LLM unavailable"
// @Router /admin/questions/generate [post]
func (h *QuestionHandler) GenerateQuestions(c *fiber.Ctx) error {
	var req dto.GenerateQuestionsRequest
	if err := bindJSON(c, h.validator, &req); err != nil {
		return err
	}
	userID, _, err := currentUser(c)
	if err != nil {
		return err
	}
	resp, err := h.service.GenerateQuestions(c.UserContext(), req, userID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}
