package handler

import (
	"quiz-admin/internal/dto"
	"quiz-admin/internal/service"
	"quiz-admin/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// QuizHandler handles admin quiz requests.
type QuizHandler struct {
	service   service.QuizService
	validator *validation.Validator
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.QuizService, validator *validation.Validator) *QuizHandler {
	return &QuizHandler{service: service, validator: validator}
}

// ListQuizzes godoc
// @Summary List quizzes
// @Tags admin-quizzes
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} dto.QuizResponse
// @Router /admin/quizzes [get]
func (h *QuizHandler) ListQuizzes(c *fiber.Ctx) error {
	quizzes, err := h.service.ListQuizzes(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(quizzes)
}

// CreateQuiz godoc
// @Summary Create a quiz
// @Tags admin-quizzes
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param body body dto.CreateQuizRequest true "Quiz"
// @Success 201 {object} dto.QuizResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /admin/quizzes [post]
func (h *QuizHandler) CreateQuiz(c *fiber.Ctx) error {
	var req dto.CreateQuizRequest
	if err := bindJSON(c, h.validator, &req); err != nil {
		return err
	}
	userID, _, err := currentUser(c)
	if err != nil {
		return err
	}
	resp, err := h.service.CreateQuiz(c.UserContext(), req, userID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetQuiz godoc
// @Summary Get a quiz
// @Tags admin-quizzes
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.QuizResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /admin/quizzes/{id} [get]
func (h *QuizHandler) GetQuiz(c *fiber.Ctx) error {
	resp, err := h.service.GetQuiz(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// ToggleStatus godoc
// @Summary Activate or deactivate a quiz
// @Tags admin-quizzes
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.QuizResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /admin/quizzes/{id}/toggle-status [post]
func (h *QuizHandler) ToggleStatus(c *fiber.Ctx) error {
	resp, err := h.service.ToggleStatus(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// QuizQuestions godoc
// @Summary Questions of a quiz
// @Description Returns the quiz's questions and the active bank questions that can still be added.
// @Tags admin-quizzes
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.QuizQuestionsResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /admin/quizzes/{id}/questions [get]
func (h *QuizHandler) QuizQuestions(c *fiber.Ctx) error {
	resp, err := h.service.QuizQuestions(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// AddQuestion godoc
// @Summary Add a question to a quiz
// @Tags admin-quizzes
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path string true "Quiz ID"
// @Param body body dto.QuizQuestionRequest true "Question"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /admin/quizzes/{id}/questions [post]
func (h *QuizHandler) AddQuestion(c *fiber.Ctx) error {
	var req dto.QuizQuestionRequest
	if err := bindJSON(c, h.validator, &req); err != nil {
		return err
	}
	if err := h.service.AddQuestionToQuiz(c.UserContext(), c.Params("id"), req.QuestionID); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Question added to quiz"})
}

// RemoveQuestion godoc
// @Summary Remove a question from a quiz
// @Tags admin-quizzes
// @Security ApiKeyAuth
// @Param id path string true "Quiz ID"
// @Param questionId path string true "Question ID"
// @Success 204
// @Failure 404 {object} middleware.ErrorResponse
// @Router /admin/quizzes/{id}/questions/{questionId} [delete]
func (h *QuizHandler) RemoveQuestion(c *fiber.Ctx) error {
	if err := h.service.RemoveQuestionFromQuiz(c.UserContext(), c.Params("id"), c.Params("questionId")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// BulkQuestions godoc
// @Summary Add or remove many questions
// @Tags admin-quizzes
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path string true "Quiz ID"
// @Param body body dto.BulkQuestionsRequest true "Operation and question ids"
// @Success 200 {object} dto.BulkQuestionsResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /admin/quizzes/{id}/questions/bulk [post]
func (h *QuizHandler) BulkQuestions(c *fiber.Ctx) error {
	var req dto.BulkQuestionsRequest
	if err := bindJSON(c, h.validator, &req); err != nil {
		return err
	}
	resp, err := h.service.BulkUpdateQuestions(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// QuizStats godoc
// @Summary Attempt statistics of a quiz
// @Tags admin-quizzes
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.QuizStatsResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /admin/quizzes/{id}/stats [get]
func (h *QuizHandler) QuizStats(c *fiber.Ctx) error {
	resp, err := h.service.QuizStats(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
