package handler

import (
	"quiz-admin/internal/dto"
	"quiz-admin/internal/service"
	"quiz-admin/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// TakingHandler serves the quiz taker's dashboard and quiz sessions.
type TakingHandler struct {
	service   service.QuizTakingService
	validator *validation.Validator
}

func NewTakingHandler(service service.QuizTakingService, validator *validation.Validator) *TakingHandler {
	return &TakingHandler{service: service, validator: validator}
}

// Dashboard godoc
// @Summary Open assignments of the caller
// @Tags quiz
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.DashboardResponse
// @Router /dashboard [get]
func (h *TakingHandler) Dashboard(c *fiber.Ctx) error {
	_, email, err := currentUser(c)
	if err != nil {
		return err
	}
	resp, err := h.service.Dashboard(c.UserContext(), email)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Start godoc
// @Summary Start an assigned quiz
// @Tags quiz
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} dto.AssignmentResponse
// @Failure 403 {object} middleware.ErrorResponse "Not assigned to caller"
// @Failure 409 {object} middleware.ErrorResponse "Completed or deactivated"
// @Router /assignments/{id}/start [post]
func (h *TakingHandler) Start(c *fiber.Ctx) error {
	_, email, err := currentUser(c)
	if err != nil {
		return err
	}
	resp, err := h.service.Start(c.UserContext(), email, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Session godoc
// @Summary Resume a quiz
// @Description Returns questions in the assignment's order with saved answers. Correct answers are not revealed.
// @Tags quiz
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} dto.QuizSessionResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Router /assignments/{id} [get]
func (h *TakingHandler) Session(c *fiber.Ctx) error {
	_, email, err := currentUser(c)
	if err != nil {
		return err
	}
	resp, err := h.service.Session(c.UserContext(), email, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// SaveAnswer godoc
// @Summary Save an answer
// @Tags quiz
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path string true "Assignment ID"
// @Param progressId path string true "Progress row ID"
// @Param body body dto.SaveAnswerRequest true "Selected answer"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} middleware.ErrorResponse "Answer not on this question"
// @Router /assignments/{id}/progress/{progressId} [put]
func (h *TakingHandler) SaveAnswer(c *fiber.Ctx) error {
	_, email, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.SaveAnswerRequest
	if err := bindJSON(c, h.validator, &req); err != nil {
		return err
	}
	if err := h.service.SaveAnswer(c.UserContext(), email, c.Params("id"), c.Params("progressId"), req.AnswerID); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Answer saved"})
}

// MoveIndex godoc
// @Summary Move to another question
// @Tags quiz
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path string true "Assignment ID"
// @Param body body dto.MoveIndexRequest true "Question index"
// @Success 200 {object} dto.AssignmentResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /assignments/{id}/index [put]
func (h *TakingHandler) MoveIndex(c *fiber.Ctx) error {
	_, email, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.MoveIndexRequest
	if err := bindJSON(c, h.validator, &req); err != nil {
		return err
	}
	resp, err := h.service.MoveTo(c.UserContext(), email, c.Params("id"), req.Index)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Complete godoc
// @Summary Submit a quiz
// @Description Optionally saves a final answer, records attempts and returns the score.
// @Tags quiz
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path string true "Assignment ID"
// @Param body body dto.CompleteQuizRequest false "Final answer"
// @Success 200 {object} dto.QuizResultResponse
// @Failure 409 {object} middleware.ErrorResponse "Already completed"
// @Router /assignments/{id}/complete [post]
func (h *TakingHandler) Complete(c *fiber.Ctx) error {
	userID, email, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.CompleteQuizRequest
	if len(c.Body()) > 0 {
		if err := bindJSON(c, h.validator, &req); err != nil {
			return err
		}
	}
	resp, err := h.service.Complete(c.UserContext(), userID, email, c.Params("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
