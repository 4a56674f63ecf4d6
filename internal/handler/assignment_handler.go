package handler

import (
	"quiz-admin/internal/dto"
	"quiz-admin/internal/service"
	"quiz-admin/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type AssignmentHandler struct {
	service   service.AssignmentService
	validator *validation.Validator
}

func NewAssignmentHandler(service service.AssignmentService, validator *validation.Validator) *AssignmentHandler {
	return &AssignmentHandler{service: service, validator: validator}
}

// ListAssignments godoc
// @Summary List assignments
// @Tags admin-assignments
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} dto.AssignmentResponse
// @Router /admin/assignments [get]
func (h *AssignmentHandler) ListAssignments(c *fiber.Ctx) error {
	list, err := h.service.ListAssignments(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(list)
}

// AssignQuiz godoc
// @Summary Assign a quiz to a user email
// @Description Creates the assignment with a shuffled question order and emails the user.
// @Tags admin-assignments
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param body body dto.AssignQuizRequest true "Assignment"
// @Success 201 {object} dto.AssignmentResponse
// @Failure 404 {object} middleware.ErrorResponse "Quiz not found"
// @Failure 409 {object} middleware.ErrorResponse "Quiz deactivated"
// @Router /admin/assignments [post]
func (h *AssignmentHandler) AssignQuiz(c *fiber.Ctx) error {
	var req dto.AssignQuizRequest
	if err := bindJSON(c, h.validator, &req); err != nil {
		return err
	}
	userID, _, err := currentUser(c)
	if err != nil {
		return err
	}
	resp, err := h.service.AssignQuiz(c.UserContext(), req, userID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// AllowResume godoc
// @Summary Reopen a completed assignment
// @Tags admin-assignments
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} dto.AssignmentResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /admin/assignments/{id}/allow-resume [post]
func (h *AssignmentHandler) AllowResume(c *fiber.Ctx) error {
	resp, err := h.service.AllowResume(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// FreshReassign godoc
// @Summary Replace an assignment with a fresh one
// @Description Discards progress and creates a new assignment for the same user and quiz.
// @Tags admin-assignments
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 201 {object} dto.AssignmentResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /admin/assignments/{id}/fresh-reassign [post]
func (h *AssignmentHandler) FreshReassign(c *fiber.Ctx) error {
	resp, err := h.service.FreshReassign(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}
