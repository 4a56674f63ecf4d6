package handler

import (
	"quiz-admin/internal/domain"
	"quiz-admin/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// Handlers groups every HTTP handler mounted under /api.
type Handlers struct {
	Auth       *AuthHandler
	User       *UserHandler
	Question   *QuestionHandler
	Quiz       *QuizHandler
	Assignment *AssignmentHandler
	Taking     *TakingHandler
	Result     *ResultHandler
}

// RegisterRoutes mounts the API on router. tokens validates bearer tokens for protected routes.
func RegisterRoutes(router fiber.Router, h Handlers, tokens middleware.TokenValidator, vm *middleware.ValidationMiddleware) {
	protected := middleware.Protected(tokens)
	id := vm.ValidateIDParams("id")

	auth := router.Group("/auth")
	auth.Post("/signup", h.Auth.SignUp)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.RefreshToken)
	auth.Get("/google/login", h.Auth.GoogleLogin)
	auth.Get("/google/callback", h.Auth.GoogleCallback)
	auth.Post("/logout", protected, h.Auth.Logout)

	router.Get("/users/me", protected, h.User.GetMyProfile)

	// Quiz taking
	router.Get("/dashboard", protected, h.Taking.Dashboard)
	taking := router.Group("/assignments", protected)
	taking.Get("/:id", id, h.Taking.Session)
	taking.Post("/:id/start", id, h.Taking.Start)
	taking.Put("/:id/progress/:progressId", vm.ValidateIDParams("id", "progressId"), h.Taking.SaveAnswer)
	taking.Put("/:id/index", id, h.Taking.MoveIndex)
	taking.Post("/:id/complete", id, h.Taking.Complete)

	admin := router.Group("/admin", protected, middleware.RequireRole(domain.RoleAdmin))

	admin.Get("/questions", vm.ValidatePage(), h.Question.ListQuestions)
	admin.Post("/questions", h.Question.CreateQuestion)
	admin.Post("/questions/generate", h.Question.GenerateQuestions)
	admin.Get("/questions/:id", id, h.Question.GetQuestion)
	admin.Put("/questions/:id", id, h.Question.UpdateQuestion)
	admin.Delete("/questions/:id", id, h.Question.DeleteQuestion)
	admin.Get("/questions/:id/history", id, h.Question.QuestionHistory)

	admin.Get("/quizzes", h.Quiz.ListQuizzes)
	admin.Post("/quizzes", h.Quiz.CreateQuiz)
	admin.Get("/quizzes/:id", id, h.Quiz.GetQuiz)
	admin.Post("/quizzes/:id/toggle-status", id, h.Quiz.ToggleStatus)
	admin.Get("/quizzes/:id/questions", id, h.Quiz.QuizQuestions)
	admin.Post("/quizzes/:id/questions", id, h.Quiz.AddQuestion)
	admin.Post("/quizzes/:id/questions/bulk", id, h.Quiz.BulkQuestions)
	admin.Delete("/quizzes/:id/questions/:questionId", vm.ValidateIDParams("id", "questionId"), h.Quiz.RemoveQuestion)
	admin.Get("/quizzes/:id/stats", id, h.Quiz.QuizStats)

	admin.Get("/assignments", h.Assignment.ListAssignments)
	admin.Post("/assignments", h.Assignment.AssignQuiz)
	admin.Post("/assignments/:id/allow-resume", id, h.Assignment.AllowResume)
	admin.Post("/assignments/:id/fresh-reassign", id, h.Assignment.FreshReassign)

	admin.Get("/results", vm.ValidatePage(), h.Result.ListResults)
	admin.Get("/results/export", h.Result.ExportResults)
	admin.Delete("/results/:id", id, h.Result.DeleteResult)
	admin.Get("/analytics", h.Result.Analytics)
}
