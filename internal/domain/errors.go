package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeForbidden    ErrorCode = "FORBIDDEN"
	CodeConflict     ErrorCode = "CONFLICT"

	// Validation errors
	CodeValidation    ErrorCode = "VALIDATION_ERROR"
	CodeMissingField  ErrorCode = "MISSING_FIELD"
	CodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	CodeOutOfRange    ErrorCode = "OUT_OF_RANGE"

	// Question bank and quiz errors
	CodeQuestionNotFound    ErrorCode = "QUESTION_NOT_FOUND"
	CodeQuestionExists      ErrorCode = "QUESTION_EXISTS"
	CodeQuizNotFound        ErrorCode = "QUIZ_NOT_FOUND"
	CodeQuizDeactivated     ErrorCode = "QUIZ_DEACTIVATED"
	CodeAssignmentNotFound  ErrorCode = "ASSIGNMENT_NOT_FOUND"
	CodeAssignmentCompleted ErrorCode = "ASSIGNMENT_COMPLETED"
	CodeInvalidAnswer       ErrorCode = "INVALID_ANSWER"

	// Auth errors
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeEmailTaken         ErrorCode = "EMAIL_TAKEN"

	CodeLLMServiceError ErrorCode = "LLM_SERVICE_ERROR"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Context map[string]interface{} `json:"context,omitempty"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
		Context: e.Context,
	})
}

// WithContext attaches a detail that is returned to API clients.
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// HasCode reports whether err is a DomainError carrying code.
func HasCode(err error, code ErrorCode) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(CodeInternal, message, err)
}

func NewUnauthorizedError(message string) *DomainError {
	return NewError(CodeUnauthorized, message, nil)
}

func NewForbiddenError(message string) *DomainError {
	return NewError(CodeForbidden, message, nil)
}

func NewQuestionNotFoundError(questionID string) *DomainError {
	return NewError(CodeQuestionNotFound, fmt.Sprintf("Question not found with ID: %s", questionID), nil)
}

func NewQuestionExistsError() *DomainError {
	return NewError(CodeQuestionExists, "Question already exists", nil)
}

func NewQuizNotFoundError(quizID string) *DomainError {
	return NewError(CodeQuizNotFound, fmt.Sprintf("Quiz not found with ID: %s", quizID), nil)
}

func NewQuizDeactivatedError(quizID string) *DomainError {
	return NewError(CodeQuizDeactivated, "Quiz is deactivated", nil).WithContext("quiz_id", quizID)
}

func NewAssignmentNotFoundError() *DomainError {
	return NewError(CodeAssignmentNotFound, "Assignment not found", nil)
}

func NewAssignmentCompletedError() *DomainError {
	return NewError(CodeAssignmentCompleted, "Assignment is already completed", nil)
}

func NewInvalidAnswerError(message string) *DomainError {
	return NewError(CodeInvalidAnswer, message, nil)
}

func NewInvalidCredentialsError() *DomainError {
	return NewError(CodeInvalidCredentials, "Invalid email or password", nil)
}

func NewEmailTakenError(email string) *DomainError {
	return NewError(CodeEmailTaken, "Email is already registered", nil).WithContext("email", email)
}

func NewLLMServiceError(err error) *DomainError {
	return NewError(CodeLLMServiceError, "Failed to process with LLM service", err)
}

// ValidationError describes one invalid request field.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// ValidationErrors is returned by request validation and rendered as a 400 response.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func NewMissingFieldError(field string) ValidationError {
	return ValidationError{Field: field, Message: "field is required"}
}

func NewInvalidFormatError(field string, value interface{}) ValidationError {
	return ValidationError{Field: field, Message: "invalid format", Value: value}
}

func NewOutOfRangeError(field string, value interface{}, min, max int) ValidationError {
	return ValidationError{Field: field, Message: fmt.Sprintf("must be between %d and %d", min, max), Value: value}
}

// NewValidationError wraps a single message as a validation failure.
func NewValidationError(field, message string) ValidationErrors {
	return ValidationErrors{{Field: field, Message: message}}
}
