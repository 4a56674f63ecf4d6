package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"quiz-admin/internal/domain"
	"quiz-admin/internal/util"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

const (
	// DateLayout is the format of day filters in query strings.
	DateLayout = "2006-01-02"

	notBlankTag   = "notblank"
	difficultyTag = "difficulty"
	ulidTag       = "ulid"
)

// Validator provides request validation functionality
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// NewValidator creates a validator that reports fields by their json names.
// It panics if a translation or custom tag cannot be registered.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	english := en.New()
	uni := ut.New(english, english)
	translator, found := uni.GetTranslator("en")
	if !found {
		panic("validation: english translator not found")
	}
	if err := en_translations.RegisterDefaultTranslations(v, translator); err != nil {
		panic(fmt.Sprintf("validation: registering translations: %v", err))
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerTag(v, notBlankTag, func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	registerTag(v, difficultyTag, func(fl validator.FieldLevel) bool {
		_, ok := domain.ParseDifficulty(fl.Field().String())
		return ok
	})
	registerTag(v, ulidTag, func(fl validator.FieldLevel) bool {
		return util.IsULID(fl.Field().String())
	})

	return &Validator{validate: v, translator: translator}
}

func registerTag(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: registering tag %q: %v", tag, err))
	}
}

func customMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case notBlankTag:
		return "this field cannot be blank"
	case difficultyTag:
		return "must be one of easy, medium, tough"
	case ulidTag:
		return "must be a valid id"
	}
	return ""
}

// Struct validates a request body and returns domain.ValidationErrors, or nil when it is valid.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	out := make(domain.ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg := customMessage(fe)
		if msg == "" {
			msg = fe.Translate(v.translator)
		}
		out = append(out, domain.ValidationError{Field: fieldPath(fe), Message: msg, Value: fe.Value()})
	}
	return out
}

// fieldPath drops the top level struct name: "QuestionRequest.answers[0].text" becomes "answers[0].text".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// ValidateULID checks a path or query identifier.
func (v *Validator) ValidateULID(field, value string) domain.ValidationErrors {
	if strings.TrimSpace(value) == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError(field)}
	}
	if !util.IsULID(value) {
		return domain.ValidationErrors{domain.NewInvalidFormatError(field, value)}
	}
	return nil
}

// ValidatePage parses a 1-based page number. An empty value means page 1.
func (v *Validator) ValidatePage(raw string) (int, domain.ValidationErrors) {
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.ValidationErrors{domain.NewInvalidFormatError("page", raw)}
	}
	if page < 1 || page > 100000 {
		return 0, domain.ValidationErrors{domain.NewOutOfRangeError("page", page, 1, 100000)}
	}
	return page, nil
}

// ParseDay parses a YYYY-MM-DD filter in the server's local time zone. An empty value yields nil.
func ParseDay(field, raw string) (*time.Time, domain.ValidationErrors) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	day, err := time.ParseInLocation(DateLayout, raw, time.Local)
	if err != nil {
		return nil, domain.ValidationErrors{domain.NewInvalidFormatError(field, raw)}
	}
	return &day, nil
}
