package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"laundromat/internal/wizard/fsm"
	"laundromat/pkg/jalali"
	"laundromat/pkg/logger"
	"laundromat/pkg/model"
)

var hhmmRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type WizardValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewWizardValidator(log *logger.Logger) *WizardValidator {
	v := validator.New()

	if err := v.RegisterValidation("hhmm", validateHHMM); err != nil {
		log.Fatal("Failed to register 'hhmm' validator", "error", err)
	}
	if err := v.RegisterValidation("jalali_date", validateJalaliDate); err != nil {
		log.Fatal("Failed to register 'jalali_date' validator", "error", err)
	}

	return &WizardValidator{
		validate: v,
		logger:   log,
	}
}

func validateHHMM(fl validator.FieldLevel) bool {
	return hhmmRegex.MatchString(fl.Field().String())
}

func validateJalaliDate(fl validator.FieldLevel) bool {
	_, err := jalali.ToTime(fl.Field().String())
	return err == nil
}

func (v *WizardValidator) ValidateDates(sel *model.DateSelection) error {
	return v.collect(v.validate.Struct(sel))
}

func (v *WizardValidator) ValidateWindow(w *fsm.Window) error {
	return v.collect(v.validate.Struct(w))
}

func (v *WizardValidator) collect(err error) error {
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		v.logger.Error("Invalid validation input", "error", err)
		return ValidationErrors{{Field: "struct", Message: "invalid input"}}
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return ValidationErrors{{Field: "struct", Message: err.Error()}}
	}

	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{
			Field:   fe.Field(),
			Message: messageFor(fe),
		})
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "hhmm":
		return "must be a zero-padded HH:MM time"
	case "jalali_date":
		return "must be a valid jalali date (YYYY/MM/DD)"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
