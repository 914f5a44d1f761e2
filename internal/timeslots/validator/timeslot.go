package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

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

type TimeSlotValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
	duration int
}

func NewTimeSlotValidator(log *logger.Logger, slotDuration int) *TimeSlotValidator {
	v := validator.New()

	if err := v.RegisterValidation("hhmm", validateHHMM); err != nil {
		log.Fatal("Failed to register 'hhmm' validator", "error", err)
	}
	if err := v.RegisterValidation("jalali_date", validateJalaliDate); err != nil {
		log.Fatal("Failed to register 'jalali_date' validator", "error", err)
	}

	return &TimeSlotValidator{
		validate: v,
		logger:   log,
		duration: slotDuration,
	}
}

func validateHHMM(fl validator.FieldLevel) bool {
	return hhmmRegex.MatchString(fl.Field().String())
}

func validateJalaliDate(fl validator.FieldLevel) bool {
	_, err := jalali.ToTime(fl.Field().String())
	return err == nil
}

func (v *TimeSlotValidator) ValidateBatch(batch *model.SlotBatch) error {
	if err := v.collect(v.validate.Struct(batch)); err != nil {
		return err
	}

	var errs ValidationErrors
	for i, slot := range batch.Slots {
		if err := v.checkTimes(slot.StartTime, slot.EndTime); err != nil {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("slots[%d]", i),
				Message: err.Error(),
			})
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateTimes enforces the slot ordering rule on an edit: the end
// must come after the start and the span must cover at least one full
// slot duration.
func (v *TimeSlotValidator) ValidateTimes(startTime, endTime string) error {
	if err := v.checkTimes(startTime, endTime); err != nil {
		return ValidationErrors{{Field: "end_time", Message: err.Error()}}
	}
	return nil
}

func (v *TimeSlotValidator) checkTimes(startTime, endTime string) error {
	start, ok := minutes(startTime)
	if !ok {
		return fmt.Errorf("start_time %q is not a valid HH:MM time", startTime)
	}
	end, ok := minutes(endTime)
	if !ok {
		return fmt.Errorf("end_time %q is not a valid HH:MM time", endTime)
	}
	if end <= start {
		return errors.New("end_time must be after start_time")
	}
	if end-start < v.duration {
		return fmt.Errorf("slot must cover at least %d minutes", v.duration)
	}
	return nil
}

func minutes(s string) (int, bool) {
	if !hhmmRegex.MatchString(s) {
		return 0, false
	}
	var h, m int
	_, _ = fmt.Sscanf(s, "%d:%d", &h, &m)
	return h*60 + m, true
}

func (v *TimeSlotValidator) collect(err error) error {
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
			Message: fmt.Sprintf("failed %s validation", fe.Tag()),
		})
	}
	return out
}
