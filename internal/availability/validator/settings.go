package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"solodesk/pkg/logger"
	"solodesk/pkg/model"
)

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

// AvailabilityValidator checks availability settings and single-slot
// requests before any store mutation is attempted.
type AvailabilityValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewAvailabilityValidator(log *logger.Logger) *AvailabilityValidator {
	v := validator.New()

	if err := v.RegisterValidation("hhmm", validateHHMM); err != nil {
		log.Fatal("Failed to register 'hhmm' validator", "error", err)
	}

	return &AvailabilityValidator{validate: v, logger: log}
}

func validateHHMM(fl validator.FieldLevel) bool {
	value := strings.TrimSpace(fl.Field().String())
	if value == "" {
		return true // emptiness is governed by required/omitempty
	}
	_, err := time.Parse("15:04", value)
	return err == nil
}

// ValidateParameters runs the tag checks plus the window-ordering rules the
// tags cannot express: each present window must end after it starts, and
// enabling weekends requires both weekend bounds.
func (v *AvailabilityValidator) ValidateParameters(p model.GenerationParameters) error {
	var out ValidationErrors

	if err := v.validate.Struct(p); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			out = append(out, translate(fieldErrs)...)
		} else {
			return err
		}
	}

	if windowInverted(p.WeekdayStart, p.WeekdayEnd) {
		out = append(out, ValidationError{
			Field:   "WeekdayEnd",
			Message: "weekday_end must be after weekday_start",
		})
	}
	if p.AllowWeekends {
		if p.WeekendStart == "" || p.WeekendEnd == "" {
			out = append(out, ValidationError{
				Field:   "WeekendStart",
				Message: "weekend_start and weekend_end are required when weekends are enabled",
			})
		} else if windowInverted(p.WeekendStart, p.WeekendEnd) {
			out = append(out, ValidationError{
				Field:   "WeekendEnd",
				Message: "weekend_end must be after weekend_start",
			})
		}
	}

	if len(out) > 0 {
		return out
	}
	return nil
}

// ValidateSlot checks a single custom-slot request.
func (v *AvailabilityValidator) ValidateSlot(req model.SlotRequest) error {
	if err := v.validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			return translate(fieldErrs)
		}
		return err
	}
	return nil
}

// windowInverted reports whether both bounds parse and end <= start.
func windowInverted(startHHMM, endHHMM string) bool {
	start, errS := time.Parse("15:04", strings.TrimSpace(startHHMM))
	end, errE := time.Parse("15:04", strings.TrimSpace(endHHMM))
	if errS != nil || errE != nil {
		return false // malformed values are reported by the hhmm tag
	}
	return !end.After(start)
}

func translate(errs validator.ValidationErrors) ValidationErrors {
	var out ValidationErrors
	for _, err := range errs {
		message := err.Error()
		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "hhmm":
			message = fmt.Sprintf("%s must be in HH:MM 24-hour format", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "gtfield":
			message = fmt.Sprintf("%s must be after %s", err.Field(), err.Param())
		}
		out = append(out, ValidationError{Field: err.Field(), Message: message})
	}
	return out
}
