package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"hotelops/pkg/logger"
	"hotelops/pkg/model"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
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

// Details flattens the errors into a field -> message map for API responses.
func (v ValidationErrors) Details() map[string]any {
	details := make(map[string]any, len(v))
	for _, err := range v {
		details[err.Field] = err.Message
	}
	return details
}

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})

	if err := v.RegisterValidation("booking_status", validateBookingStatus); err != nil {
		log.Fatal("Failed to register 'booking_status' validator",
			"error", err,
		)
	}

	log.Info("Booking validator initialized successfully")

	return &BookingValidator{
		validate: v,
		logger:   log,
	}
}

func validateBookingStatus(fl validator.FieldLevel) bool {
	status, ok := fl.Field().Interface().(model.BookingStatus)
	if !ok {
		return false
	}
	return status.Valid()
}

func (v *BookingValidator) Validate(booking *model.Booking) error {
	if err := v.validate.Struct(booking); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	var errs ValidationErrors

	if booking.GuestEmail == "" && booking.GuestPhone == "" {
		errs = append(errs, ValidationError{
			Field:   "guest_email",
			Message: "guest_email or guest_phone is required",
		})
	}

	switch {
	case booking.CheckIn.IsZero():
		errs = append(errs, ValidationError{Field: "check_in", Message: "check_in is required"})
	case booking.CheckOut.IsZero():
		errs = append(errs, ValidationError{Field: "check_out", Message: "check_out is required"})
	case !booking.CheckIn.Before(booking.CheckOut):
		errs = append(errs, ValidationError{
			Field:   "check_out",
			Message: "check_out must be after check_in",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (v *BookingValidator) ValidateTransition(req *model.TransitionRequest) error {
	var errs ValidationErrors

	if strings.TrimSpace(req.BookingID) == "" {
		errs = append(errs, ValidationError{Field: "booking_id", Message: "booking_id is required"})
	}
	if req.NewStatus == nil && req.NewRoomID == nil {
		errs = append(errs, ValidationError{Field: "status", Message: "status or room_id is required"})
	}
	if req.NewStatus != nil && !req.NewStatus.Valid() {
		errs = append(errs, ValidationError{
			Field:   "status",
			Message: fmt.Sprintf("status must be one of: %s", statusList()),
		})
	}
	if req.NewRoomID != nil && strings.TrimSpace(*req.NewRoomID) == "" {
		errs = append(errs, ValidationError{Field: "room_id", Message: "room_id cannot be empty"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func statusList() string {
	names := make([]string, len(model.BookingStatuses))
	for i, s := range model.BookingStatuses {
		names[i] = string(s)
	}
	return strings.Join(names, " ")
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "gte":
			message = fmt.Sprintf("%s must be greater than or equal to %s", err.Field(), err.Param())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", err.Field())
		case "e164":
			message = fmt.Sprintf("%s must be in E.164 format (e.g., +14155552671)", err.Field())
		case "booking_status":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), statusList())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
