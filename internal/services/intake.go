package services

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/harentsoaR/appointment-intake/internal/models"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report failures under the JSON field names callers send.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// appointmentFields lists the intake fields in the order failures are reported.
var appointmentFields = []string{"name", "email", "phone", "preferredDate", "preferredTime", "symptoms"}

// AppointmentFromJSON normalizes a decoded JSON object into an appointment
// request and validates it. Every failing field is reported.
func AppointmentFromJSON(raw map[string]any) (models.NewAppointment, error) {
	typeErrs := make(map[string]string)
	field := func(key string) string {
		v, ok := raw[key]
		if !ok {
			return ""
		}
		s, ok := v.(string)
		if !ok {
			typeErrs[key] = "Expected string, received " + jsonType(v)
			return ""
		}
		return s
	}

	in := models.NewAppointment{
		Name:          field("name"),
		Email:         field("email"),
		Phone:         field("phone"),
		PreferredDate: field("preferredDate"),
		PreferredTime: field("preferredTime"),
		Symptoms:      field("symptoms"),
	}
	return in, validateAppointment(in, typeErrs)
}

// AppointmentFromQuery normalizes URL query parameters from external links.
// The date and time parameters may also be sent as preferredDate and preferredTime.
func AppointmentFromQuery(q url.Values) (models.NewAppointment, error) {
	first := func(keys ...string) string {
		for _, k := range keys {
			if v := q.Get(k); v != "" {
				return v
			}
		}
		return ""
	}

	in := models.NewAppointment{
		Name:          first("name"),
		Email:         first("email"),
		Phone:         first("phone"),
		PreferredDate: first("date", "preferredDate"),
		PreferredTime: first("time", "preferredTime"),
		Symptoms:      first("symptoms"),
	}
	return in, validateAppointment(in, nil)
}

func validateAppointment(in models.NewAppointment, typeErrs map[string]string) error {
	ruleErrs := make(map[string]string)
	if err := validate.Struct(in); err != nil {
		var ve validator.ValidationErrors
		if !errors.As(err, &ve) {
			return fmt.Errorf("validate appointment: %w", err)
		}
		for _, fe := range ve {
			ruleErrs[fe.Field()] = fieldMessage(fe)
		}
	}

	verr := &models.ValidationError{}
	for _, name := range appointmentFields {
		if msg, ok := typeErrs[name]; ok {
			verr.Add(name, msg)
		} else if msg, ok := ruleErrs[name]; ok {
			verr.Add(name, msg)
		}
	}
	return verr.OrNil()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Required"
	default:
		return fmt.Sprintf("Failed on the '%s' rule", fe.Tag())
	}
}

// ParseStatusUpdate reads the status update from a decoded JSON object.
// Only "status" is considered; it must be a string when present.
func ParseStatusUpdate(raw map[string]any) (models.AppointmentUpdate, error) {
	v, ok := raw["status"]
	if !ok {
		return models.AppointmentUpdate{}, nil
	}
	s, ok := v.(string)
	if !ok {
		verr := &models.ValidationError{}
		verr.Add("status", "Expected string, received "+jsonType(v))
		return models.AppointmentUpdate{}, verr
	}
	return models.AppointmentUpdate{Status: &s}, nil
}

func jsonType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64, int, int64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
