package dashboard

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/streamops/streammanager/internal/domain"
)

// Draft is an unsubmitted subscriber form.
type Draft struct {
	Service        string      `validate:"required"`
	Name           string      `validate:"notblank"`
	Phone          string      `validate:"notblank"`
	Email          string      `validate:"notblank,simpleemail"`
	ExpirationDate domain.Date `validate:"-"`
}

// simpleEmailRe is intentionally loose: something@something.something.
var simpleEmailRe = regexp.MustCompile(`^\S+@\S+\.\S+$`)

var draftValidator = newDraftValidator()

func newDraftValidator() *validator.Validate {
	v := validator.New()

	// required rejects the empty string but accepts whitespace
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("simpleemail", func(fl validator.FieldLevel) bool {
		return simpleEmailRe.MatchString(strings.TrimSpace(fl.Field().String()))
	})

	return v
}

// Field error messages shown inline in the form.
var draftMessages = map[string]string{
	"Service":        "Selecciona un servicio",
	"Name":           "El nombre es obligatorio",
	"Phone":          "El teléfono es obligatorio",
	"Email":          "Ingresa un email válido",
	"ExpirationDate": "La fecha debe ser hoy o posterior",
}

// ValidateDraft checks a subscriber form ahead of submission and
// returns a field-to-message map. An empty map means the draft can be
// submitted. Every rule is evaluated independently; the function is
// pure and re-run on each attempt.
func ValidateDraft(draft Draft, now time.Time) map[string]string {
	errs := make(map[string]string)

	if err := draftValidator.Struct(draft); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				key := fieldKey(fe.Field())
				if _, seen := errs[key]; !seen {
					errs[key] = draftMessages[fe.Field()]
				}
			}
		}
	}

	if draft.ExpirationDate.IsZero() || draft.ExpirationDate.DaysUntil(now) < 0 {
		errs["expirationDate"] = draftMessages["ExpirationDate"]
	}

	return errs
}

// fieldKey maps struct field names to their wire names.
func fieldKey(field string) string {
	switch field {
	case "Service":
		return "service"
	case "Name":
		return "name"
	case "Phone":
		return "phone"
	case "Email":
		return "email"
	default:
		return field
	}
}
