package response

import (
	"errors"
	"net/http"

	"github.com/neljohncereradeveloper/ampc-hris-sub000/internal/domain/employee"
	"github.com/neljohncereradeveloper/ampc-hris-sub000/internal/domain/leave"
	"github.com/neljohncereradeveloper/ampc-hris-sub000/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Leave domain errors carry their own classification
	var domainErr *leave.Error
	if errors.As(err, &domainErr) {
		switch domainErr.Kind {
		case leave.KindNotFound:
			NotFound(w, domainErr.Message)
		case leave.KindConflict:
			Conflict(w, domainErr.Message)
		case leave.KindValidation:
			BadRequest(w, domainErr.Message, nil)
		case leave.KindUnauthorized:
			Unauthorized(w, domainErr.Message)
		default:
			InternalServerError(w, "An unexpected error occurred")
		}
		return
	}

	switch {
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
