package leave

import "fmt"

// Kind classifies a domain error so the transport layer can map it to a
// status code without the core knowing anything about HTTP.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindConflict
	KindValidation
	KindUnauthorized
	KindInternal
)

// Error is the domain error type carried out of every service operation.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is lets errors.Is match two domain errors by kind and message, so the
// sentinel values below behave like classic sentinel errors.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

func NotFoundf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func Validationf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Unauthorizedf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindUnauthorized, Message: fmt.Sprintf(format, args...)}
}

func Internalf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInternal, Message: fmt.Sprintf(format, args...)}
}

var (
	ErrPolicyNotFound       = NotFoundf("Leave policy not found")
	ErrBalanceNotFound      = NotFoundf("Leave balance not found")
	ErrRequestNotFound      = NotFoundf("Leave request not found")
	ErrLeaveTypeNotFound    = NotFoundf("Leave type not found")
	ErrLeaveYearNotFound    = NotFoundf("No leave year configured for the requested date")
	ErrInsufficientBalance  = Validationf("Insufficient leave balance")
	ErrOverlappingRequest   = Validationf("An overlapping leave request already exists")
	ErrAllHolidays          = Validationf("The requested range falls entirely on holidays")
	ErrZeroLeaveDays        = Validationf("The requested range yields zero leave days")
	ErrRequestAlreadyClosed = Conflictf("Leave request already processed")
	ErrBalanceNotOpen       = Conflictf("Leave balance is not open")
	ErrBalanceAlreadyExists = Conflictf("Leave balance already exists for this employee, leave type and year")
	ErrMissingActor         = Unauthorizedf("Actor identity is required")
	ErrHalfDayRangeMismatch = Validationf("Half-day leave must start and end on the same date")
	ErrInvalidDateRange     = Validationf("start_date must not be after end_date")
)
