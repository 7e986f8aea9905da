package leave

import (
	"time"

	"github.com/neljohncereradeveloper/ampc-hris-sub000/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateLeaveRequestRequest struct {
	EmployeeID    string  `json:"employee_id"`
	LeaveTypeCode string  `json:"leave_type_code"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	IsHalfDay     bool    `json:"is_half_day"`
	Reason        string  `json:"reason"`
	Remarks       *string `json:"remarks,omitempty"`
}

func (r *CreateLeaveRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if validator.IsEmpty(r.LeaveTypeCode) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type_code",
			Message: "leave_type_code is required",
		})
	}

	if _, ok := validator.IsValidDate(r.StartDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be a valid date (YYYY-MM-DD)",
		})
	}

	if _, ok := validator.IsValidDate(r.EndDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be a valid date (YYYY-MM-DD)",
		})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateLeaveRequestRequest struct {
	ID        string  `json:"-"`
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
	IsHalfDay *bool   `json:"is_half_day,omitempty"`
	Reason    *string `json:"reason,omitempty"`
	Remarks   *string `json:"remarks,omitempty"`
}

func (r *UpdateLeaveRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_request_id",
			Message: "leave_request_id is required",
		})
	}

	if r.StartDate != nil {
		if _, ok := validator.IsValidDate(*r.StartDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be a valid date (YYYY-MM-DD)",
			})
		}
	}

	if r.EndDate != nil {
		if _, ok := validator.IsValidDate(*r.EndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be a valid date (YYYY-MM-DD)",
			})
		}
	}

	if r.Reason != nil && validator.IsEmpty(*r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must not be empty",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// DecisionRequest carries the optional remarks for approve/reject/cancel.
type DecisionRequest struct {
	Remarks *string `json:"remarks,omitempty"`
}

type CreateLeaveBalanceRequest struct {
	EmployeeID string  `json:"employee_id"`
	PolicyID   string  `json:"policy_id"`
	Year       string  `json:"year"`
	Remarks    *string `json:"remarks,omitempty"`
}

func (r *CreateLeaveBalanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if validator.IsEmpty(r.PolicyID) {
		errs = append(errs, validator.ValidationError{
			Field:   "policy_id",
			Message: "policy_id is required",
		})
	}

	if !validator.IsValidYearLabel(r.Year) {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be a four-digit year label",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CloseBalancesForEmployeeRequest struct {
	EmployeeID string `json:"employee_id"`
	Year       string `json:"year"`
}

func (r *CloseBalancesForEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if !validator.IsValidYearLabel(r.Year) {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be a four-digit year label",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ResetYearRequest struct {
	Year string `json:"year"`
}

func (r *ResetYearRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidYearLabel(r.Year) {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be a four-digit year label",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type GenerateBalancesRequest struct {
	Year               string   `json:"year"`
	EmploymentTypes    []string `json:"employment_types"`
	EmploymentStatuses []string `json:"employment_statuses"`
}

func (r *GenerateBalancesRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidYearLabel(r.Year) {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be a four-digit year label",
		})
	}

	if len(r.EmploymentTypes) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "employment_types",
			Message: "employment_types must not be empty",
		})
	}

	if len(r.EmploymentStatuses) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "employment_statuses",
			Message: "employment_statuses must not be empty",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// SkippedEmployee records one (employee, leave type) pair that bulk
// generation skipped, with the reason. Skips are results, not errors.
type SkippedEmployee struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	LeaveType    string `json:"leave_type"`
	Reason       string `json:"reason"`
}

type GenerateBalancesResult struct {
	CreatedCount     int               `json:"created_count"`
	SkippedCount     int               `json:"skipped_count"`
	SkippedEmployees []SkippedEmployee `json:"skipped_employees"`
}

// UpdateLeaveRequestRow is the repository-level partial update for a
// leave request; nil fields are left untouched.
type UpdateLeaveRequestRow struct {
	ID           string
	StartDate    *time.Time
	EndDate      *time.Time
	IsHalfDay    *bool
	TotalDays    *decimal.Decimal
	Reason       *string
	BalanceID    *string
	Status       *RequestStatus
	ApprovalBy   *string
	ApprovalDate *time.Time
	Remarks      *string
}

type RequestFilter struct {
	EmployeeID  *string
	LeaveTypeID *string
	Status      *string
	StartDate   *time.Time
	EndDate     *time.Time
	Page        int
	Limit       int
	SortBy      string
	SortOrder   string
}

type BalanceFilter struct {
	EmployeeID  *string
	LeaveTypeID *string
	Year        *string
	Status      *string
	Page        int
	Limit       int
}
