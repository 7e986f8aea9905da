package leave

import (
	"errors"
	"testing"

	"github.com/neljohncereradeveloper/ampc-hris-sub000/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var errs validator.ValidationErrors
	require.True(t, errors.As(err, &errs))
	return errs.ToMap()
}

func TestCreateLeaveRequestRequestValidate(t *testing.T) {
	valid := CreateLeaveRequestRequest{
		EmployeeID:    "emp-1",
		LeaveTypeCode: "VL",
		StartDate:     "2026-03-02",
		EndDate:       "2026-03-04",
		Reason:        "family matters",
	}
	assert.NoError(t, valid.Validate())

	empty := CreateLeaveRequestRequest{}
	fields := fieldErrors(t, empty.Validate())
	assert.Contains(t, fields, "employee_id")
	assert.Contains(t, fields, "leave_type_code")
	assert.Contains(t, fields, "start_date")
	assert.Contains(t, fields, "end_date")
	assert.Contains(t, fields, "reason")

	badDate := valid
	badDate.StartDate = "02-03-2026"
	fields = fieldErrors(t, badDate.Validate())
	assert.Contains(t, fields, "start_date")
	assert.NotContains(t, fields, "end_date")
}

func TestUpdateLeaveRequestRequestValidate(t *testing.T) {
	req := UpdateLeaveRequestRequest{ID: "req-1"}
	assert.NoError(t, req.Validate())

	req.ID = ""
	fields := fieldErrors(t, req.Validate())
	assert.Contains(t, fields, "leave_request_id")

	bad := "not-a-date"
	blank := "  "
	req = UpdateLeaveRequestRequest{ID: "req-1", EndDate: &bad, Reason: &blank}
	fields = fieldErrors(t, req.Validate())
	assert.Contains(t, fields, "end_date")
	assert.Contains(t, fields, "reason")
}

func TestCreateLeaveBalanceRequestValidate(t *testing.T) {
	valid := CreateLeaveBalanceRequest{EmployeeID: "emp-1", PolicyID: "pol-1", Year: "2026"}
	assert.NoError(t, valid.Validate())

	bad := CreateLeaveBalanceRequest{Year: "26"}
	fields := fieldErrors(t, bad.Validate())
	assert.Contains(t, fields, "employee_id")
	assert.Contains(t, fields, "policy_id")
	assert.Contains(t, fields, "year")
}

func TestGenerateBalancesRequestValidate(t *testing.T) {
	valid := GenerateBalancesRequest{
		Year:               "2026",
		EmploymentTypes:    []string{"regular"},
		EmploymentStatuses: []string{"active"},
	}
	assert.NoError(t, valid.Validate())

	// Empty filters must be rejected, not treated as match-all.
	bad := GenerateBalancesRequest{Year: "2026"}
	fields := fieldErrors(t, bad.Validate())
	assert.Contains(t, fields, "employment_types")
	assert.Contains(t, fields, "employment_statuses")
}

func TestResetYearRequestValidate(t *testing.T) {
	assert.NoError(t, (&ResetYearRequest{Year: "2026"}).Validate())
	fields := fieldErrors(t, (&ResetYearRequest{Year: "abcd"}).Validate())
	assert.Contains(t, fields, "year")
}
