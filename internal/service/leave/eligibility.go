package leave

import (
	"fmt"
	"strings"
	"time"

	"github.com/neljohncereradeveloper/ampc-hris-sub000/internal/domain/employee"
	"github.com/neljohncereradeveloper/ampc-hris-sub000/internal/domain/leave"
	"github.com/neljohncereradeveloper/ampc-hris-sub000/internal/pkg/validator"
)

// Eligibility is the outcome of checking one employee against one policy.
type Eligibility struct {
	Eligible bool
	Reason   string
}

// CheckEligibility evaluates a policy's eligibility rules against an
// employee as of a reference date. Checks run in a fixed order and the
// first failure wins; reasons are never aggregated.
func CheckEligibility(emp employee.Employee, policy leave.LeavePolicy, asOf time.Time) Eligibility {
	if len(policy.AllowedEmploymentTypes) > 0 &&
		!validator.IsInSliceFold(emp.EmploymentType, policy.AllowedEmploymentTypes) {
		return Eligibility{
			Reason: fmt.Sprintf("employment type %q is not allowed; policy allows: %s",
				emp.EmploymentType, strings.Join(policy.AllowedEmploymentTypes, ", ")),
		}
	}

	if len(policy.AllowedEmployeeStatuses) > 0 &&
		!validator.IsInSliceFold(emp.EmploymentStatus, policy.AllowedEmployeeStatuses) {
		return Eligibility{
			Reason: fmt.Sprintf("employment status %q is not allowed; policy allows: %s",
				emp.EmploymentStatus, strings.Join(policy.AllowedEmployeeStatuses, ", ")),
		}
	}

	if policy.MinimumServiceMonths > 0 {
		if emp.HireDate == nil || emp.HireDate.IsZero() || emp.HireDate.After(asOf) {
			return Eligibility{Reason: "invalid hire date"}
		}

		completed := completedServiceMonths(*emp.HireDate, asOf)
		if completed < policy.MinimumServiceMonths {
			return Eligibility{
				Reason: fmt.Sprintf("minimum service of %d months not met (completed: %d)",
					policy.MinimumServiceMonths, completed),
			}
		}
	}

	return Eligibility{Eligible: true}
}

// completedServiceMonths counts whole months between hireDate and asOf.
func completedServiceMonths(hireDate, asOf time.Time) int {
	years := asOf.Year() - hireDate.Year()
	months := int(asOf.Month()) - int(hireDate.Month())
	totalMonths := years*12 + months

	if asOf.Day() < hireDate.Day() {
		totalMonths--
	}

	if totalMonths < 0 {
		totalMonths = 0
	}

	return totalMonths
}
