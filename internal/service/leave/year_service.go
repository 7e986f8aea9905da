package leave

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/neljohncereradeveloper/ampc-hris-sub000/internal/domain/audit"
	"github.com/neljohncereradeveloper/ampc-hris-sub000/internal/domain/employee"
	"github.com/neljohncereradeveloper/ampc-hris-sub000/internal/domain/leave"
	"github.com/neljohncereradeveloper/ampc-hris-sub000/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type YearService struct {
	tx database.Transactor
	leave.LeavePolicyRepository
	leave.LeaveTypeRepository
	leave.LeaveBalanceRepository
	leave.LeaveYearRepository
	employee.EmployeeRepository
	audit.ActivityLogRepository
}

func NewYearService(
	tx database.Transactor,
	leavePolicyRepository leave.LeavePolicyRepository,
	leaveTypeRepository leave.LeaveTypeRepository,
	leaveBalanceRepository leave.LeaveBalanceRepository,
	leaveYearRepository leave.LeaveYearRepository,
	employeeRepository employee.EmployeeRepository,
	activityLogRepository audit.ActivityLogRepository,
) *YearService {
	return &YearService{
		tx:                     tx,
		LeavePolicyRepository:  leavePolicyRepository,
		LeaveTypeRepository:    leaveTypeRepository,
		LeaveBalanceRepository: leaveBalanceRepository,
		LeaveYearRepository:    leaveYearRepository,
		EmployeeRepository:     employeeRepository,
		ActivityLogRepository:  activityLogRepository,
	}
}

// ResetYear closes every open balance in the year. Returns how many
// balances were closed.
func (s *YearService) ResetYear(ctx context.Context, req leave.ResetYearRequest, actorID string) (int, error) {
	if actorID == "" {
		return 0, leave.ErrMissingActor
	}
	if err := req.Validate(); err != nil {
		return 0, err
	}

	if _, err := s.LeaveYearRepository.GetByYear(ctx, req.Year); err != nil {
		return 0, err
	}

	var closed int
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		closed, err = s.LeaveBalanceRepository.ResetForYear(ctx, req.Year)
		if err != nil {
			return err
		}

		return s.ActivityLogRepository.Append(ctx, audit.ActivityLog{
			Action:   "leave_year.reset",
			Entity:   "leave_year",
			EntityID: req.Year,
			Details: map[string]interface{}{
				"closed_count": closed,
			},
			CreatedBy: actorID,
		})
	})
	if err != nil {
		return 0, err
	}

	return closed, nil
}

// GenerateForAllEmployees opens a balance for every (eligible employee,
// active policy) pair that does not already hold one for the year. The
// operation is idempotent: rerunning it skips existing rows instead of
// duplicating or failing, and every skip is reported with its reason.
func (s *YearService) GenerateForAllEmployees(ctx context.Context, req leave.GenerateBalancesRequest, actorID string) (leave.GenerateBalancesResult, error) {
	if actorID == "" {
		return leave.GenerateBalancesResult{}, leave.ErrMissingActor
	}
	if err := req.Validate(); err != nil {
		return leave.GenerateBalancesResult{}, err
	}

	if _, err := s.LeaveYearRepository.GetByYear(ctx, req.Year); err != nil {
		return leave.GenerateBalancesResult{}, err
	}

	yearNumber, err := strconv.Atoi(req.Year)
	if err != nil {
		return leave.GenerateBalancesResult{}, leave.Validationf("year must be a four-digit year label")
	}
	// Eligibility is judged as of the first day of the generated year so a
	// rerun later in the year produces the same skip decisions.
	referenceDate := time.Date(yearNumber, time.January, 1, 0, 0, 0, 0, time.UTC)

	policies, err := s.LeavePolicyRepository.ListActive(ctx)
	if err != nil {
		return leave.GenerateBalancesResult{}, fmt.Errorf("failed to list active leave policies: %w", err)
	}

	employees, err := s.EmployeeRepository.GetEligible(ctx, employee.EmployeeFilter{
		EmploymentTypes:    req.EmploymentTypes,
		EmploymentStatuses: req.EmploymentStatuses,
	})
	if err != nil {
		return leave.GenerateBalancesResult{}, fmt.Errorf("failed to list employees: %w", err)
	}

	leaveTypeNames := make(map[string]string, len(policies))
	for _, policy := range policies {
		if _, ok := leaveTypeNames[policy.LeaveTypeID]; ok {
			continue
		}
		leaveType, err := s.LeaveTypeRepository.GetByID(ctx, policy.LeaveTypeID)
		if err != nil {
			return leave.GenerateBalancesResult{}, err
		}
		leaveTypeNames[policy.LeaveTypeID] = leaveType.Name
	}

	result := leave.GenerateBalancesResult{
		SkippedEmployees: make([]leave.SkippedEmployee, 0),
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, emp := range employees {
			for _, policy := range policies {
				leaveTypeName := leaveTypeNames[policy.LeaveTypeID]

				eligibility := CheckEligibility(emp, policy, referenceDate)
				if !eligibility.Eligible {
					result.SkippedEmployees = append(result.SkippedEmployees, leave.SkippedEmployee{
						EmployeeID:   emp.ID,
						EmployeeName: emp.FullName,
						LeaveType:    leaveTypeName,
						Reason:       eligibility.Reason,
					})
					continue
				}

				exists, err := s.LeaveBalanceRepository.Exists(ctx, emp.ID, policy.LeaveTypeID, req.Year)
				if err != nil {
					return err
				}
				if exists {
					result.SkippedEmployees = append(result.SkippedEmployees, leave.SkippedEmployee{
						EmployeeID:   emp.ID,
						EmployeeName: emp.FullName,
						LeaveType:    leaveTypeName,
						Reason:       "balance already exists",
					})
					continue
				}

				_, err = s.LeaveBalanceRepository.Create(ctx, leave.LeaveBalance{
					EmployeeID:  emp.ID,
					LeaveTypeID: policy.LeaveTypeID,
					PolicyID:    policy.ID,
					Year:        req.Year,

					BeginningBalance: decimal.Zero,
					Earned:           policy.AnnualEntitlement,
					Used:             decimal.Zero,
					CarriedOver:      decimal.Zero,
					Encashed:         decimal.Zero,
					Remaining:        policy.AnnualEntitlement,

					Status: leave.BalanceStatusOpen,
				})
				if err != nil {
					return err
				}

				result.CreatedCount++
			}
		}

		result.SkippedCount = len(result.SkippedEmployees)

		return s.ActivityLogRepository.Append(ctx, audit.ActivityLog{
			Action:   "leave_balance.generate",
			Entity:   "leave_balance",
			EntityID: req.Year,
			Details: map[string]interface{}{
				"created_count": result.CreatedCount,
				"skipped_count": result.SkippedCount,
			},
			CreatedBy: actorID,
		})
	})
	if err != nil {
		return leave.GenerateBalancesResult{}, err
	}

	return result, nil
}
