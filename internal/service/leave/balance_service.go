package leave

import (
	"context"
	"errors"

	"github.com/neljohncereradeveloper/ampc-hris-sub000/internal/domain/audit"
	"github.com/neljohncereradeveloper/ampc-hris-sub000/internal/domain/employee"
	"github.com/neljohncereradeveloper/ampc-hris-sub000/internal/domain/leave"
	"github.com/neljohncereradeveloper/ampc-hris-sub000/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type BalanceService struct {
	tx database.Transactor
	leave.LeavePolicyRepository
	leave.LeaveTypeRepository
	leave.LeaveBalanceRepository
	leave.LeaveTransactionRepository
	leave.LeaveYearRepository
	employee.EmployeeRepository
	audit.ActivityLogRepository
}

func NewBalanceService(
	tx database.Transactor,
	leavePolicyRepository leave.LeavePolicyRepository,
	leaveTypeRepository leave.LeaveTypeRepository,
	leaveBalanceRepository leave.LeaveBalanceRepository,
	leaveTransactionRepository leave.LeaveTransactionRepository,
	leaveYearRepository leave.LeaveYearRepository,
	employeeRepository employee.EmployeeRepository,
	activityLogRepository audit.ActivityLogRepository,
) *BalanceService {
	return &BalanceService{
		tx:                         tx,
		LeavePolicyRepository:      leavePolicyRepository,
		LeaveTypeRepository:        leaveTypeRepository,
		LeaveBalanceRepository:     leaveBalanceRepository,
		LeaveTransactionRepository: leaveTransactionRepository,
		LeaveYearRepository:        leaveYearRepository,
		EmployeeRepository:         employeeRepository,
		ActivityLogRepository:      activityLogRepository,
	}
}

// Create opens one balance row seeded from the policy's annual entitlement.
// The grant lands in the earned column only; the transaction ledger tracks
// used and encashed movement, so the sum of its REQUEST, ENCASHMENT and
// ADJUSTMENT entries always matches those columns.
func (s *BalanceService) Create(ctx context.Context, req leave.CreateLeaveBalanceRequest, actorID string) (leave.LeaveBalance, error) {
	if actorID == "" {
		return leave.LeaveBalance{}, leave.ErrMissingActor
	}
	if err := req.Validate(); err != nil {
		return leave.LeaveBalance{}, err
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return leave.LeaveBalance{}, err
	}
	if emp.IsArchived() {
		return leave.LeaveBalance{}, employee.ErrEmployeeNotFound
	}

	policy, err := s.LeavePolicyRepository.GetByID(ctx, req.PolicyID)
	if err != nil {
		return leave.LeaveBalance{}, err
	}
	if policy.Status != leave.PolicyStatusActive {
		return leave.LeaveBalance{}, leave.Validationf("Leave policy %s is not active", policy.Name)
	}

	leaveType, err := s.LeaveTypeRepository.GetByID(ctx, policy.LeaveTypeID)
	if err != nil {
		return leave.LeaveBalance{}, err
	}
	if leaveType.IsArchived() {
		return leave.LeaveBalance{}, leave.ErrLeaveTypeNotFound
	}

	if _, err := s.LeaveYearRepository.GetByYear(ctx, req.Year); err != nil {
		return leave.LeaveBalance{}, err
	}

	balance := leave.LeaveBalance{
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
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		created, err := s.LeaveBalanceRepository.Create(ctx, balance)
		if err != nil {
			return err
		}
		balance = created

		details := map[string]interface{}{
			"employee_id": created.EmployeeID,
			"policy_id":   created.PolicyID,
			"year":        created.Year,
			"earned":      created.Earned.String(),
		}
		if req.Remarks != nil && *req.Remarks != "" {
			details["remarks"] = *req.Remarks
		}

		return s.ActivityLogRepository.Append(ctx, audit.ActivityLog{
			Action:    "leave_balance.create",
			Entity:    "leave_balance",
			EntityID:  created.ID,
			Details:   details,
			CreatedBy: actorID,
		})
	})
	if err != nil {
		return leave.LeaveBalance{}, err
	}

	balance.EmployeeName = &emp.FullName
	balance.LeaveTypeName = &leaveType.Name

	return balance, nil
}

// GetByEmployeeTypeYear returns nil without an error when the employee
// holds no balance for the leave type and year.
func (s *BalanceService) GetByEmployeeTypeYear(ctx context.Context, employeeID, leaveTypeID, year string) (*leave.LeaveBalance, error) {
	balance, err := s.LeaveBalanceRepository.GetByEmployeeTypeYear(ctx, employeeID, leaveTypeID, year)
	if err != nil {
		if errors.Is(err, leave.ErrBalanceNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &balance, nil
}

// GetByID returns nil without an error when no balance matches.
func (s *BalanceService) GetByID(ctx context.Context, id string) (*leave.LeaveBalance, error) {
	balance, err := s.LeaveBalanceRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, leave.ErrBalanceNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &balance, nil
}

func (s *BalanceService) List(ctx context.Context, filter leave.BalanceFilter) ([]leave.LeaveBalance, int64, error) {
	return s.LeaveBalanceRepository.List(ctx, filter)
}

// ListTransactions returns the ledger history for one balance, oldest first.
func (s *BalanceService) ListTransactions(ctx context.Context, balanceID string) ([]leave.LeaveTransaction, error) {
	if _, err := s.LeaveBalanceRepository.GetByID(ctx, balanceID); err != nil {
		return nil, err
	}
	return s.LeaveTransactionRepository.ListByBalance(ctx, balanceID)
}

// Close transitions one balance to CLOSED. Closing a balance that is
// already closed or finalized reports ErrBalanceNotOpen.
func (s *BalanceService) Close(ctx context.Context, balanceID, actorID string) error {
	if actorID == "" {
		return leave.ErrMissingActor
	}

	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		closed, err := s.LeaveBalanceRepository.Close(ctx, balanceID)
		if err != nil {
			return err
		}
		if !closed {
			// Distinguish a missing row from one in the wrong state.
			if _, err := s.LeaveBalanceRepository.GetByID(ctx, balanceID); err != nil {
				return err
			}
			return leave.ErrBalanceNotOpen
		}

		return s.ActivityLogRepository.Append(ctx, audit.ActivityLog{
			Action:    "leave_balance.close",
			Entity:    "leave_balance",
			EntityID:  balanceID,
			Details:   map[string]interface{}{},
			CreatedBy: actorID,
		})
	})
}

// CloseForEmployee closes every open balance the employee holds for the
// year. Returns how many balances were closed; zero is not an error.
func (s *BalanceService) CloseForEmployee(ctx context.Context, req leave.CloseBalancesForEmployeeRequest, actorID string) (int, error) {
	if actorID == "" {
		return 0, leave.ErrMissingActor
	}
	if err := req.Validate(); err != nil {
		return 0, err
	}

	if _, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID); err != nil {
		return 0, err
	}

	var closed int
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		closed, err = s.LeaveBalanceRepository.CloseForEmployee(ctx, req.EmployeeID, req.Year)
		if err != nil {
			return err
		}

		return s.ActivityLogRepository.Append(ctx, audit.ActivityLog{
			Action:   "leave_balance.close_for_employee",
			Entity:   "leave_balance",
			EntityID: req.EmployeeID,
			Details: map[string]interface{}{
				"year":         req.Year,
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
