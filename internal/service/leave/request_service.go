package leave

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/neljohncereradeveloper/ampc-hris-sub000/internal/domain/audit"
	"github.com/neljohncereradeveloper/ampc-hris-sub000/internal/domain/employee"
	"github.com/neljohncereradeveloper/ampc-hris-sub000/internal/domain/leave"
	"github.com/neljohncereradeveloper/ampc-hris-sub000/internal/pkg/database"
)

type RequestService struct {
	tx database.Transactor
	leave.LeaveTypeRepository
	leave.LeavePolicyRepository
	leave.LeaveBalanceRepository
	leave.LeaveTransactionRepository
	leave.LeaveRequestRepository
	leave.LeaveYearRepository
	leave.HolidayRepository
	employee.EmployeeRepository
	audit.ActivityLogRepository
}

func NewRequestService(
	tx database.Transactor,
	leaveTypeRepository leave.LeaveTypeRepository,
	leavePolicyRepository leave.LeavePolicyRepository,
	leaveBalanceRepository leave.LeaveBalanceRepository,
	leaveTransactionRepository leave.LeaveTransactionRepository,
	leaveRequestRepository leave.LeaveRequestRepository,
	leaveYearRepository leave.LeaveYearRepository,
	holidayRepository leave.HolidayRepository,
	employeeRepository employee.EmployeeRepository,
	activityLogRepository audit.ActivityLogRepository,
) *RequestService {
	return &RequestService{
		tx:                         tx,
		LeaveTypeRepository:        leaveTypeRepository,
		LeavePolicyRepository:      leavePolicyRepository,
		LeaveBalanceRepository:     leaveBalanceRepository,
		LeaveTransactionRepository: leaveTransactionRepository,
		LeaveRequestRepository:     leaveRequestRepository,
		LeaveYearRepository:        leaveYearRepository,
		HolidayRepository:          holidayRepository,
		EmployeeRepository:         employeeRepository,
		ActivityLogRepository:      activityLogRepository,
	}
}

// requestContext is everything Create and Update need to size and place a
// request: the parsed dates, the chargeable day count and the balance the
// request will draw from.
type requestContext struct {
	startDate time.Time
	endDate   time.Time
	dayCount  DayCount
	balance   leave.LeaveBalance
}

func (r *RequestService) Create(ctx context.Context, req leave.CreateLeaveRequestRequest) (leave.LeaveRequest, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequest{}, err
	}

	emp, err := r.EmployeeRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	if !emp.IsActive || emp.IsArchived() {
		return leave.LeaveRequest{}, leave.Validationf("Employee %s is not active", emp.FullName)
	}

	leaveType, err := r.LeaveTypeRepository.GetByCode(ctx, req.LeaveTypeCode)
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	if leaveType.IsArchived() {
		return leave.LeaveRequest{}, leave.Validationf("Leave type %s is archived", leaveType.Name)
	}

	policy, err := r.LeavePolicyRepository.GetActiveByLeaveType(ctx, leaveType.ID)
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	rc, err := r.resolveRequest(ctx, emp.ID, leaveType.ID, policy, req.StartDate, req.EndDate, req.IsHalfDay, nil)
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	request := leave.LeaveRequest{
		EmployeeID:  emp.ID,
		LeaveTypeID: leaveType.ID,
		BalanceID:   rc.balance.ID,
		StartDate:   rc.startDate,
		EndDate:     rc.endDate,
		IsHalfDay:   req.IsHalfDay,
		TotalDays:   rc.dayCount.TotalDays,
		Reason:      req.Reason,
		Status:      leave.RequestStatusPending,
		Remarks:     req.Remarks,
	}

	err = r.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		created, err := r.LeaveRequestRepository.Create(ctx, request)
		if err != nil {
			return fmt.Errorf("failed to create leave request: %w", err)
		}
		request = created

		return r.ActivityLogRepository.Append(ctx, audit.ActivityLog{
			Action:   "leave_request.create",
			Entity:   "leave_request",
			EntityID: created.ID,
			Details: map[string]interface{}{
				"employee_id": created.EmployeeID,
				"start_date":  created.StartDate.Format("2006-01-02"),
				"end_date":    created.EndDate.Format("2006-01-02"),
				"total_days":  created.TotalDays.String(),
			},
			CreatedBy: emp.ID,
		})
	})
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	request.EmployeeName = &emp.FullName
	request.LeaveTypeName = &leaveType.Name

	return request, nil
}

func (r *RequestService) Update(ctx context.Context, req leave.UpdateLeaveRequestRequest) (leave.LeaveRequest, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequest{}, err
	}

	request, err := r.LeaveRequestRepository.GetByID(ctx, req.ID)
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	if request.Status != leave.RequestStatusPending {
		return leave.LeaveRequest{}, leave.ErrRequestAlreadyClosed
	}

	startDate := request.StartDate.Format("2006-01-02")
	endDate := request.EndDate.Format("2006-01-02")
	isHalfDay := request.IsHalfDay
	datesChanged := false

	if req.StartDate != nil && *req.StartDate != startDate {
		startDate = *req.StartDate
		datesChanged = true
	}
	if req.EndDate != nil && *req.EndDate != endDate {
		endDate = *req.EndDate
		datesChanged = true
	}
	if req.IsHalfDay != nil && *req.IsHalfDay != isHalfDay {
		isHalfDay = *req.IsHalfDay
		datesChanged = true
	}

	update := leave.UpdateLeaveRequestRow{
		ID:      request.ID,
		Reason:  req.Reason,
		Remarks: req.Remarks,
	}
	details := map[string]interface{}{}

	if datesChanged {
		policy, err := r.LeavePolicyRepository.GetActiveByLeaveType(ctx, request.LeaveTypeID)
		if err != nil {
			return leave.LeaveRequest{}, err
		}

		rc, err := r.resolveRequest(ctx, request.EmployeeID, request.LeaveTypeID, policy, startDate, endDate, isHalfDay, &request)
		if err != nil {
			return leave.LeaveRequest{}, err
		}

		update.StartDate = &rc.startDate
		update.EndDate = &rc.endDate
		update.IsHalfDay = &isHalfDay
		update.TotalDays = &rc.dayCount.TotalDays
		update.BalanceID = &rc.balance.ID

		details["start_date"] = map[string]string{
			"from": request.StartDate.Format("2006-01-02"),
			"to":   rc.startDate.Format("2006-01-02"),
		}
		details["end_date"] = map[string]string{
			"from": request.EndDate.Format("2006-01-02"),
			"to":   rc.endDate.Format("2006-01-02"),
		}
		details["total_days"] = map[string]string{
			"from": request.TotalDays.String(),
			"to":   rc.dayCount.TotalDays.String(),
		}

		request.StartDate = rc.startDate
		request.EndDate = rc.endDate
		request.IsHalfDay = isHalfDay
		request.TotalDays = rc.dayCount.TotalDays
		request.BalanceID = rc.balance.ID
	}

	if req.Reason != nil {
		details["reason"] = *req.Reason
		request.Reason = *req.Reason
	}
	if req.Remarks != nil {
		request.Remarks = req.Remarks
	}

	err = r.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := r.LeaveRequestRepository.Update(ctx, update); err != nil {
			return err
		}

		return r.ActivityLogRepository.Append(ctx, audit.ActivityLog{
			Action:    "leave_request.update",
			Entity:    "leave_request",
			EntityID:  request.ID,
			Details:   details,
			CreatedBy: request.EmployeeID,
		})
	})
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	return request, nil
}

// Approve debits the balance and flips the request to APPROVED in one
// transaction. The balance row is locked first so two approvals against the
// same balance serialize.
func (r *RequestService) Approve(ctx context.Context, requestID, actorID string, decision leave.DecisionRequest) (leave.LeaveRequest, error) {
	if actorID == "" {
		return leave.LeaveRequest{}, leave.ErrMissingActor
	}

	var request leave.LeaveRequest

	err := r.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		request, err = r.LeaveRequestRepository.GetByID(ctx, requestID)
		if err != nil {
			return err
		}
		if request.Status != leave.RequestStatusPending {
			return leave.ErrRequestAlreadyClosed
		}

		balance, err := r.LeaveBalanceRepository.GetByIDForUpdate(ctx, request.BalanceID)
		if err != nil {
			return err
		}
		if !balance.IsMutable() {
			return leave.ErrBalanceNotOpen
		}

		now := time.Now()
		if err := r.LeaveBalanceRepository.ApplyDebit(ctx, balance.ID, request.TotalDays, now); err != nil {
			return err
		}

		_, err = r.LeaveTransactionRepository.Record(ctx, leave.LeaveTransaction{
			BalanceID: balance.ID,
			Type:      leave.TransactionTypeRequest,
			Days:      request.TotalDays.Neg(),
			Remarks:   fmt.Sprintf("Leave request %s approved", request.ID),
			CreatedBy: actorID,
		})
		if err != nil {
			return fmt.Errorf("failed to record leave transaction: %w", err)
		}

		status := leave.RequestStatusApproved
		update := leave.UpdateLeaveRequestRow{
			ID:           request.ID,
			Status:       &status,
			ApprovalBy:   &actorID,
			ApprovalDate: &now,
			Remarks:      decision.Remarks,
		}
		if err := r.LeaveRequestRepository.Update(ctx, update); err != nil {
			return err
		}

		request.Status = status
		request.ApprovalBy = &actorID
		request.ApprovalDate = &now
		if decision.Remarks != nil {
			request.Remarks = decision.Remarks
		}

		return r.ActivityLogRepository.Append(ctx, audit.ActivityLog{
			Action:   "leave_request.approve",
			Entity:   "leave_request",
			EntityID: request.ID,
			Details: map[string]interface{}{
				"balance_id": balance.ID,
				"total_days": request.TotalDays.String(),
			},
			CreatedBy: actorID,
		})
	})
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	return request, nil
}

func (r *RequestService) Reject(ctx context.Context, requestID, actorID string, decision leave.DecisionRequest) (leave.LeaveRequest, error) {
	if actorID == "" {
		return leave.LeaveRequest{}, leave.ErrMissingActor
	}

	var request leave.LeaveRequest

	err := r.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		request, err = r.LeaveRequestRepository.GetByID(ctx, requestID)
		if err != nil {
			return err
		}
		if request.Status != leave.RequestStatusPending {
			return leave.ErrRequestAlreadyClosed
		}

		now := time.Now()
		status := leave.RequestStatusRejected
		update := leave.UpdateLeaveRequestRow{
			ID:           request.ID,
			Status:       &status,
			ApprovalBy:   &actorID,
			ApprovalDate: &now,
			Remarks:      decision.Remarks,
		}
		if err := r.LeaveRequestRepository.Update(ctx, update); err != nil {
			return err
		}

		request.Status = status
		request.ApprovalBy = &actorID
		request.ApprovalDate = &now
		if decision.Remarks != nil {
			request.Remarks = decision.Remarks
		}

		return r.ActivityLogRepository.Append(ctx, audit.ActivityLog{
			Action:    "leave_request.reject",
			Entity:    "leave_request",
			EntityID:  request.ID,
			Details:   map[string]interface{}{},
			CreatedBy: actorID,
		})
	})
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	return request, nil
}

// Cancel closes a PENDING or APPROVED request. Cancelling an approved
// request refunds the debited days back to the balance and records a
// compensating ledger entry. The refund carries no open-state gate: an
// approved request stays cancellable after its balance was closed.
func (r *RequestService) Cancel(ctx context.Context, requestID, actorID string, decision leave.DecisionRequest) (leave.LeaveRequest, error) {
	if actorID == "" {
		return leave.LeaveRequest{}, leave.ErrMissingActor
	}

	var request leave.LeaveRequest

	err := r.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		request, err = r.LeaveRequestRepository.GetByID(ctx, requestID)
		if err != nil {
			return err
		}
		if request.Status != leave.RequestStatusPending && request.Status != leave.RequestStatusApproved {
			return leave.ErrRequestAlreadyClosed
		}

		now := time.Now()
		wasApproved := request.Status == leave.RequestStatusApproved

		if wasApproved {
			balance, err := r.LeaveBalanceRepository.GetByIDForUpdate(ctx, request.BalanceID)
			if err != nil {
				return err
			}

			if err := r.LeaveBalanceRepository.ApplyCredit(ctx, balance.ID, request.TotalDays, now); err != nil {
				return err
			}

			_, err = r.LeaveTransactionRepository.Record(ctx, leave.LeaveTransaction{
				BalanceID: balance.ID,
				Type:      leave.TransactionTypeAdjustment,
				Days:      request.TotalDays,
				Remarks:   fmt.Sprintf("Leave request %s cancelled after approval", request.ID),
				CreatedBy: actorID,
			})
			if err != nil {
				return fmt.Errorf("failed to record leave transaction: %w", err)
			}
		}

		status := leave.RequestStatusCancelled
		update := leave.UpdateLeaveRequestRow{
			ID:           request.ID,
			Status:       &status,
			ApprovalBy:   &actorID,
			ApprovalDate: &now,
			Remarks:      decision.Remarks,
		}
		if err := r.LeaveRequestRepository.Update(ctx, update); err != nil {
			return err
		}

		request.Status = status
		request.ApprovalBy = &actorID
		request.ApprovalDate = &now
		if decision.Remarks != nil {
			request.Remarks = decision.Remarks
		}

		return r.ActivityLogRepository.Append(ctx, audit.ActivityLog{
			Action:   "leave_request.cancel",
			Entity:   "leave_request",
			EntityID: request.ID,
			Details: map[string]interface{}{
				"was_approved": wasApproved,
				"total_days":   request.TotalDays.String(),
			},
			CreatedBy: actorID,
		})
	})
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	return request, nil
}

// GetByID returns nil without an error when no request matches.
func (r *RequestService) GetByID(ctx context.Context, id string) (*leave.LeaveRequest, error) {
	request, err := r.LeaveRequestRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, leave.ErrRequestNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}

func (r *RequestService) List(ctx context.Context, filter leave.RequestFilter) ([]leave.LeaveRequest, int64, error) {
	return r.LeaveRequestRepository.List(ctx, filter)
}

// resolveRequest runs the shared sizing-and-placement pipeline: date
// parsing and ordering, the half-day same-day rule, the excluded-weekday
// rejection, day counting against holidays, leave year resolution, balance
// lookup with sufficiency, and the overlap check. On updates, prior is the
// stored request: its own row is skipped by the overlap check, and the
// sufficiency and open-state gates apply only when the recomputed charge
// differs from the stored one.
func (r *RequestService) resolveRequest(
	ctx context.Context,
	employeeID, leaveTypeID string,
	policy leave.LeavePolicy,
	startDateRaw, endDateRaw string,
	isHalfDay bool,
	prior *leave.LeaveRequest,
) (requestContext, error) {
	excludeID := ""
	if prior != nil {
		excludeID = prior.ID
	}

	startDate, err := time.Parse("2006-01-02", startDateRaw)
	if err != nil {
		return requestContext{}, leave.Validationf("start_date must be a valid date (YYYY-MM-DD)")
	}
	endDate, err := time.Parse("2006-01-02", endDateRaw)
	if err != nil {
		return requestContext{}, leave.Validationf("end_date must be a valid date (YYYY-MM-DD)")
	}

	if startDate.After(endDate) {
		return requestContext{}, leave.ErrInvalidDateRange
	}
	if isHalfDay && !startDate.Equal(endDate) {
		return requestContext{}, leave.ErrHalfDayRangeMismatch
	}

	// Requests touching an excluded weekday are rejected outright rather
	// than silently shrunk to the remaining days.
	if excludedDates := FindExcludedWeekdayDates(startDate, endDate, policy.ExcludedWeekdays); len(excludedDates) > 0 {
		formatted := make([]string, len(excludedDates))
		for i, d := range excludedDates {
			formatted[i] = d.Format("2006-01-02")
		}
		return requestContext{}, leave.Validationf(
			"The requested range includes %s, which falls on an excluded weekday (%s); leave cannot cover: %s",
			formatted[0], excludedDates[0].Weekday(), strings.Join(formatted, ", "))
	}

	holidays, err := r.HolidayRepository.GetByDateRange(ctx, startDate, endDate)
	if err != nil {
		return requestContext{}, fmt.Errorf("failed to get holidays: %w", err)
	}

	dayCount, err := CountLeaveDays(startDate, endDate, holidays, policy.ExcludedWeekdays, isHalfDay)
	if err != nil {
		return requestContext{}, err
	}

	leaveYear, err := r.LeaveYearRepository.GetForDate(ctx, startDate)
	if err != nil {
		return requestContext{}, err
	}

	balance, err := r.LeaveBalanceRepository.GetByEmployeeTypeYear(ctx, employeeID, leaveTypeID, leaveYear.Year)
	if err != nil {
		return requestContext{}, err
	}
	// Moving a pending request without resizing it reserves nothing new, so
	// the same charge against the same balance passes without re-checking.
	sameCharge := prior != nil && prior.BalanceID == balance.ID && prior.TotalDays.Equal(dayCount.TotalDays)
	if !sameCharge {
		if !balance.IsMutable() {
			return requestContext{}, leave.ErrBalanceNotOpen
		}
		if balance.Remaining.LessThan(dayCount.TotalDays) {
			return requestContext{}, leave.ErrInsufficientBalance
		}
	}

	hasOverlap, err := r.LeaveRequestRepository.CheckOverlapping(ctx, employeeID, startDate, endDate, excludeID)
	if err != nil {
		return requestContext{}, fmt.Errorf("failed to check overlapping leave requests: %w", err)
	}
	if hasOverlap {
		return requestContext{}, leave.ErrOverlappingRequest
	}

	return requestContext{
		startDate: startDate,
		endDate:   endDate,
		dayCount:  dayCount,
		balance:   balance,
	}, nil
}
