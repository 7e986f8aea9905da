package leave

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// LeavePolicyRepository - interface for leave_policies table
type LeavePolicyRepository interface {
	GetByID(ctx context.Context, id string) (LeavePolicy, error)
	// GetActiveByLeaveType returns the single active policy for a leave type.
	GetActiveByLeaveType(ctx context.Context, leaveTypeID string) (LeavePolicy, error)
	ListActive(ctx context.Context) ([]LeavePolicy, error)
}

// LeaveTypeRepository - interface for leave_types table
type LeaveTypeRepository interface {
	GetByID(ctx context.Context, id string) (LeaveType, error)
	GetByCode(ctx context.Context, code string) (LeaveType, error)
}

// LeaveBalanceRepository - interface for leave_balances table
type LeaveBalanceRepository interface {
	Create(ctx context.Context, balance LeaveBalance) (LeaveBalance, error)
	GetByID(ctx context.Context, id string) (LeaveBalance, error)
	// GetByIDForUpdate locks the balance row for the remainder of the
	// surrounding transaction so concurrent approvals serialize.
	GetByIDForUpdate(ctx context.Context, id string) (LeaveBalance, error)
	GetByEmployeeTypeYear(ctx context.Context, employeeID, leaveTypeID, year string) (LeaveBalance, error)
	Exists(ctx context.Context, employeeID, leaveTypeID, year string) (bool, error)
	// ApplyDebit adds days to used and subtracts from remaining, guarded by
	// remaining >= days. Returns ErrInsufficientBalance when the guard fails.
	ApplyDebit(ctx context.Context, balanceID string, days decimal.Decimal, at time.Time) error
	// ApplyCredit reverses a prior debit. No floor check: the credit is
	// assumed bounded by what was debited before.
	ApplyCredit(ctx context.Context, balanceID string, days decimal.Decimal, at time.Time) error
	// Close transitions OPEN or REOPENED to CLOSED. Reports false when the
	// balance was not in a closable state or does not exist.
	Close(ctx context.Context, id string) (bool, error)
	CloseForEmployee(ctx context.Context, employeeID, year string) (int, error)
	ResetForYear(ctx context.Context, year string) (int, error)
	List(ctx context.Context, filter BalanceFilter) ([]LeaveBalance, int64, error)
}

// LeaveTransactionRepository - interface for leave_transactions table.
// Rows are immutable once written.
type LeaveTransactionRepository interface {
	Record(ctx context.Context, txn LeaveTransaction) (LeaveTransaction, error)
	ListByBalance(ctx context.Context, balanceID string) ([]LeaveTransaction, error)
}

// LeaveRequestRepository - interface for leave_requests table
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	Update(ctx context.Context, request UpdateLeaveRequestRow) error
	// CheckOverlapping reports whether a PENDING or APPROVED request for the
	// employee overlaps [startDate, endDate]. excludeID skips the request's
	// own row on updates; pass "" otherwise.
	CheckOverlapping(ctx context.Context, employeeID string, startDate, endDate time.Time, excludeID string) (bool, error)
	List(ctx context.Context, filter RequestFilter) ([]LeaveRequest, int64, error)
}

// LeaveYearRepository - interface for leave_years table
type LeaveYearRepository interface {
	// GetForDate resolves the leave year whose cutoff window contains date.
	GetForDate(ctx context.Context, date time.Time) (LeaveYear, error)
	GetByYear(ctx context.Context, year string) (LeaveYear, error)
}

// HolidayRepository - interface for holidays table
type HolidayRepository interface {
	// GetByDateRange returns the holidays falling inside [startDate, endDate],
	// with recurring holidays projected into the range's years.
	GetByDateRange(ctx context.Context, startDate, endDate time.Time) ([]Holiday, error)
}
