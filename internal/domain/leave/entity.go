package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

type PolicyStatus string

const (
	PolicyStatusDraft    PolicyStatus = "draft"
	PolicyStatusActive   PolicyStatus = "active"
	PolicyStatusInactive PolicyStatus = "inactive"
	PolicyStatusRetired  PolicyStatus = "retired"
)

// LeavePolicy entity. At most one active policy per leave type; lookups rely on it.
type LeavePolicy struct {
	ID          string
	LeaveTypeID string
	Name        string

	// Entitlement Rules
	AnnualEntitlement decimal.Decimal
	CarryLimit        decimal.Decimal
	EncashLimit       decimal.Decimal
	CarriedOverYears  int

	// Eligibility Rules
	MinimumServiceMonths    int
	AllowedEmploymentTypes  []string
	AllowedEmployeeStatuses []string

	// Calendar Rules
	ExcludedWeekdays []int // 0=Sunday .. 6=Saturday

	EffectiveDate time.Time
	ExpiryDate    *time.Time
	Status        PolicyStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

type BalanceStatus string

const (
	BalanceStatusOpen      BalanceStatus = "OPEN"
	BalanceStatusReopened  BalanceStatus = "REOPENED"
	BalanceStatusClosed    BalanceStatus = "CLOSED"
	BalanceStatusFinalized BalanceStatus = "FINALIZED"
)

// LeaveBalance entity. One row per (employee, leave type, year).
// Remaining must equal Beginning + Earned + CarriedOver - Used - Encashed after every mutation.
type LeaveBalance struct {
	ID          string
	EmployeeID  string
	LeaveTypeID string
	PolicyID    string
	Year        string

	BeginningBalance decimal.Decimal
	Earned           decimal.Decimal
	Used             decimal.Decimal
	CarriedOver      decimal.Decimal
	Encashed         decimal.Decimal
	Remaining        decimal.Decimal

	Status              BalanceStatus
	LastTransactionDate *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	// Relationships (for responses)
	EmployeeName  *string
	LeaveTypeName *string
}

// IsMutable reports whether the balance still accepts debits and credits.
func (b LeaveBalance) IsMutable() bool {
	return b.Status == BalanceStatusOpen || b.Status == BalanceStatusReopened
}

// CheckInvariant verifies the ledger equation for the balance row.
func (b LeaveBalance) CheckInvariant() bool {
	expected := b.BeginningBalance.Add(b.Earned).Add(b.CarriedOver).Sub(b.Used).Sub(b.Encashed)
	return b.Remaining.Equal(expected)
}

type TransactionType string

const (
	TransactionTypeRequest    TransactionType = "REQUEST"
	TransactionTypeEncashment TransactionType = "ENCASHMENT"
	TransactionTypeAdjustment TransactionType = "ADJUSTMENT"
	TransactionTypeCarry      TransactionType = "CARRY"
)

// LeaveTransaction entity. Append-only; one row per balance mutation.
// Days is signed: debits are negative, credits positive.
type LeaveTransaction struct {
	ID        string
	BalanceID string
	Type      TransactionType
	Days      decimal.Decimal
	Remarks   string
	CreatedBy string
	CreatedAt time.Time
}

type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "PENDING"
	RequestStatusApproved  RequestStatus = "APPROVED"
	RequestStatusRejected  RequestStatus = "REJECTED"
	RequestStatusCancelled RequestStatus = "CANCELLED"
)

// LeaveRequest entity
type LeaveRequest struct {
	ID          string
	EmployeeID  string
	LeaveTypeID string
	BalanceID   string

	StartDate time.Time
	EndDate   time.Time
	IsHalfDay bool
	TotalDays decimal.Decimal

	Reason string

	Status       RequestStatus
	ApprovalBy   *string
	ApprovalDate *time.Time
	Remarks      *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Relationships (for responses)
	LeaveTypeName *string
	EmployeeName  *string
}

// LeaveType catalog entry (read-only reference)
type LeaveType struct {
	ID         string
	Name       string
	Code       string
	ArchivedAt *time.Time
}

// IsArchived reports whether the leave type has been retired from the catalog.
func (t LeaveType) IsArchived() bool {
	return t.ArchivedAt != nil
}

// LeaveYear maps a calendar date to a year label and cutoff window.
type LeaveYear struct {
	ID          string
	Year        string
	CutoffStart time.Time
	CutoffEnd   time.Time
}

// Holiday entry. Recurring holidays repeat every year on the same month and day.
type Holiday struct {
	ID        string
	Name      string
	Date      time.Time
	Recurring bool
}
