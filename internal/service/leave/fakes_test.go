package leave

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/neljohncereradeveloper/ampc-hris-sub000/internal/domain/audit"
	"github.com/neljohncereradeveloper/ampc-hris-sub000/internal/domain/employee"
	"github.com/neljohncereradeveloper/ampc-hris-sub000/internal/domain/leave"
	"github.com/neljohncereradeveloper/ampc-hris-sub000/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// In-memory repositories backing the service tests. They mirror the
// PostgreSQL implementations' observable behavior: sentinel errors on
// missing rows, guarded debits, and overlap semantics.

type passTransactor struct{}

func (passTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memEmployeeRepo struct {
	employees map[string]employee.Employee
}

func (m *memEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	emp, ok := m.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (m *memEmployeeRepo) GetEligible(_ context.Context, filter employee.EmployeeFilter) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, emp := range m.employees {
		if !emp.IsActive || emp.IsArchived() {
			continue
		}
		if !validator.IsInSliceFold(emp.EmploymentType, filter.EmploymentTypes) {
			continue
		}
		if !validator.IsInSliceFold(emp.EmploymentStatus, filter.EmploymentStatuses) {
			continue
		}
		out = append(out, emp)
	}
	return out, nil
}

type memLeaveTypeRepo struct {
	types []leave.LeaveType
}

func (m *memLeaveTypeRepo) GetByID(_ context.Context, id string) (leave.LeaveType, error) {
	for _, t := range m.types {
		if t.ID == id {
			return t, nil
		}
	}
	return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
}

func (m *memLeaveTypeRepo) GetByCode(_ context.Context, code string) (leave.LeaveType, error) {
	for _, t := range m.types {
		if strings.EqualFold(t.Code, code) {
			return t, nil
		}
	}
	return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
}

type memPolicyRepo struct {
	policies []leave.LeavePolicy
}

func (m *memPolicyRepo) GetByID(_ context.Context, id string) (leave.LeavePolicy, error) {
	for _, p := range m.policies {
		if p.ID == id {
			return p, nil
		}
	}
	return leave.LeavePolicy{}, leave.ErrPolicyNotFound
}

func (m *memPolicyRepo) GetActiveByLeaveType(_ context.Context, leaveTypeID string) (leave.LeavePolicy, error) {
	for _, p := range m.policies {
		if p.LeaveTypeID == leaveTypeID && p.Status == leave.PolicyStatusActive {
			return p, nil
		}
	}
	return leave.LeavePolicy{}, leave.ErrPolicyNotFound
}

func (m *memPolicyRepo) ListActive(_ context.Context) ([]leave.LeavePolicy, error) {
	var out []leave.LeavePolicy
	for _, p := range m.policies {
		if p.Status == leave.PolicyStatusActive {
			out = append(out, p)
		}
	}
	return out, nil
}

type memBalanceRepo struct {
	seq      int
	balances map[string]*leave.LeaveBalance
}

func newMemBalanceRepo() *memBalanceRepo {
	return &memBalanceRepo{balances: make(map[string]*leave.LeaveBalance)}
}

func (m *memBalanceRepo) put(b leave.LeaveBalance) *leave.LeaveBalance {
	m.seq++
	stored := b
	m.balances[b.ID] = &stored
	return &stored
}

func (m *memBalanceRepo) Create(_ context.Context, balance leave.LeaveBalance) (leave.LeaveBalance, error) {
	for _, b := range m.balances {
		if b.EmployeeID == balance.EmployeeID && b.LeaveTypeID == balance.LeaveTypeID && b.Year == balance.Year {
			return leave.LeaveBalance{}, leave.ErrBalanceAlreadyExists
		}
	}
	balance.ID = fmt.Sprintf("bal-%d", m.seq+1)
	balance.CreatedAt = time.Now()
	balance.UpdatedAt = balance.CreatedAt
	m.put(balance)
	return balance, nil
}

func (m *memBalanceRepo) GetByID(_ context.Context, id string) (leave.LeaveBalance, error) {
	b, ok := m.balances[id]
	if !ok {
		return leave.LeaveBalance{}, leave.ErrBalanceNotFound
	}
	return *b, nil
}

func (m *memBalanceRepo) GetByIDForUpdate(ctx context.Context, id string) (leave.LeaveBalance, error) {
	return m.GetByID(ctx, id)
}

func (m *memBalanceRepo) GetByEmployeeTypeYear(_ context.Context, employeeID, leaveTypeID, year string) (leave.LeaveBalance, error) {
	for _, b := range m.balances {
		if b.EmployeeID == employeeID && b.LeaveTypeID == leaveTypeID && b.Year == year {
			return *b, nil
		}
	}
	return leave.LeaveBalance{}, leave.ErrBalanceNotFound
}

func (m *memBalanceRepo) Exists(_ context.Context, employeeID, leaveTypeID, year string) (bool, error) {
	for _, b := range m.balances {
		if b.EmployeeID == employeeID && b.LeaveTypeID == leaveTypeID && b.Year == year {
			return true, nil
		}
	}
	return false, nil
}

func (m *memBalanceRepo) ApplyDebit(_ context.Context, balanceID string, days decimal.Decimal, at time.Time) error {
	b, ok := m.balances[balanceID]
	if !ok || !b.IsMutable() || b.Remaining.LessThan(days) {
		return leave.ErrInsufficientBalance
	}
	b.Used = b.Used.Add(days)
	b.Remaining = b.Remaining.Sub(days)
	b.LastTransactionDate = &at
	return nil
}

func (m *memBalanceRepo) ApplyCredit(_ context.Context, balanceID string, days decimal.Decimal, at time.Time) error {
	b, ok := m.balances[balanceID]
	if !ok {
		return leave.ErrBalanceNotFound
	}
	b.Used = b.Used.Sub(days)
	b.Remaining = b.Remaining.Add(days)
	b.LastTransactionDate = &at
	return nil
}

func (m *memBalanceRepo) Close(_ context.Context, id string) (bool, error) {
	b, ok := m.balances[id]
	if !ok || !b.IsMutable() {
		return false, nil
	}
	b.Status = leave.BalanceStatusClosed
	return true, nil
}

func (m *memBalanceRepo) CloseForEmployee(_ context.Context, employeeID, year string) (int, error) {
	closed := 0
	for _, b := range m.balances {
		if b.EmployeeID == employeeID && b.Year == year && b.IsMutable() {
			b.Status = leave.BalanceStatusClosed
			closed++
		}
	}
	return closed, nil
}

func (m *memBalanceRepo) ResetForYear(_ context.Context, year string) (int, error) {
	closed := 0
	for _, b := range m.balances {
		if b.Year == year && b.IsMutable() {
			b.Status = leave.BalanceStatusClosed
			closed++
		}
	}
	return closed, nil
}

func (m *memBalanceRepo) List(_ context.Context, _ leave.BalanceFilter) ([]leave.LeaveBalance, int64, error) {
	var out []leave.LeaveBalance
	for _, b := range m.balances {
		out = append(out, *b)
	}
	return out, int64(len(out)), nil
}

type memTxnRepo struct {
	seq  int
	txns []leave.LeaveTransaction
}

func (m *memTxnRepo) Record(_ context.Context, txn leave.LeaveTransaction) (leave.LeaveTransaction, error) {
	m.seq++
	txn.ID = fmt.Sprintf("txn-%d", m.seq)
	txn.CreatedAt = time.Now()
	m.txns = append(m.txns, txn)
	return txn, nil
}

func (m *memTxnRepo) ListByBalance(_ context.Context, balanceID string) ([]leave.LeaveTransaction, error) {
	var out []leave.LeaveTransaction
	for _, t := range m.txns {
		if t.BalanceID == balanceID {
			out = append(out, t)
		}
	}
	return out, nil
}

type memRequestRepo struct {
	seq      int
	requests map[string]*leave.LeaveRequest
}

func newMemRequestRepo() *memRequestRepo {
	return &memRequestRepo{requests: make(map[string]*leave.LeaveRequest)}
}

func (m *memRequestRepo) Create(_ context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	m.seq++
	request.ID = fmt.Sprintf("req-%d", m.seq)
	request.CreatedAt = time.Now()
	request.UpdatedAt = request.CreatedAt
	stored := request
	m.requests[request.ID] = &stored
	return request, nil
}

func (m *memRequestRepo) GetByID(_ context.Context, id string) (leave.LeaveRequest, error) {
	r, ok := m.requests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrRequestNotFound
	}
	return *r, nil
}

func (m *memRequestRepo) Update(_ context.Context, update leave.UpdateLeaveRequestRow) error {
	r, ok := m.requests[update.ID]
	if !ok {
		return leave.ErrRequestNotFound
	}
	if update.StartDate != nil {
		r.StartDate = *update.StartDate
	}
	if update.EndDate != nil {
		r.EndDate = *update.EndDate
	}
	if update.IsHalfDay != nil {
		r.IsHalfDay = *update.IsHalfDay
	}
	if update.TotalDays != nil {
		r.TotalDays = *update.TotalDays
	}
	if update.Reason != nil {
		r.Reason = *update.Reason
	}
	if update.BalanceID != nil {
		r.BalanceID = *update.BalanceID
	}
	if update.Status != nil {
		r.Status = *update.Status
	}
	if update.ApprovalBy != nil {
		r.ApprovalBy = update.ApprovalBy
	}
	if update.ApprovalDate != nil {
		r.ApprovalDate = update.ApprovalDate
	}
	if update.Remarks != nil {
		r.Remarks = update.Remarks
	}
	r.UpdatedAt = time.Now()
	return nil
}

func (m *memRequestRepo) CheckOverlapping(_ context.Context, employeeID string, startDate, endDate time.Time, excludeID string) (bool, error) {
	for _, r := range m.requests {
		if r.EmployeeID != employeeID || r.ID == excludeID {
			continue
		}
		if r.Status != leave.RequestStatusPending && r.Status != leave.RequestStatusApproved {
			continue
		}
		if !r.StartDate.After(endDate) && !r.EndDate.Before(startDate) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRequestRepo) List(_ context.Context, _ leave.RequestFilter) ([]leave.LeaveRequest, int64, error) {
	var out []leave.LeaveRequest
	for _, r := range m.requests {
		out = append(out, *r)
	}
	return out, int64(len(out)), nil
}

type memYearRepo struct {
	years []leave.LeaveYear
}

func (m *memYearRepo) GetForDate(_ context.Context, date time.Time) (leave.LeaveYear, error) {
	for _, y := range m.years {
		if !date.Before(y.CutoffStart) && !date.After(y.CutoffEnd) {
			return y, nil
		}
	}
	return leave.LeaveYear{}, leave.ErrLeaveYearNotFound
}

func (m *memYearRepo) GetByYear(_ context.Context, year string) (leave.LeaveYear, error) {
	for _, y := range m.years {
		if y.Year == year {
			return y, nil
		}
	}
	return leave.LeaveYear{}, leave.ErrLeaveYearNotFound
}

type memHolidayRepo struct {
	holidays []leave.Holiday
}

func (m *memHolidayRepo) GetByDateRange(_ context.Context, startDate, endDate time.Time) ([]leave.Holiday, error) {
	var out []leave.Holiday
	for _, h := range m.holidays {
		if !h.Date.Before(startDate) && !h.Date.After(endDate) {
			out = append(out, h)
		}
	}
	return out, nil
}

type memAuditRepo struct {
	entries []audit.ActivityLog
}

func (m *memAuditRepo) Append(_ context.Context, entry audit.ActivityLog) error {
	m.entries = append(m.entries, entry)
	return nil
}

// testEnv seeds one employee, one leave type with an active policy, the
// 2026 leave year and an open 15-day balance.
type testEnv struct {
	employees *memEmployeeRepo
	types     *memLeaveTypeRepo
	policies  *memPolicyRepo
	balances  *memBalanceRepo
	txns      *memTxnRepo
	requests  *memRequestRepo
	years     *memYearRepo
	holidays  *memHolidayRepo
	auditLog  *memAuditRepo

	requestSvc *RequestService
	balanceSvc *BalanceService
	yearSvc    *YearService
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestEnv() *testEnv {
	hireDate := date(2020, time.January, 15)

	env := &testEnv{
		employees: &memEmployeeRepo{employees: map[string]employee.Employee{
			"emp-1": {
				ID:               "emp-1",
				FullName:         "Alice Reyes",
				EmploymentType:   "regular",
				EmploymentStatus: "active",
				HireDate:         &hireDate,
				IsActive:         true,
			},
		}},
		types: &memLeaveTypeRepo{types: []leave.LeaveType{
			{ID: "lt-1", Name: "Vacation Leave", Code: "VL"},
		}},
		policies: &memPolicyRepo{policies: []leave.LeavePolicy{
			{
				ID:                      "pol-1",
				LeaveTypeID:             "lt-1",
				Name:                    "Vacation Leave Policy",
				AnnualEntitlement:       decimal.NewFromInt(15),
				AllowedEmploymentTypes:  []string{"regular"},
				AllowedEmployeeStatuses: []string{"active"},
				Status:                  leave.PolicyStatusActive,
			},
		}},
		balances: newMemBalanceRepo(),
		txns:     &memTxnRepo{},
		requests: newMemRequestRepo(),
		years: &memYearRepo{years: []leave.LeaveYear{
			{ID: "ly-2026", Year: "2026", CutoffStart: date(2026, time.January, 1), CutoffEnd: date(2026, time.December, 31)},
		}},
		holidays: &memHolidayRepo{},
		auditLog: &memAuditRepo{},
	}

	env.balances.put(leave.LeaveBalance{
		ID:          "bal-1",
		EmployeeID:  "emp-1",
		LeaveTypeID: "lt-1",
		PolicyID:    "pol-1",
		Year:        "2026",

		BeginningBalance: decimal.Zero,
		Earned:           decimal.NewFromInt(15),
		Used:             decimal.Zero,
		CarriedOver:      decimal.Zero,
		Encashed:         decimal.Zero,
		Remaining:        decimal.NewFromInt(15),

		Status: leave.BalanceStatusOpen,
	})

	tx := passTransactor{}
	env.requestSvc = NewRequestService(tx, env.types, env.policies, env.balances, env.txns, env.requests, env.years, env.holidays, env.employees, env.auditLog)
	env.balanceSvc = NewBalanceService(tx, env.policies, env.types, env.balances, env.txns, env.years, env.employees, env.auditLog)
	env.yearSvc = NewYearService(tx, env.policies, env.types, env.balances, env.years, env.employees, env.auditLog)

	return env
}

func (env *testEnv) balance(id string) leave.LeaveBalance {
	return *env.balances.balances[id]
}
