package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/neljohncereradeveloper/ampc-hris-sub000/internal/domain/leave"
	"github.com/neljohncereradeveloper/ampc-hris-sub000/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type leaveBalanceRepositoryImpl struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.LeaveBalanceRepository {
	return &leaveBalanceRepositoryImpl{db: db}
}

const leaveBalanceColumns = `
	id, employee_id, leave_type_id, policy_id, year,
	beginning_balance, earned, used, carried_over, encashed, remaining,
	status, last_transaction_date, created_at, updated_at
`

func scanLeaveBalance(row pgx.Row) (leave.LeaveBalance, error) {
	var b leave.LeaveBalance
	err := row.Scan(
		&b.ID, &b.EmployeeID, &b.LeaveTypeID, &b.PolicyID, &b.Year,
		&b.BeginningBalance, &b.Earned, &b.Used, &b.CarriedOver, &b.Encashed, &b.Remaining,
		&b.Status, &b.LastTransactionDate, &b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

// Create inserts a new balance row. The unique index on
// (employee_id, leave_type_id, year) is the uniqueness guarantee for the
// ledger; a conflicting insert reports ErrBalanceAlreadyExists instead of
// silently duplicating the row.
func (r *leaveBalanceRepositoryImpl) Create(ctx context.Context, balance leave.LeaveBalance) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_balances (
			id, employee_id, leave_type_id, policy_id, year,
			beginning_balance, earned, used, carried_over, encashed, remaining,
			status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10, $11,
			$12, NOW(), NOW()
		)
		ON CONFLICT (employee_id, leave_type_id, year) DO NOTHING
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		uuid.New().String(), balance.EmployeeID, balance.LeaveTypeID, balance.PolicyID, balance.Year,
		balance.BeginningBalance, balance.Earned, balance.Used, balance.CarriedOver, balance.Encashed, balance.Remaining,
		balance.Status,
	).Scan(&balance.ID, &balance.CreatedAt, &balance.UpdatedAt)

	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.LeaveBalance{}, leave.ErrBalanceAlreadyExists
		}
		return leave.LeaveBalance{}, err
	}

	return balance, nil
}

func (r *leaveBalanceRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveBalanceColumns + `
		FROM leave_balances
		WHERE id = $1
	`

	balance, err := scanLeaveBalance(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.LeaveBalance{}, leave.ErrBalanceNotFound
		}
		return leave.LeaveBalance{}, err
	}

	return balance, nil
}

// GetByIDForUpdate locks the balance row so concurrent approvals against the
// same balance serialize instead of overcommitting remaining days.
func (r *leaveBalanceRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveBalanceColumns + `
		FROM leave_balances
		WHERE id = $1
		FOR UPDATE
	`

	balance, err := scanLeaveBalance(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.LeaveBalance{}, leave.ErrBalanceNotFound
		}
		return leave.LeaveBalance{}, err
	}

	return balance, nil
}

func (r *leaveBalanceRepositoryImpl) GetByEmployeeTypeYear(ctx context.Context, employeeID, leaveTypeID, year string) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveBalanceColumns + `
		FROM leave_balances
		WHERE employee_id = $1 AND leave_type_id = $2 AND year = $3
	`

	balance, err := scanLeaveBalance(q.QueryRow(ctx, query, employeeID, leaveTypeID, year))
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.LeaveBalance{}, leave.ErrBalanceNotFound
		}
		return leave.LeaveBalance{}, err
	}

	return balance, nil
}

func (r *leaveBalanceRepositoryImpl) Exists(ctx context.Context, employeeID, leaveTypeID, year string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM leave_balances
			WHERE employee_id = $1 AND leave_type_id = $2 AND year = $3
		)
	`

	var exists bool
	err := q.QueryRow(ctx, query, employeeID, leaveTypeID, year).Scan(&exists)

	return exists, err
}

// ApplyDebit moves days from remaining to used. The WHERE clause re-checks
// sufficiency so a concurrent writer can never drive remaining negative.
func (r *leaveBalanceRepositoryImpl) ApplyDebit(ctx context.Context, balanceID string, days decimal.Decimal, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET used = used + $1,
		    remaining = remaining - $1,
		    last_transaction_date = $2,
		    updated_at = NOW()
		WHERE id = $3
		AND status IN ('OPEN', 'REOPENED')
		AND remaining >= $1
	`

	result, err := q.Exec(ctx, query, days, at, balanceID)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return leave.ErrInsufficientBalance
	}

	return nil
}

// ApplyCredit reverses a prior debit. No floor check: reversals are bounded
// by what was debited before.
func (r *leaveBalanceRepositoryImpl) ApplyCredit(ctx context.Context, balanceID string, days decimal.Decimal, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET used = used - $1,
		    remaining = remaining + $1,
		    last_transaction_date = $2,
		    updated_at = NOW()
		WHERE id = $3
	`

	result, err := q.Exec(ctx, query, days, at, balanceID)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return leave.ErrBalanceNotFound
	}

	return nil
}

func (r *leaveBalanceRepositoryImpl) Close(ctx context.Context, id string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET status = 'CLOSED', updated_at = NOW()
		WHERE id = $1
		AND status IN ('OPEN', 'REOPENED')
	`

	result, err := q.Exec(ctx, query, id)
	if err != nil {
		return false, err
	}

	return result.RowsAffected() > 0, nil
}

func (r *leaveBalanceRepositoryImpl) CloseForEmployee(ctx context.Context, employeeID, year string) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET status = 'CLOSED', updated_at = NOW()
		WHERE employee_id = $1 AND year = $2
		AND status IN ('OPEN', 'REOPENED')
	`

	result, err := q.Exec(ctx, query, employeeID, year)
	if err != nil {
		return 0, err
	}

	return int(result.RowsAffected()), nil
}

func (r *leaveBalanceRepositoryImpl) ResetForYear(ctx context.Context, year string) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET status = 'CLOSED', updated_at = NOW()
		WHERE year = $1
		AND status IN ('OPEN', 'REOPENED')
	`

	result, err := q.Exec(ctx, query, year)
	if err != nil {
		return 0, err
	}

	return int(result.RowsAffected()), nil
}

func (r *leaveBalanceRepositoryImpl) List(ctx context.Context, filter leave.BalanceFilter) ([]leave.LeaveBalance, int64, error) {
	q := GetQuerier(ctx, r.db)

	whereClauses := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("lb.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.LeaveTypeID != nil && *filter.LeaveTypeID != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("lb.leave_type_id = $%d", argIdx))
		args = append(args, *filter.LeaveTypeID)
		argIdx++
	}
	if filter.Year != nil && *filter.Year != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("lb.year = $%d", argIdx))
		args = append(args, *filter.Year)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("lb.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}

	whereClause := strings.Join(whereClauses, " AND ")

	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM leave_balances lb
		WHERE %s
	`, whereClause)

	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leave balances: %w", err)
	}

	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.Limit == 0 {
		filter.Limit = 20
	}
	offset := (filter.Page - 1) * filter.Limit

	query := fmt.Sprintf(`
		SELECT lb.id, lb.employee_id, lb.leave_type_id, lb.policy_id, lb.year,
		       lb.beginning_balance, lb.earned, lb.used, lb.carried_over, lb.encashed, lb.remaining,
		       lb.status, lb.last_transaction_date, lb.created_at, lb.updated_at,
		       e.full_name AS employee_name,
		       lt.name AS leave_type_name
		FROM leave_balances lb
		JOIN employees e ON lb.employee_id = e.id
		JOIN leave_types lt ON lb.leave_type_id = lt.id
		WHERE %s
		ORDER BY lb.year DESC, e.full_name, lt.name
		LIMIT $%d OFFSET $%d
	`, whereClause, argIdx, argIdx+1)

	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query leave balances: %w", err)
	}
	defer rows.Close()

	balances := make([]leave.LeaveBalance, 0)
	for rows.Next() {
		var b leave.LeaveBalance
		var employeeName, leaveTypeName string

		err := rows.Scan(
			&b.ID, &b.EmployeeID, &b.LeaveTypeID, &b.PolicyID, &b.Year,
			&b.BeginningBalance, &b.Earned, &b.Used, &b.CarriedOver, &b.Encashed, &b.Remaining,
			&b.Status, &b.LastTransactionDate, &b.CreatedAt, &b.UpdatedAt,
			&employeeName, &leaveTypeName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan leave balance: %w", err)
		}

		b.EmployeeName = &employeeName
		b.LeaveTypeName = &leaveTypeName
		balances = append(balances, b)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration error: %w", err)
	}

	return balances, total, nil
}
