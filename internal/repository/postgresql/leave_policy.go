package postgresql

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/neljohncereradeveloper/ampc-hris-sub000/internal/domain/leave"
	"github.com/neljohncereradeveloper/ampc-hris-sub000/internal/pkg/database"
)

type leavePolicyRepositoryImpl struct {
	db *database.DB
}

func NewLeavePolicyRepository(db *database.DB) leave.LeavePolicyRepository {
	return &leavePolicyRepositoryImpl{db: db}
}

const leavePolicyColumns = `
	id, leave_type_id, name,
	annual_entitlement, carry_limit, encash_limit, carried_over_years,
	minimum_service_months, allowed_employment_types, allowed_employee_statuses,
	excluded_weekdays, effective_date, expiry_date, status,
	created_at, updated_at
`

func scanLeavePolicy(row pgx.Row) (leave.LeavePolicy, error) {
	var p leave.LeavePolicy
	err := row.Scan(
		&p.ID, &p.LeaveTypeID, &p.Name,
		&p.AnnualEntitlement, &p.CarryLimit, &p.EncashLimit, &p.CarriedOverYears,
		&p.MinimumServiceMonths, &p.AllowedEmploymentTypes, &p.AllowedEmployeeStatuses,
		&p.ExcludedWeekdays, &p.EffectiveDate, &p.ExpiryDate, &p.Status,
		&p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func (r *leavePolicyRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeavePolicy, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leavePolicyColumns + `
		FROM leave_policies
		WHERE id = $1
	`

	policy, err := scanLeavePolicy(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.LeavePolicy{}, leave.ErrPolicyNotFound
		}
		return leave.LeavePolicy{}, err
	}

	return policy, nil
}

func (r *leavePolicyRepositoryImpl) GetActiveByLeaveType(ctx context.Context, leaveTypeID string) (leave.LeavePolicy, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leavePolicyColumns + `
		FROM leave_policies
		WHERE leave_type_id = $1 AND status = 'active'
	`

	policy, err := scanLeavePolicy(q.QueryRow(ctx, query, leaveTypeID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.LeavePolicy{}, leave.ErrPolicyNotFound
		}
		return leave.LeavePolicy{}, err
	}

	return policy, nil
}

func (r *leavePolicyRepositoryImpl) ListActive(ctx context.Context) ([]leave.LeavePolicy, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leavePolicyColumns + `
		FROM leave_policies
		WHERE status = 'active'
		ORDER BY name
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	policies := make([]leave.LeavePolicy, 0)
	for rows.Next() {
		var p leave.LeavePolicy
		if err := rows.Scan(
			&p.ID, &p.LeaveTypeID, &p.Name,
			&p.AnnualEntitlement, &p.CarryLimit, &p.EncashLimit, &p.CarriedOverYears,
			&p.MinimumServiceMonths, &p.AllowedEmploymentTypes, &p.AllowedEmployeeStatuses,
			&p.ExcludedWeekdays, &p.EffectiveDate, &p.ExpiryDate, &p.Status,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		policies = append(policies, p)
	}

	return policies, rows.Err()
}
