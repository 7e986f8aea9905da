package postgresql

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/neljohncereradeveloper/ampc-hris-sub000/internal/domain/employee"
	"github.com/neljohncereradeveloper/ampc-hris-sub000/internal/pkg/database"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, full_name, employment_type, employment_status,
		       hire_date, is_active, created_at, updated_at, deleted_at
		FROM employees
		WHERE id = $1
	`

	var emp employee.Employee
	err := q.QueryRow(ctx, query, id).Scan(
		&emp.ID, &emp.FullName, &emp.EmploymentType, &emp.EmploymentStatus,
		&emp.HireDate, &emp.IsActive, &emp.CreatedAt, &emp.UpdatedAt, &emp.DeletedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, err
	}

	return emp, nil
}

func (r *employeeRepositoryImpl) GetEligible(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, full_name, employment_type, employment_status,
		       hire_date, is_active, created_at, updated_at, deleted_at
		FROM employees
		WHERE is_active = TRUE
		AND deleted_at IS NULL
		AND LOWER(employment_type) = ANY($1)
		AND LOWER(employment_status) = ANY($2)
		ORDER BY full_name
	`

	rows, err := q.Query(ctx, query, lowerAll(filter.EmploymentTypes), lowerAll(filter.EmploymentStatuses))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := make([]employee.Employee, 0)
	for rows.Next() {
		var emp employee.Employee
		if err := rows.Scan(
			&emp.ID, &emp.FullName, &emp.EmploymentType, &emp.EmploymentStatus,
			&emp.HireDate, &emp.IsActive, &emp.CreatedAt, &emp.UpdatedAt, &emp.DeletedAt,
		); err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}

	return employees, rows.Err()
}

func lowerAll(values []string) []string {
	lowered := make([]string, len(values))
	for i, v := range values {
		lowered[i] = strings.ToLower(strings.TrimSpace(v))
	}
	return lowered
}
