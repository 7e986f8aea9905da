package postgresql

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/neljohncereradeveloper/ampc-hris-sub000/internal/domain/leave"
	"github.com/neljohncereradeveloper/ampc-hris-sub000/internal/pkg/database"
)

type leaveTypeRepositoryImpl struct {
	db *database.DB
}

func NewLeaveTypeRepository(db *database.DB) leave.LeaveTypeRepository {
	return &leaveTypeRepositoryImpl{db: db}
}

func (r *leaveTypeRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveType, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, code, archived_at
		FROM leave_types
		WHERE id = $1
	`

	var lt leave.LeaveType
	err := q.QueryRow(ctx, query, id).Scan(&lt.ID, &lt.Name, &lt.Code, &lt.ArchivedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
		}
		return leave.LeaveType{}, err
	}

	return lt, nil
}

func (r *leaveTypeRepositoryImpl) GetByCode(ctx context.Context, code string) (leave.LeaveType, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, code, archived_at
		FROM leave_types
		WHERE UPPER(code) = UPPER($1)
	`

	var lt leave.LeaveType
	err := q.QueryRow(ctx, query, code).Scan(&lt.ID, &lt.Name, &lt.Code, &lt.ArchivedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
		}
		return leave.LeaveType{}, err
	}

	return lt, nil
}
