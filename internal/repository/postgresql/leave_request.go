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
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (
			id, employee_id, leave_type_id, balance_id,
			start_date, end_date, is_half_day, total_days,
			reason, status, remarks,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8,
			$9, $10, $11,
			NOW(), NOW()
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		uuid.New().String(), request.EmployeeID, request.LeaveTypeID, request.BalanceID,
		request.StartDate, request.EndDate, request.IsHalfDay, request.TotalDays,
		request.Reason, request.Status, request.Remarks,
	).Scan(&request.ID, &request.CreatedAt, &request.UpdatedAt)

	if err != nil {
		return leave.LeaveRequest{}, err
	}

	return request, nil
}

func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT lr.id, lr.employee_id, lr.leave_type_id, lr.balance_id,
		       lr.start_date, lr.end_date, lr.is_half_day, lr.total_days,
		       lr.reason, lr.status, lr.approval_by, lr.approval_date, lr.remarks,
		       lr.created_at, lr.updated_at,
		       lt.name AS leave_type_name,
		       e.full_name AS employee_name
		FROM leave_requests lr
		JOIN leave_types lt ON lr.leave_type_id = lt.id
		JOIN employees e ON lr.employee_id = e.id
		WHERE lr.id = $1
	`

	var req leave.LeaveRequest
	var leaveTypeName, employeeName string

	err := q.QueryRow(ctx, query, id).Scan(
		&req.ID, &req.EmployeeID, &req.LeaveTypeID, &req.BalanceID,
		&req.StartDate, &req.EndDate, &req.IsHalfDay, &req.TotalDays,
		&req.Reason, &req.Status, &req.ApprovalBy, &req.ApprovalDate, &req.Remarks,
		&req.CreatedAt, &req.UpdatedAt,
		&leaveTypeName, &employeeName,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.LeaveRequest{}, leave.ErrRequestNotFound
		}
		return leave.LeaveRequest{}, err
	}

	req.LeaveTypeName = &leaveTypeName
	req.EmployeeName = &employeeName

	return req, nil
}

func (r *leaveRequestRepositoryImpl) Update(ctx context.Context, request leave.UpdateLeaveRequestRow) error {
	q := GetQuerier(ctx, r.db)

	updates := make([]string, 0)
	args := make([]interface{}, 0)
	argIdx := 1

	if request.StartDate != nil {
		updates = append(updates, fmt.Sprintf("start_date = $%d", argIdx))
		args = append(args, *request.StartDate)
		argIdx++
	}
	if request.EndDate != nil {
		updates = append(updates, fmt.Sprintf("end_date = $%d", argIdx))
		args = append(args, *request.EndDate)
		argIdx++
	}
	if request.IsHalfDay != nil {
		updates = append(updates, fmt.Sprintf("is_half_day = $%d", argIdx))
		args = append(args, *request.IsHalfDay)
		argIdx++
	}
	if request.TotalDays != nil {
		updates = append(updates, fmt.Sprintf("total_days = $%d", argIdx))
		args = append(args, *request.TotalDays)
		argIdx++
	}
	if request.Reason != nil {
		updates = append(updates, fmt.Sprintf("reason = $%d", argIdx))
		args = append(args, *request.Reason)
		argIdx++
	}
	if request.BalanceID != nil {
		updates = append(updates, fmt.Sprintf("balance_id = $%d", argIdx))
		args = append(args, *request.BalanceID)
		argIdx++
	}
	if request.Status != nil {
		updates = append(updates, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *request.Status)
		argIdx++
	}
	if request.ApprovalBy != nil {
		updates = append(updates, fmt.Sprintf("approval_by = $%d", argIdx))
		args = append(args, *request.ApprovalBy)
		argIdx++
	}
	if request.ApprovalDate != nil {
		updates = append(updates, fmt.Sprintf("approval_date = $%d", argIdx))
		args = append(args, *request.ApprovalDate)
		argIdx++
	}
	if request.Remarks != nil {
		updates = append(updates, fmt.Sprintf("remarks = $%d", argIdx))
		args = append(args, *request.Remarks)
		argIdx++
	}

	if len(updates) == 0 {
		return fmt.Errorf("no updatable fields provided for leave request update")
	}

	updates = append(updates, fmt.Sprintf("updated_at = $%d", argIdx))
	args = append(args, time.Now())
	argIdx++

	args = append(args, request.ID)

	sql := "UPDATE leave_requests SET " + strings.Join(updates, ", ") + fmt.Sprintf(" WHERE id = $%d RETURNING id", argIdx)

	var updatedID string
	if err := q.QueryRow(ctx, sql, args...).Scan(&updatedID); err != nil {
		if err == pgx.ErrNoRows {
			return leave.ErrRequestNotFound
		}
		return fmt.Errorf("failed to update leave request with id %s: %w", request.ID, err)
	}
	return nil
}

// CheckOverlapping reports whether a blocking request overlaps the range.
// Only PENDING and APPROVED requests block; rejected and cancelled ones
// never do.
func (r *leaveRequestRepositoryImpl) CheckOverlapping(
	ctx context.Context,
	employeeID string,
	startDate, endDate time.Time,
	excludeID string,
) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM leave_requests
			WHERE employee_id = $1
			AND id <> $4
			AND status IN ('PENDING', 'APPROVED')
			AND start_date <= $3
			AND end_date >= $2
		)
	`

	var exists bool
	err := q.QueryRow(ctx, query, employeeID, startDate, endDate, excludeID).Scan(&exists)

	return exists, err
}

func (r *leaveRequestRepositoryImpl) List(ctx context.Context, filter leave.RequestFilter) ([]leave.LeaveRequest, int64, error) {
	q := GetQuerier(ctx, r.db)

	whereClauses := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("lr.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.LeaveTypeID != nil && *filter.LeaveTypeID != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("lr.leave_type_id = $%d", argIdx))
		args = append(args, *filter.LeaveTypeID)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("lr.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.StartDate != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("lr.start_date >= $%d", argIdx))
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("lr.end_date <= $%d", argIdx))
		args = append(args, *filter.EndDate)
		argIdx++
	}

	whereClause := strings.Join(whereClauses, " AND ")

	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM leave_requests lr
		WHERE %s
	`, whereClause)

	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leave requests: %w", err)
	}

	var orderBy string
	switch filter.SortBy {
	case "start_date":
		orderBy = "lr.start_date"
	case "end_date":
		orderBy = "lr.end_date"
	case "status":
		orderBy = "lr.status"
	default:
		orderBy = "lr.created_at"
	}
	if strings.ToLower(filter.SortOrder) == "asc" {
		orderBy += " ASC"
	} else {
		orderBy += " DESC"
	}

	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.Limit == 0 {
		filter.Limit = 20
	}
	offset := (filter.Page - 1) * filter.Limit

	query := fmt.Sprintf(`
		SELECT lr.id, lr.employee_id, lr.leave_type_id, lr.balance_id,
		       lr.start_date, lr.end_date, lr.is_half_day, lr.total_days,
		       lr.reason, lr.status, lr.approval_by, lr.approval_date, lr.remarks,
		       lr.created_at, lr.updated_at,
		       lt.name AS leave_type_name,
		       e.full_name AS employee_name
		FROM leave_requests lr
		JOIN leave_types lt ON lr.leave_type_id = lt.id
		JOIN employees e ON lr.employee_id = e.id
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, whereClause, orderBy, argIdx, argIdx+1)

	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query leave requests: %w", err)
	}
	defer rows.Close()

	requests := make([]leave.LeaveRequest, 0)
	for rows.Next() {
		var req leave.LeaveRequest
		var leaveTypeName, employeeName string

		err := rows.Scan(
			&req.ID, &req.EmployeeID, &req.LeaveTypeID, &req.BalanceID,
			&req.StartDate, &req.EndDate, &req.IsHalfDay, &req.TotalDays,
			&req.Reason, &req.Status, &req.ApprovalBy, &req.ApprovalDate, &req.Remarks,
			&req.CreatedAt, &req.UpdatedAt,
			&leaveTypeName, &employeeName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan leave request: %w", err)
		}

		req.LeaveTypeName = &leaveTypeName
		req.EmployeeName = &employeeName
		requests = append(requests, req)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration error: %w", err)
	}

	return requests, total, nil
}
