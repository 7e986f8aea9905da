package postgresql

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/neljohncereradeveloper/ampc-hris-sub000/internal/domain/leave"
	"github.com/neljohncereradeveloper/ampc-hris-sub000/internal/pkg/database"
)

type leaveYearRepositoryImpl struct {
	db *database.DB
}

func NewLeaveYearRepository(db *database.DB) leave.LeaveYearRepository {
	return &leaveYearRepositoryImpl{db: db}
}

func (r *leaveYearRepositoryImpl) GetForDate(ctx context.Context, date time.Time) (leave.LeaveYear, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, year, cutoff_start, cutoff_end
		FROM leave_years
		WHERE cutoff_start <= $1 AND cutoff_end >= $1
	`

	var ly leave.LeaveYear
	err := q.QueryRow(ctx, query, date).Scan(&ly.ID, &ly.Year, &ly.CutoffStart, &ly.CutoffEnd)
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.LeaveYear{}, leave.ErrLeaveYearNotFound
		}
		return leave.LeaveYear{}, err
	}

	return ly, nil
}

func (r *leaveYearRepositoryImpl) GetByYear(ctx context.Context, year string) (leave.LeaveYear, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, year, cutoff_start, cutoff_end
		FROM leave_years
		WHERE year = $1
	`

	var ly leave.LeaveYear
	err := q.QueryRow(ctx, query, year).Scan(&ly.ID, &ly.Year, &ly.CutoffStart, &ly.CutoffEnd)
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.LeaveYear{}, leave.ErrLeaveYearNotFound
		}
		return leave.LeaveYear{}, err
	}

	return ly, nil
}
