package postgresql

import (
	"context"
	"sort"
	"time"

	"github.com/neljohncereradeveloper/ampc-hris-sub000/internal/domain/leave"
	"github.com/neljohncereradeveloper/ampc-hris-sub000/internal/pkg/database"
)

type holidayRepositoryImpl struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) leave.HolidayRepository {
	return &holidayRepositoryImpl{db: db}
}

// GetByDateRange returns holidays inside [startDate, endDate]. Recurring
// holidays are stored once and projected here onto every year the range
// touches.
func (r *holidayRepositoryImpl) GetByDateRange(ctx context.Context, startDate, endDate time.Time) ([]leave.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, date, recurring
		FROM holidays
		WHERE recurring = TRUE
		OR (date >= $1 AND date <= $2)
	`

	rows, err := q.Query(ctx, query, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	holidays := make([]leave.Holiday, 0)
	for rows.Next() {
		var h leave.Holiday
		if err := rows.Scan(&h.ID, &h.Name, &h.Date, &h.Recurring); err != nil {
			return nil, err
		}

		if !h.Recurring {
			holidays = append(holidays, h)
			continue
		}

		for year := startDate.Year(); year <= endDate.Year(); year++ {
			projected := time.Date(year, h.Date.Month(), h.Date.Day(), 0, 0, 0, 0, h.Date.Location())
			if !projected.Before(startDate) && !projected.After(endDate) {
				occurrence := h
				occurrence.Date = projected
				holidays = append(holidays, occurrence)
			}
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(holidays, func(i, j int) bool {
		return holidays[i].Date.Before(holidays[j].Date)
	})

	return holidays, nil
}
