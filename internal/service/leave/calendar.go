package leave

import (
	"time"

	"github.com/neljohncereradeveloper/ampc-hris-sub000/internal/domain/leave"
	"github.com/shopspring/decimal"
)

var halfDay = decimal.NewFromFloat(0.5)

// DayCount is the result of sizing a leave request against the calendar.
type DayCount struct {
	TotalDays       decimal.Decimal
	CalendarDays    int
	HolidaysInRange []leave.Holiday
	ExcludedCount   int
}

// CountLeaveDays computes the chargeable days for [start, end] inclusive.
//
// A half-day request spanning a single calendar day counts as 0.5 days and
// skips the holiday and excluded-weekday arithmetic entirely; the holidays
// are still returned for reporting. For everything else the count is the
// inclusive calendar days minus holidays minus excluded weekdays, where a
// day that is both a holiday and an excluded weekday is only subtracted
// once. A range fully covered by holidays fails with ErrAllHolidays so the
// caller can report it distinctly from a generic zero-day range.
func CountLeaveDays(start, end time.Time, holidays []leave.Holiday, excludedWeekdays []int, isHalfDay bool) (DayCount, error) {
	start = truncateToDate(start)
	end = truncateToDate(end)

	if start.After(end) {
		return DayCount{}, leave.ErrInvalidDateRange
	}

	calendarDays := int(end.Sub(start).Hours()/24) + 1

	if isHalfDay && start.Equal(end) {
		return DayCount{
			TotalDays:       halfDay,
			CalendarDays:    calendarDays,
			HolidaysInRange: holidays,
		}, nil
	}

	holidayDates := make(map[string]bool, len(holidays))
	for _, h := range holidays {
		holidayDates[h.Date.Format("2006-01-02")] = true
	}

	excluded := make(map[time.Weekday]bool, len(excludedWeekdays))
	for _, wd := range excludedWeekdays {
		excluded[time.Weekday(wd)] = true
	}

	excludedCount := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if !excluded[d.Weekday()] {
			continue
		}
		if holidayDates[d.Format("2006-01-02")] {
			// already subtracted as a holiday
			continue
		}
		excludedCount++
	}

	total := calendarDays - len(holidays) - excludedCount
	if total <= 0 {
		if len(holidays) >= calendarDays {
			return DayCount{}, leave.ErrAllHolidays
		}
		return DayCount{}, leave.ErrZeroLeaveDays
	}

	return DayCount{
		TotalDays:       decimal.NewFromInt(int64(total)),
		CalendarDays:    calendarDays,
		HolidaysInRange: holidays,
		ExcludedCount:   excludedCount,
	}, nil
}

// FindExcludedWeekdayDates lists the dates in [start, end] that fall on a
// weekday the policy excludes.
func FindExcludedWeekdayDates(start, end time.Time, excludedWeekdays []int) []time.Time {
	start = truncateToDate(start)
	end = truncateToDate(end)

	excluded := make(map[time.Weekday]bool, len(excludedWeekdays))
	for _, wd := range excludedWeekdays {
		excluded[time.Weekday(wd)] = true
	}

	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if excluded[d.Weekday()] {
			dates = append(dates, d)
		}
	}
	return dates
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
