package audit

import "time"

// ActivityLog entry. Written after every mutating operation inside the
// same transaction; never read back by the leave core.
type ActivityLog struct {
	ID        string
	Action    string
	Entity    string
	EntityID  string
	Details   map[string]interface{}
	CreatedBy string
	CreatedAt time.Time
}
