package audit

import "context"

// ActivityLogRepository - append-only sink for audit entries
type ActivityLogRepository interface {
	Append(ctx context.Context, entry ActivityLog) error
}
