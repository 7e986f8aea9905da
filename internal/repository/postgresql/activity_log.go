package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/neljohncereradeveloper/ampc-hris-sub000/internal/domain/audit"
	"github.com/neljohncereradeveloper/ampc-hris-sub000/internal/pkg/database"
)

type activityLogRepositoryImpl struct {
	db *database.DB
}

func NewActivityLogRepository(db *database.DB) audit.ActivityLogRepository {
	return &activityLogRepositoryImpl{db: db}
}

func (r *activityLogRepositoryImpl) Append(ctx context.Context, log audit.ActivityLog) error {
	q := GetQuerier(ctx, r.db)

	details, err := json.Marshal(log.Details)
	if err != nil {
		return fmt.Errorf("failed to marshal activity log details: %w", err)
	}

	query := `
		INSERT INTO activity_logs (
			id, action, entity, entity_id, details, created_by, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, NOW()
		)
	`

	_, err = q.Exec(ctx, query,
		uuid.New().String(), log.Action, log.Entity, log.EntityID, details, log.CreatedBy,
	)
	return err
}
