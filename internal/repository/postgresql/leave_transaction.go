package postgresql

import (
	"context"

	"github.com/google/uuid"
	"github.com/neljohncereradeveloper/ampc-hris-sub000/internal/domain/leave"
	"github.com/neljohncereradeveloper/ampc-hris-sub000/internal/pkg/database"
)

type leaveTransactionRepositoryImpl struct {
	db *database.DB
}

func NewLeaveTransactionRepository(db *database.DB) leave.LeaveTransactionRepository {
	return &leaveTransactionRepositoryImpl{db: db}
}

// Record appends one immutable ledger entry. The matching balance mutation
// must be applied by the caller within the same transaction.
func (r *leaveTransactionRepositoryImpl) Record(ctx context.Context, txn leave.LeaveTransaction) (leave.LeaveTransaction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_transactions (
			id, balance_id, transaction_type, days, remarks, created_by, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, NOW()
		) RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		uuid.New().String(), txn.BalanceID, txn.Type, txn.Days, txn.Remarks, txn.CreatedBy,
	).Scan(&txn.ID, &txn.CreatedAt)

	if err != nil {
		return leave.LeaveTransaction{}, err
	}

	return txn, nil
}

func (r *leaveTransactionRepositoryImpl) ListByBalance(ctx context.Context, balanceID string) ([]leave.LeaveTransaction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, balance_id, transaction_type, days, remarks, created_by, created_at
		FROM leave_transactions
		WHERE balance_id = $1
		ORDER BY created_at
	`

	rows, err := q.Query(ctx, query, balanceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	txns := make([]leave.LeaveTransaction, 0)
	for rows.Next() {
		var t leave.LeaveTransaction
		if err := rows.Scan(&t.ID, &t.BalanceID, &t.Type, &t.Days, &t.Remarks, &t.CreatedBy, &t.CreatedAt); err != nil {
			return nil, err
		}
		txns = append(txns, t)
	}

	return txns, rows.Err()
}
