package leave

import (
	"context"
	"testing"

	"github.com/neljohncereradeveloper/ampc-hris-sub000/internal/domain/leave"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBalance(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	// Seeded balance covers 2026; create one for 2027.
	env.years.years = append(env.years.years, leave.LeaveYear{
		ID: "ly-2027", Year: "2027", CutoffStart: date(2027, 1, 1), CutoffEnd: date(2027, 12, 31),
	})

	created, err := env.balanceSvc.Create(ctx, leave.CreateLeaveBalanceRequest{
		EmployeeID: "emp-1",
		PolicyID:   "pol-1",
		Year:       "2027",
	}, "admin-1")
	require.NoError(t, err)

	assert.Equal(t, leave.BalanceStatusOpen, created.Status)
	assert.True(t, created.Earned.Equal(decimal.NewFromInt(15)))
	assert.True(t, created.Remaining.Equal(decimal.NewFromInt(15)))
	assert.True(t, created.CheckInvariant())

	// The grant lives in the earned column only. A fresh balance has no
	// used or encashed movement, so its ledger starts empty.
	txns, err := env.balanceSvc.ListTransactions(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestCreateBalanceMissingActor(t *testing.T) {
	env := newTestEnv()

	_, err := env.balanceSvc.Create(context.Background(), leave.CreateLeaveBalanceRequest{
		EmployeeID: "emp-1",
		PolicyID:   "pol-1",
		Year:       "2026",
	}, "")
	assert.ErrorIs(t, err, leave.ErrMissingActor)
}

func TestCreateBalanceDuplicate(t *testing.T) {
	env := newTestEnv()

	_, err := env.balanceSvc.Create(context.Background(), leave.CreateLeaveBalanceRequest{
		EmployeeID: "emp-1",
		PolicyID:   "pol-1",
		Year:       "2026",
	}, "admin-1")
	assert.ErrorIs(t, err, leave.ErrBalanceAlreadyExists)
}

func TestCreateBalanceUnknownYear(t *testing.T) {
	env := newTestEnv()

	_, err := env.balanceSvc.Create(context.Background(), leave.CreateLeaveBalanceRequest{
		EmployeeID: "emp-1",
		PolicyID:   "pol-1",
		Year:       "2099",
	}, "admin-1")
	assert.ErrorIs(t, err, leave.ErrLeaveYearNotFound)
}

func TestGetBalanceByEmployeeTypeYear(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	balance, err := env.balanceSvc.GetByEmployeeTypeYear(ctx, "emp-1", "lt-1", "2026")
	require.NoError(t, err)
	require.NotNil(t, balance)
	assert.Equal(t, "bal-1", balance.ID)

	balance, err = env.balanceSvc.GetByEmployeeTypeYear(ctx, "emp-1", "lt-1", "2027")
	require.NoError(t, err)
	assert.Nil(t, balance)
}

func TestGetBalanceAbsentReturnsNil(t *testing.T) {
	env := newTestEnv()

	balance, err := env.balanceSvc.GetByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, balance)
}

func TestCloseBalance(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	require.NoError(t, env.balanceSvc.Close(ctx, "bal-1", "admin-1"))
	assert.Equal(t, leave.BalanceStatusClosed, env.balance("bal-1").Status)

	// Closing again reports the wrong state, not a silent success.
	err := env.balanceSvc.Close(ctx, "bal-1", "admin-1")
	assert.ErrorIs(t, err, leave.ErrBalanceNotOpen)
}

func TestCloseBalanceNotFound(t *testing.T) {
	env := newTestEnv()

	err := env.balanceSvc.Close(context.Background(), "missing", "admin-1")
	assert.ErrorIs(t, err, leave.ErrBalanceNotFound)
}

func TestCloseBalancesForEmployee(t *testing.T) {
	env := newTestEnv()

	closed, err := env.balanceSvc.CloseForEmployee(context.Background(), leave.CloseBalancesForEmployeeRequest{
		EmployeeID: "emp-1",
		Year:       "2026",
	}, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, 1, closed)
	assert.Equal(t, leave.BalanceStatusClosed, env.balance("bal-1").Status)

	// Idempotent: nothing left to close.
	closed, err = env.balanceSvc.CloseForEmployee(context.Background(), leave.CloseBalancesForEmployeeRequest{
		EmployeeID: "emp-1",
		Year:       "2026",
	}, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, 0, closed)
}

func TestListTransactionsUnknownBalance(t *testing.T) {
	env := newTestEnv()

	_, err := env.balanceSvc.ListTransactions(context.Background(), "missing")
	assert.ErrorIs(t, err, leave.ErrBalanceNotFound)
}
