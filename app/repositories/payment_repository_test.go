package repositories

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"rentpay/app/models/payment"
	"rentpay/pkg/database"
	"rentpay/pkg/database/migrations"
)

func setupRepository(t *testing.T) *PaymentRepository {
	t.Helper()
	require.NoError(t, database.Connect(sqlite.Open(filepath.Join(t.TempDir(), "ledger.db")), gormlogger.Discard))
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, database.AutoMigrate(migrations.RegisterTables()))
	return NewPaymentRepository()
}

func newPayment(id string, ts time.Time) *payment.Payment {
	return &payment.Payment{
		ID:        id,
		Tenant:    "Jane Doe",
		Amount:    decimal.RequireFromString("5000.50"),
		Method:    payment.MethodEWallet,
		Timestamp: ts,
		Unit:      "2A",
		PaidOn:    ts.Format(payment.DateLayout),
	}
}

func TestPaymentRepository_AppendAndGet(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()
	ts := time.Date(2026, 10, 5, 6, 30, 0, 0, time.UTC)

	require.NoError(t, repo.Append(ctx, newPayment("pay-1", ts)))

	got, err := repo.GetByID(ctx, "pay-1")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got.Tenant)
	assert.True(t, decimal.RequireFromString("5000.50").Equal(got.Amount))
	assert.Equal(t, payment.MethodEWallet, got.Method)
	assert.True(t, ts.Equal(got.Timestamp))
	assert.Empty(t, got.ProofRef)
}

func TestPaymentRepository_AppendDuplicateID(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()
	ts := time.Date(2026, 10, 5, 6, 30, 0, 0, time.UTC)

	require.NoError(t, repo.Append(ctx, newPayment("pay-1", ts)))
	assert.Error(t, repo.Append(ctx, newPayment("pay-1", ts)))

	payments, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, payments, 1)
}

func TestPaymentRepository_ListNewestFirst(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 5, 6, 30, 0, 0, time.UTC)

	require.NoError(t, repo.Append(ctx, newPayment("old", base)))
	require.NoError(t, repo.Append(ctx, newPayment("new", base.Add(time.Hour))))

	payments, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, "new", payments[0].ID)
	assert.Equal(t, "old", payments[1].ID)
}

func TestPaymentRepository_GetMissing(t *testing.T) {
	repo := setupRepository(t)

	_, err := repo.GetByID(context.Background(), "nope")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestPaymentRepository_Ping(t *testing.T) {
	repo := setupRepository(t)
	assert.NoError(t, repo.Ping(context.Background()))
}
