package finance

import (
	"context"
	"testing"

	"github.com/appnutry/nutry-backend/pkg/db/models"
	"github.com/appnutry/nutry-backend/pkg/enums"
	"github.com/appnutry/nutry-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupFinanceTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS patients (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  name TEXT NOT NULL,
  email TEXT,
  phone TEXT,
  birth_date DATE,
  notes TEXT,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE IF NOT EXISTS payments (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  patient_id TEXT,
  plan_id TEXT,
  amount TEXT NOT NULL,
  method TEXT NOT NULL,
  paid_at DATE NOT NULL,
  description TEXT,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE IF NOT EXISTS expenses (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  amount TEXT NOT NULL,
  category TEXT,
  incurred_at DATE NOT NULL,
  description TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func insertPatient(t *testing.T, db *gorm.DB, userID uuid.UUID, name string) *models.Patient {
	t.Helper()
	patient := &models.Patient{ID: uuid.New(), UserID: userID, Name: name}
	require.NoError(t, db.Create(patient).Error)
	return patient
}

func insertPayment(t *testing.T, repo Repository, userID uuid.UUID, patientID *uuid.UUID, amount string, paidAt string) *models.Payment {
	t.Helper()
	day, err := types.ParseDate(paidAt)
	require.NoError(t, err)
	payment := &models.Payment{
		ID:        uuid.New(),
		UserID:    userID,
		PatientID: patientID,
		Amount:    decimal.RequireFromString(amount),
		Method:    enums.PaymentMethodPix,
		PaidAt:    day,
	}
	require.NoError(t, repo.CreatePayment(context.Background(), payment))
	return payment
}

func insertExpense(t *testing.T, repo Repository, userID uuid.UUID, amount string, incurredAt string) *models.Expense {
	t.Helper()
	day, err := types.ParseDate(incurredAt)
	require.NoError(t, err)
	expense := &models.Expense{
		ID:          uuid.New(),
		UserID:      userID,
		Amount:      decimal.RequireFromString(amount),
		IncurredAt:  day,
		Description: "supplies",
	}
	require.NoError(t, repo.CreateExpense(context.Background(), expense))
	return expense
}

func TestRepositoryPaymentLifecycle(t *testing.T) {
	db := setupFinanceTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	owner := uuid.New()
	patient := insertPatient(t, db, owner, "Carla Nunes")
	payment := insertPayment(t, repo, owner, &patient.ID, "150.00", "2024-05-10")
	insertPayment(t, repo, uuid.New(), nil, "99.00", "2024-05-11")

	rows, cursor, err := repo.ListPayments(ctx, listParams{UserID: owner, Limit: 10})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Nil(t, cursor)
	assert.True(t, rows[0].Amount.Equal(decimal.RequireFromString("150.00")))

	deleted, err := repo.DeletePayment(ctx, uuid.New(), payment.ID)
	require.NoError(t, err)
	assert.False(t, deleted, "foreign user should not delete")

	deleted, err = repo.DeletePayment(ctx, owner, payment.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestRepositoryPaymentsPaged(t *testing.T) {
	db := setupFinanceTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	owner := uuid.New()
	for i := 0; i < 3; i++ {
		insertPayment(t, repo, owner, nil, "10.00", "2024-05-01")
	}

	rows, cursor, err := repo.ListPayments(ctx, listParams{UserID: owner, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	require.NotNil(t, cursor)

	rows, cursor, err = repo.ListPayments(ctx, listParams{UserID: owner, Limit: 2, Cursor: cursor})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Nil(t, cursor)
}

func TestRepositoryExpenseLifecycle(t *testing.T) {
	db := setupFinanceTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	owner := uuid.New()
	expense := insertExpense(t, repo, owner, "45.50", "2024-05-08")
	insertExpense(t, repo, uuid.New(), "12.00", "2024-05-09")

	rows, cursor, err := repo.ListExpenses(ctx, listParams{UserID: owner, Limit: 10})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Nil(t, cursor)
	assert.Equal(t, "supplies", rows[0].Description)

	deleted, err := repo.DeleteExpense(ctx, owner, expense.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestRepositoryLedgerSources(t *testing.T) {
	db := setupFinanceTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	owner := uuid.New()
	patient := insertPatient(t, db, owner, "Diego Ramos")
	insertPayment(t, repo, owner, &patient.ID, "200.00", "2024-04-15")
	insertPayment(t, repo, owner, nil, "80.00", "2024-04-20")
	insertExpense(t, repo, owner, "30.00", "2024-04-18")
	insertPayment(t, repo, uuid.New(), nil, "999.00", "2024-04-16")

	payments, expenses, err := repo.LedgerSources(ctx, ledgerParams{UserID: owner})
	require.NoError(t, err)
	require.Len(t, payments, 2)
	require.Len(t, expenses, 1)

	byAmount := make(map[string]PaymentWithPatient, len(payments))
	for _, entry := range payments {
		byAmount[entry.Payment.Amount.StringFixed(2)] = entry
	}
	assert.Equal(t, "Diego Ramos", byAmount["200.00"].PatientName)
	assert.Empty(t, byAmount["80.00"].PatientName, "orphaned payments carry no name")
}

func TestRepositoryLedgerSourcesWindow(t *testing.T) {
	db := setupFinanceTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	owner := uuid.New()
	insertPayment(t, repo, owner, nil, "10.00", "2024-03-31")
	insertPayment(t, repo, owner, nil, "20.00", "2024-04-10")
	insertExpense(t, repo, owner, "5.00", "2024-04-02")
	insertExpense(t, repo, owner, "6.00", "2024-05-01")

	from, err := types.ParseDate("2024-04-01")
	require.NoError(t, err)
	to, err := types.ParseDate("2024-04-30")
	require.NoError(t, err)

	payments, expenses, err := repo.LedgerSources(ctx, ledgerParams{UserID: owner, From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, payments, 1)
	require.Len(t, expenses, 1)
	assert.True(t, payments[0].Payment.Amount.Equal(decimal.RequireFromString("20.00")))
	assert.True(t, expenses[0].Amount.Equal(decimal.RequireFromString("5.00")))
}
