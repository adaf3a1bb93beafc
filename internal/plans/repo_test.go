package plans

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

func setupPlansTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS plans (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  patient_id TEXT NOT NULL,
  type TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'active',
  price TEXT NOT NULL,
  start_date DATE,
  end_date DATE,
  next_payment_date DATE,
  notes TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func insertPlan(t *testing.T, repo Repository, userID, patientID uuid.UUID, status enums.PlanStatus, next *types.Date) *models.PlanRecord {
	t.Helper()
	plan := &models.PlanRecord{
		ID:              uuid.New(),
		UserID:          userID,
		PatientID:       patientID,
		Type:            enums.PlanTypeMonthly,
		Status:          status,
		Price:           decimal.RequireFromString("350.00"),
		NextPaymentDate: next,
	}
	require.NoError(t, repo.Create(context.Background(), plan))
	return plan
}

func TestPlanRepositoryCreateAndFind(t *testing.T) {
	db := setupPlansTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	plan := insertPlan(t, repo, userID, uuid.New(), enums.PlanStatusActive, mustDate(t, "2024-03-15"))

	found, err := repo.FindByID(ctx, userID, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.PlanTypeMonthly, found.Type)
	require.NotNil(t, found.NextPaymentDate)
	assert.Equal(t, "2024-03-15", found.NextPaymentDate.String())

	_, err = repo.FindByID(ctx, uuid.New(), plan.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestPlanRepositoryListByPatient(t *testing.T) {
	db := setupPlansTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	patientID := uuid.New()
	insertPlan(t, repo, userID, patientID, enums.PlanStatusActive, nil)
	insertPlan(t, repo, userID, patientID, enums.PlanStatusCompleted, nil)
	insertPlan(t, repo, userID, uuid.New(), enums.PlanStatusActive, nil)

	plans, err := repo.ListByPatient(ctx, userID, patientID)
	require.NoError(t, err)
	assert.Len(t, plans, 2)
}

func TestPlanRepositoryListDueForReminder(t *testing.T) {
	db := setupPlansTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	patientID := uuid.New()
	due := insertPlan(t, repo, userID, patientID, enums.PlanStatusActive, mustDate(t, "2024-03-10"))
	insertPlan(t, repo, userID, patientID, enums.PlanStatusActive, mustDate(t, "2024-04-20"))
	insertPlan(t, repo, userID, patientID, enums.PlanStatusCanceled, mustDate(t, "2024-03-10"))
	insertPlan(t, repo, userID, patientID, enums.PlanStatusActive, nil)

	from, err := types.ParseDate("2024-03-01")
	require.NoError(t, err)
	to, err := types.ParseDate("2024-03-31")
	require.NoError(t, err)

	plans, err := repo.ListDueForReminder(ctx, from, to, 50)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, due.ID, plans[0].ID)
}

func TestPlanRepositoryDelete(t *testing.T) {
	db := setupPlansTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	plan := insertPlan(t, repo, userID, uuid.New(), enums.PlanStatusActive, nil)

	deleted, err := repo.Delete(ctx, uuid.New(), plan.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = repo.Delete(ctx, userID, plan.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
}
