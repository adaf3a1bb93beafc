package finance

import (
	"context"

	"github.com/appnutry/nutry-backend/pkg/db/models"
	"github.com/appnutry/nutry-backend/pkg/pagination"
	"github.com/appnutry/nutry-backend/pkg/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes persistence helpers for payments and expenses.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreatePayment(ctx context.Context, payment *models.Payment) error
	ListPayments(ctx context.Context, params listParams) ([]models.Payment, *pagination.Cursor, error)
	DeletePayment(ctx context.Context, userID, paymentID uuid.UUID) (bool, error)
	CreateExpense(ctx context.Context, expense *models.Expense) error
	ListExpenses(ctx context.Context, params listParams) ([]models.Expense, *pagination.Cursor, error)
	DeleteExpense(ctx context.Context, userID, expenseID uuid.UUID) (bool, error)
	LedgerSources(ctx context.Context, params ledgerParams) ([]PaymentWithPatient, []models.Expense, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a finance repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

type listParams struct {
	UserID uuid.UUID
	Limit  int
	Cursor *pagination.Cursor
}

type ledgerParams struct {
	UserID uuid.UUID
	From   *types.Date
	To     *types.Date
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) CreatePayment(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *repositoryImpl) ListPayments(ctx context.Context, params listParams) ([]models.Payment, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).Model(&models.Payment{}).Where("user_id = ?", params.UserID)
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var payments []models.Payment
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&payments).Error; err != nil {
		return nil, nil, err
	}

	if len(payments) > normalized {
		payments = payments[:normalized]
		last := payments[len(payments)-1]
		return payments, &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}, nil
	}
	return payments, nil, nil
}

func (r *repositoryImpl) DeletePayment(ctx context.Context, userID, paymentID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", paymentID, userID).
		Delete(&models.Payment{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repositoryImpl) CreateExpense(ctx context.Context, expense *models.Expense) error {
	return r.db.WithContext(ctx).Create(expense).Error
}

func (r *repositoryImpl) ListExpenses(ctx context.Context, params listParams) ([]models.Expense, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).Model(&models.Expense{}).Where("user_id = ?", params.UserID)
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var expenses []models.Expense
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&expenses).Error; err != nil {
		return nil, nil, err
	}

	if len(expenses) > normalized {
		expenses = expenses[:normalized]
		last := expenses[len(expenses)-1]
		return expenses, &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}, nil
	}
	return expenses, nil, nil
}

func (r *repositoryImpl) DeleteExpense(ctx context.Context, userID, expenseID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", expenseID, userID).
		Delete(&models.Expense{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// LedgerSources loads every payment and expense for the user inside the
// optional date window, resolving patient names in a second query so deleted
// patients simply come back unnamed.
func (r *repositoryImpl) LedgerSources(ctx context.Context, params ledgerParams) ([]PaymentWithPatient, []models.Expense, error) {
	paymentQuery := r.db.WithContext(ctx).Where("user_id = ?", params.UserID)
	expenseQuery := r.db.WithContext(ctx).Where("user_id = ?", params.UserID)
	if params.From != nil {
		paymentQuery = paymentQuery.Where("paid_at >= ?", *params.From)
		expenseQuery = expenseQuery.Where("incurred_at >= ?", *params.From)
	}
	if params.To != nil {
		paymentQuery = paymentQuery.Where("paid_at <= ?", *params.To)
		expenseQuery = expenseQuery.Where("incurred_at <= ?", *params.To)
	}

	var payments []models.Payment
	if err := paymentQuery.Order("paid_at DESC, id DESC").Find(&payments).Error; err != nil {
		return nil, nil, err
	}
	var expenses []models.Expense
	if err := expenseQuery.Order("incurred_at DESC, id DESC").Find(&expenses).Error; err != nil {
		return nil, nil, err
	}

	names, err := r.patientNames(ctx, payments)
	if err != nil {
		return nil, nil, err
	}

	entries := make([]PaymentWithPatient, 0, len(payments))
	for _, payment := range payments {
		entry := PaymentWithPatient{Payment: payment}
		if payment.PatientID != nil {
			entry.PatientName = names[*payment.PatientID]
		}
		entries = append(entries, entry)
	}
	return entries, expenses, nil
}

func (r *repositoryImpl) patientNames(ctx context.Context, payments []models.Payment) (map[uuid.UUID]string, error) {
	ids := make([]uuid.UUID, 0, len(payments))
	seen := make(map[uuid.UUID]struct{}, len(payments))
	for _, payment := range payments {
		if payment.PatientID == nil {
			continue
		}
		if _, ok := seen[*payment.PatientID]; ok {
			continue
		}
		seen[*payment.PatientID] = struct{}{}
		ids = append(ids, *payment.PatientID)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	var patients []models.Patient
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&patients).Error; err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(patients))
	for _, patient := range patients {
		names[patient.ID] = patient.Name
	}
	return names, nil
}
