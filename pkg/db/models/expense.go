package models

import (
	"time"

	"github.com/appnutry/nutry-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense records money the professional spent running the practice.
type Expense struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index"`
	Amount      decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null"`
	Category    *string         `gorm:"type:text"`
	IncurredAt  types.Date      `gorm:"column:incurred_at;type:date;not null"`
	Description string          `gorm:"type:text;not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
