package models

import (
	"time"

	"github.com/appnutry/nutry-backend/pkg/enums"
	"github.com/appnutry/nutry-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment records money received from a patient. PatientID is nullable:
// historical imports may carry payments whose patient was deleted.
type Payment struct {
	ID          uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	PatientID   *uuid.UUID          `gorm:"column:patient_id;type:uuid;index"`
	PlanID      *uuid.UUID          `gorm:"column:plan_id;type:uuid"`
	Amount      decimal.Decimal     `gorm:"column:amount;type:numeric(12,2);not null"`
	Method      enums.PaymentMethod `gorm:"column:method;type:payment_method;not null"`
	PaidAt      types.Date          `gorm:"column:paid_at;type:date;not null"`
	Description *string             `gorm:"type:text"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
