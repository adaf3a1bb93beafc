package models

import (
	"time"

	"github.com/appnutry/nutry-backend/pkg/enums"
	"github.com/appnutry/nutry-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PlanRecord stores one engagement between a professional and a patient.
// StartDate is entered by the professional; EndDate and NextPaymentDate
// are derived from the plan type and rewritten whenever type or start change.
type PlanRecord struct {
	ID              uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID        `gorm:"column:user_id;type:uuid;not null;index"`
	PatientID       uuid.UUID        `gorm:"column:patient_id;type:uuid;not null;index"`
	Type            enums.PlanType   `gorm:"column:type;type:plan_type;not null"`
	Status          enums.PlanStatus `gorm:"column:status;type:plan_status;not null;default:'active'"`
	Price           decimal.Decimal  `gorm:"column:price;type:numeric(12,2);not null"`
	StartDate       *types.Date      `gorm:"column:start_date;type:date"`
	EndDate         *types.Date      `gorm:"column:end_date;type:date"`
	NextPaymentDate *types.Date      `gorm:"column:next_payment_date;type:date"`
	Notes           *string          `gorm:"type:text"`
	CreatedAt       time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName maps the record to the plans table.
func (PlanRecord) TableName() string {
	return "plans"
}
