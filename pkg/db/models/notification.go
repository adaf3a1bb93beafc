package models

import (
	"time"

	"github.com/appnutry/nutry-backend/pkg/enums"
	"github.com/google/uuid"
)

// Notification stores in-app notification payloads scoped to a professional.
type Notification struct {
	ID          uuid.UUID                `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID                `gorm:"column:user_id;type:uuid;not null;index"`
	PatientID   *uuid.UUID               `gorm:"column:patient_id;type:uuid"`
	PlanID      *uuid.UUID               `gorm:"column:plan_id;type:uuid"`
	Type        enums.NotificationType   `gorm:"column:type;type:notification_type;not null"`
	Status      enums.NotificationStatus `gorm:"column:status;type:notification_status;not null;default:'pending'"`
	Title       string                   `gorm:"type:text;not null"`
	Message     string                   `gorm:"type:text;not null"`
	ScheduledAt time.Time                `gorm:"column:scheduled_at;type:timestamptz;not null"`
	ReadAt      *time.Time               `gorm:"column:read_at;type:timestamptz"`
	CreatedAt   time.Time                `gorm:"column:created_at;autoCreateTime"`
}
