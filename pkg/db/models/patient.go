package models

import (
	"time"

	"github.com/appnutry/nutry-backend/pkg/types"
	"github.com/google/uuid"
)

// Patient is a person under the care of a professional.
type Patient struct {
	ID        uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID   `gorm:"column:user_id;type:uuid;not null;index"`
	Name      string      `gorm:"type:text;not null"`
	Email     *string     `gorm:"type:text"`
	Phone     *string     `gorm:"type:text"`
	BirthDate *types.Date `gorm:"column:birth_date;type:date"`
	Notes     *string     `gorm:"type:text"`
	CreatedAt time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}
