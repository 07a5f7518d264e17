package model

import (
	"time"

	"github.com/google/uuid"
)

// OutputLog is an immutable record of stock leaving inventory. Product and
// person names are snapshots taken when the output was recorded.
type OutputLog struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	PersonID    uuid.UUID `gorm:"type:uuid;not null;index" json:"person_id" validate:"uuid_required"`
	Quantity    int       `gorm:"not null" json:"quantity" validate:"gt=0"`
	Timestamp   time.Time `gorm:"column:occurred_at;not null;index" json:"timestamp"`
	ProductName string    `gorm:"type:varchar(255)" json:"product_name"`
	PersonName  string    `gorm:"type:varchar(255)" json:"person_name"`
	CreatedBy   string    `gorm:"type:varchar(64)" json:"created_by,omitempty"`
}
