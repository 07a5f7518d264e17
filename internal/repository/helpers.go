package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// updateAll writes every column of an existing row, keeping its creation
// audit fields. A missing row yields gorm.ErrRecordNotFound instead of an insert.
func updateAll(db *gorm.DB, value interface{}) error {
	res := db.Model(value).Select("*").Omit("id", "created_at", "created_by").Updates(value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func deleteByID[T any](db *gorm.DB, id uuid.UUID) error {
	res := db.Delete(new(T), "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
