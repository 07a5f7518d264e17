package repository

import (
	"context"
	"time"

	"go-estoque-condo/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OutputLogRepository is append-only: logs are never updated or deleted.
type OutputLogRepository interface {
	Create(tx *gorm.DB, log *model.OutputLog) error
	FindAll(ctx context.Context) ([]model.OutputLog, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.OutputLog, error)
	FindBetween(ctx context.Context, start, end time.Time) ([]model.OutputLog, error)
	CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
	CountByPerson(ctx context.Context, personID uuid.UUID) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type outputLogRepo struct {
	db *gorm.DB
}

func NewOutputLogRepo(db *gorm.DB) OutputLogRepository {
	return &outputLogRepo{db}
}

// Create takes *gorm.DB (tx) so the insert can share the stock update's transaction
func (r *outputLogRepo) Create(tx *gorm.DB, log *model.OutputLog) error {
	return tx.Create(log).Error
}

func (r *outputLogRepo) FindAll(ctx context.Context) ([]model.OutputLog, error) {
	var logs []model.OutputLog
	err := r.db.WithContext(ctx).Order("occurred_at DESC").Find(&logs).Error
	return logs, err
}

func (r *outputLogRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.OutputLog, error) {
	var log model.OutputLog
	if err := r.db.WithContext(ctx).First(&log, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *outputLogRepo) FindBetween(ctx context.Context, start, end time.Time) ([]model.OutputLog, error) {
	var logs []model.OutputLog
	err := r.db.WithContext(ctx).
		Where("occurred_at BETWEEN ? AND ?", start, end).
		Order("occurred_at ASC").
		Find(&logs).Error
	return logs, err
}

func (r *outputLogRepo) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.OutputLog{}).Where("product_id = ?", productID).Count(&n).Error
	return n, err
}

func (r *outputLogRepo) CountByPerson(ctx context.Context, personID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.OutputLog{}).Where("person_id = ?", personID).Count(&n).Error
	return n, err
}

func (r *outputLogRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.OutputLog{}).Count(&n).Error
	return n, err
}
