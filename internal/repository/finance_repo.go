package repository

import (
	"context"

	"go-estoque-condo/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ResidentRepository interface {
	Create(ctx context.Context, resident *model.Resident) error
	FindAll(ctx context.Context) ([]model.Resident, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Resident, error)
	Update(ctx context.Context, resident *model.Resident) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
	FindAll(ctx context.Context) ([]model.Payment, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Payment, error)
	Update(ctx context.Context, payment *model.Payment) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ExpenseRepository interface {
	Create(ctx context.Context, expense *model.Expense) error
	FindAll(ctx context.Context) ([]model.Expense, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Expense, error)
	Update(ctx context.Context, expense *model.Expense) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// crudRepo serves the finance records, which share the same plain CRUD shape.
type crudRepo[T any] struct {
	db    *gorm.DB
	order string
}

func NewResidentRepo(db *gorm.DB) ResidentRepository {
	return &crudRepo[model.Resident]{db: db, order: "apartment_number ASC, owner_name ASC"}
}

func NewPaymentRepo(db *gorm.DB) PaymentRepository {
	return &crudRepo[model.Payment]{db: db, order: "date DESC, created_at DESC"}
}

func NewExpenseRepo(db *gorm.DB) ExpenseRepository {
	return &crudRepo[model.Expense]{db: db, order: "date DESC, created_at DESC"}
}

func (r *crudRepo[T]) Create(ctx context.Context, value *T) error {
	return r.db.WithContext(ctx).Create(value).Error
}

func (r *crudRepo[T]) FindAll(ctx context.Context) ([]T, error) {
	var values []T
	err := r.db.WithContext(ctx).Order(r.order).Find(&values).Error
	return values, err
}

func (r *crudRepo[T]) FindByID(ctx context.Context, id uuid.UUID) (*T, error) {
	var value T
	if err := r.db.WithContext(ctx).First(&value, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &value, nil
}

func (r *crudRepo[T]) Update(ctx context.Context, value *T) error {
	return updateAll(r.db.WithContext(ctx), value)
}

func (r *crudRepo[T]) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID[T](r.db.WithContext(ctx), id)
}
