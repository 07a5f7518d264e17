package repository

import (
	"context"

	"go-estoque-condo/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindAll(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindBySKU(ctx context.Context, sku string) (*model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	// UpdateIfQuantity writes product only while the stored quantity still
	// equals expected.
	UpdateIfQuantity(ctx context.Context, product *model.Product, expected int) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// CompareAndSetQuantity runs on tx so it can join a caller's transaction.
	CompareAndSetQuantity(tx *gorm.DB, id uuid.UUID, expected, newQuantity int, updatedBy string) (bool, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepo) FindAll(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindBySKU(ctx context.Context, sku string) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).First(&product, "sku = ?", sku).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) Update(ctx context.Context, product *model.Product) error {
	return updateAll(r.db.WithContext(ctx), product)
}

func (r *productRepo) UpdateIfQuantity(ctx context.Context, product *model.Product, expected int) (bool, error) {
	res := r.db.WithContext(ctx).Model(product).
		Where("quantity = ?", expected).
		Select("*").Omit("id", "created_at", "created_by").
		Updates(product)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID[model.Product](r.db.WithContext(ctx), id)
}

func (r *productRepo) CompareAndSetQuantity(tx *gorm.DB, id uuid.UUID, expected, newQuantity int, updatedBy string) (bool, error) {
	res := tx.Model(&model.Product{}).
		Where("id = ? AND quantity = ?", id, expected).
		Updates(map[string]interface{}{
			"quantity":   newQuantity,
			"updated_by": updatedBy,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
