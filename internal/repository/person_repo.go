package repository

import (
	"context"

	"go-estoque-condo/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PersonRepository interface {
	Create(ctx context.Context, person *model.Person) error
	FindAll(ctx context.Context) ([]model.Person, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Person, error)
	Update(ctx context.Context, person *model.Person) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

type personRepo struct {
	db *gorm.DB
}

func NewPersonRepo(db *gorm.DB) PersonRepository {
	return &personRepo{db}
}

func (r *personRepo) Create(ctx context.Context, person *model.Person) error {
	return r.db.WithContext(ctx).Create(person).Error
}

func (r *personRepo) FindAll(ctx context.Context) ([]model.Person, error) {
	var people []model.Person
	err := r.db.WithContext(ctx).Order("name ASC").Find(&people).Error
	return people, err
}

func (r *personRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Person, error) {
	var person model.Person
	if err := r.db.WithContext(ctx).First(&person, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &person, nil
}

func (r *personRepo) Update(ctx context.Context, person *model.Person) error {
	return updateAll(r.db.WithContext(ctx), person)
}

func (r *personRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID[model.Person](r.db.WithContext(ctx), id)
}

func (r *personRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Person{}).Count(&n).Error
	return n, err
}
