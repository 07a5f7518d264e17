package repository

import (
	"context"

	"go-estoque-condo/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	FindByIdentifier(ctx context.Context, identifier string) (*model.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	ExistsIdentifier(ctx context.Context, username string, email *string, exclude uuid.UUID) (bool, error)
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, password string) error
	ReplacePassword(ctx context.Context, userID uuid.UUID, expected, password string) (bool, error)
	FindAll(ctx context.Context) ([]model.User, error)
	UpdateTokenVersion(ctx context.Context, userID uuid.UUID, version string) error
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db}
}

// FindByIdentifier matches either the username or the email.
func (r *userRepo) FindByIdentifier(ctx context.Context, identifier string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Preload("Role.Privileges").
		Where("username = ? OR email = ?", identifier, identifier).
		Order("created_at ASC").
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Preload("Role.Privileges").First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsIdentifier reports whether another user already holds the username
// or email. Usernames and emails share one namespace since both log in.
func (r *userRepo) ExistsIdentifier(ctx context.Context, username string, email *string, exclude uuid.UUID) (bool, error) {
	idents := []string{username}
	if email != nil && *email != "" {
		idents = append(idents, *email)
	}
	var n int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("(username IN ? OR email IN ?) AND id <> ?", idents, idents, exclude).
		Count(&n).Error
	return n > 0, err
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Omit("Role").Create(user).Error
}

func (r *userRepo) Update(ctx context.Context, user *model.User) error {
	res := r.db.WithContext(ctx).Model(user).
		Select("username", "email", "password", "full_name", "role_id", "apartment_number", "is_active", "updated_by", "updated_at").
		Updates(user)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepo) UpdatePassword(ctx context.Context, userID uuid.UUID, password string) error {
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Update("password", password).Error
}

// ReplacePassword swaps the stored secret only while it still equals expected.
func (r *userRepo) ReplacePassword(ctx context.Context, userID uuid.UUID, expected, password string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND password = ?", userID, expected).
		Update("password", password)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *userRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID[model.User](r.db.WithContext(ctx), id)
}

func (r *userRepo) FindAll(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Preload("Role").Order("username ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepo) UpdateTokenVersion(ctx context.Context, userID uuid.UUID, version string) error {
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Update("token_version", version).Error
}
