package service

import (
	"context"
	"fmt"
	"strings"

	"go-estoque-condo/internal/model"
	"go-estoque-condo/internal/store"
	"go-estoque-condo/internal/ws"
	"go-estoque-condo/pkg/password"

	"github.com/google/uuid"
)

type UserService interface {
	CreateUser(ctx context.Context, req *CreateUserRequest, actor Actor) (*model.User, error)
	UpdateUser(ctx context.Context, userID uuid.UUID, req *UpdateUserRequest, actor Actor) (*model.User, error)
	DeleteUser(ctx context.Context, userID uuid.UUID, actor Actor) error
	GetAllUsers(ctx context.Context) ([]model.UserResponse, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*model.UserResponse, error)
}

type CreateUserRequest struct {
	Username        string  `json:"username" validate:"required,min=3,max=100"`
	Email           *string `json:"email" validate:"omitempty,email"`
	Password        string  `json:"password"`
	FullName        string  `json:"full_name"`
	RoleID          uint    `json:"role_id" validate:"required"`
	ApartmentNumber *int    `json:"apartment_number" validate:"omitempty,gt=0"`
}

type UpdateUserRequest struct {
	Username        string  `json:"username" validate:"required,min=3,max=100"`
	Email           *string `json:"email" validate:"omitempty,email"`
	Password        *string `json:"password,omitempty"` // empty keeps the current one
	FullName        string  `json:"full_name"`
	RoleID          uint    `json:"role_id" validate:"required"`
	ApartmentNumber *int    `json:"apartment_number" validate:"omitempty,gt=0"`
	IsActive        *bool   `json:"is_active"`
}

type userService struct {
	store    store.Provider
	hasher   password.Hasher
	notifier Notifier
}

func NewUserService(p store.Provider, hasher password.Hasher, notifier Notifier) UserService {
	return &userService{
		store:    p,
		hasher:   hasher,
		notifier: notifierOrNop(notifier),
	}
}

func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*email)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// secretFor hashes a new password unless it already is a hash. An empty
// password stays empty.
func (s *userService) secretFor(plain string) (string, error) {
	if plain == "" || password.IsHashed(plain) {
		return plain, nil
	}
	if err := checkPassword(plain); err != nil {
		return "", err
	}
	return s.hasher.Hash(plain)
}

func (s *userService) CreateUser(ctx context.Context, req *CreateUserRequest, actor Actor) (*model.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = normalizeEmail(req.Email)
	if err := validationError(req); err != nil {
		return nil, err
	}

	taken, err := s.store.Users().ExistsIdentifier(ctx, req.Username, req.Email, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: username or email", ErrDuplicateIdentifier)
	}

	role, err := s.store.Roles().FindByID(ctx, req.RoleID)
	if err != nil {
		return nil, notFound("role", err)
	}

	secret, err := s.secretFor(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:        req.Username,
		Email:           req.Email,
		Password:        secret,
		FullName:        req.FullName,
		RoleID:          &role.ID,
		ApartmentNumber: req.ApartmentNumber,
		IsActive:        true,
	}
	user.CreatedBy = actor.ID
	user.UpdatedBy = actor.ID

	if err := s.store.Users().Create(ctx, user); err != nil {
		return nil, storeError(err)
	}
	user.Role = role

	s.notifier.Publish(ws.Event{Resource: "users", Action: "created", ID: user.ID.String(), Actor: actor.Name})
	return user, nil
}

func (s *userService) UpdateUser(ctx context.Context, userID uuid.UUID, req *UpdateUserRequest, actor Actor) (*model.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = normalizeEmail(req.Email)
	if err := validationError(req); err != nil {
		return nil, err
	}

	user, err := s.store.Users().FindByID(ctx, userID)
	if err != nil {
		return nil, notFound("user", err)
	}

	taken, err := s.store.Users().ExistsIdentifier(ctx, req.Username, req.Email, userID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: username or email", ErrDuplicateIdentifier)
	}

	role, err := s.store.Roles().FindByID(ctx, req.RoleID)
	if err != nil {
		return nil, notFound("role", err)
	}

	user.Username = req.Username
	user.Email = req.Email
	user.FullName = req.FullName
	user.RoleID = &role.ID
	user.Role = role
	user.ApartmentNumber = req.ApartmentNumber
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	user.UpdatedBy = actor.ID

	if req.Password != nil && *req.Password != "" {
		secret, err := s.secretFor(*req.Password)
		if err != nil {
			return nil, err
		}
		user.Password = secret
	}

	if err := s.store.Users().Update(ctx, user); err != nil {
		return nil, storeError(notFound("user", err))
	}

	s.notifier.Publish(ws.Event{Resource: "users", Action: "updated", ID: user.ID.String(), Actor: actor.Name})
	return user, nil
}

// DeleteUser removes an account other than the caller's own.
func (s *userService) DeleteUser(ctx context.Context, userID uuid.UUID, actor Actor) error {
	if actor.ID == userID.String() {
		return ErrSelfDelete
	}
	if err := s.store.Users().Delete(ctx, userID); err != nil {
		return notFound("user", err)
	}
	s.notifier.Publish(ws.Event{Resource: "users", Action: "deleted", ID: userID.String(), Actor: actor.Name})
	return nil
}

func (s *userService) GetAllUsers(ctx context.Context) ([]model.UserResponse, error) {
	users, err := s.store.Users().FindAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]model.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}
	return responses, nil
}

func (s *userService) GetUserByID(ctx context.Context, id uuid.UUID) (*model.UserResponse, error) {
	user, err := s.store.Users().FindByID(ctx, id)
	if err != nil {
		return nil, notFound("user", err)
	}
	response := user.ToResponse()
	return &response, nil
}
