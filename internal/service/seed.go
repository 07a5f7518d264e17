package service

import (
	"context"
	"errors"
	"fmt"

	"go-estoque-condo/internal/model"
	"go-estoque-condo/internal/store"
	"go-estoque-condo/pkg/password"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SeedOptions struct {
	AdminUsername string
	AdminEmail    string
	AdminPassword string // empty leaves the admin without a password
}

// Seed creates the default privileges, roles and administrator when they
// don't exist yet. It is safe to run on every start.
func Seed(ctx context.Context, p store.Provider, hasher password.Hasher, opts SeedOptions, log *zap.Logger) error {
	if err := p.Privileges().SeedDefaults(ctx); err != nil {
		return fmt.Errorf("seed privileges: %w", err)
	}
	if err := p.Roles().SeedDefaults(ctx); err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}

	allPrivileges, err := p.Privileges().FindAll(ctx)
	if err != nil {
		return err
	}

	for code, codes := range model.DefaultRolePrivileges {
		role, err := p.Roles().FindByCode(ctx, code)
		if err != nil {
			return fmt.Errorf("role %s: %w", code, err)
		}
		if len(role.Privileges) > 0 {
			continue
		}
		granted := allPrivileges
		if codes != nil {
			if granted, err = p.Privileges().FindByCodes(ctx, codes); err != nil {
				return err
			}
		}
		if err := p.Roles().ReplacePrivileges(ctx, role, granted); err != nil {
			return fmt.Errorf("assign privileges to %s: %w", code, err)
		}
		log.Info("role privileges assigned", zap.String("role", code), zap.Int("privileges", len(granted)))
	}

	if opts.AdminUsername == "" {
		return nil
	}
	_, err = p.Users().FindByIdentifier(ctx, opts.AdminUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	adminRole, err := p.Roles().FindByCode(ctx, model.RoleAdmin)
	if err != nil {
		return err
	}

	admin := &model.User{
		Username: opts.AdminUsername,
		FullName: "Administrator",
		RoleID:   &adminRole.ID,
		IsActive: true,
	}
	if opts.AdminEmail != "" {
		email := opts.AdminEmail
		admin.Email = &email
	}
	if opts.AdminPassword != "" {
		if admin.Password, err = hasher.Hash(opts.AdminPassword); err != nil {
			return err
		}
	}
	admin.CreatedBy = SystemActor.ID
	admin.UpdatedBy = SystemActor.ID

	if err := p.Users().Create(ctx, admin); err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}
	if admin.Password == "" {
		log.Warn("admin user created without a password; enable the bootstrap login or run reset-password",
			zap.String("username", admin.Username))
	} else {
		log.Info("admin user created", zap.String("username", admin.Username))
	}
	return nil
}
