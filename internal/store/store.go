// Package store selects the persistence backend once at startup and hands
// out repositories bound to it.
package store

import (
	"context"
	"errors"
	"fmt"

	"go-estoque-condo/internal/config"
	"go-estoque-condo/internal/model"
	"go-estoque-condo/internal/repository"
	"go-estoque-condo/pkg/database"

	"gorm.io/gorm"
)

type Kind string

const (
	KindLocal  Kind = config.ProviderLocal
	KindHosted Kind = config.ProviderHosted
)

// ErrStaleQuantity means the product quantity changed between read and write.
var ErrStaleQuantity = errors.New("product quantity changed concurrently")

// Provider is the single persistence interface the services depend on.
type Provider interface {
	Products() repository.ProductRepository
	People() repository.PersonRepository
	OutputLogs() repository.OutputLogRepository
	Users() repository.UserRepository
	Roles() repository.RoleRepository
	Privileges() repository.PrivilegeRepository
	Residents() repository.ResidentRepository
	Payments() repository.PaymentRepository
	Expenses() repository.ExpenseRepository

	// RecordOutput sets the product quantity to newQuantity and appends log in
	// one transaction, provided the stored quantity still equals
	// newQuantity + log.Quantity. Otherwise nothing is written and
	// ErrStaleQuantity is returned.
	RecordOutput(ctx context.Context, log *model.OutputLog, newQuantity int) error

	Migrate(ctx context.Context) error
	Kind() Kind
	Close() error
}

type gormProvider struct {
	db   *gorm.DB
	kind Kind

	products   repository.ProductRepository
	people     repository.PersonRepository
	outputLogs repository.OutputLogRepository
	users      repository.UserRepository
	roles      repository.RoleRepository
	privileges repository.PrivilegeRepository
	residents  repository.ResidentRepository
	payments   repository.PaymentRepository
	expenses   repository.ExpenseRepository
}

// Open builds the provider named by cfg.Provider.
func Open(cfg config.DatabaseConfig) (Provider, error) {
	switch cfg.Provider {
	case config.ProviderLocal:
		return OpenLocal(cfg.Path, cfg.LogMode)
	case config.ProviderHosted:
		return OpenHosted(cfg.PostgresDSN(), cfg.LogMode)
	}
	return nil, fmt.Errorf("unknown database provider %q", cfg.Provider)
}

// OpenLocal opens the embedded SQLite store at path.
func OpenLocal(path string, logMode bool) (Provider, error) {
	db, err := database.ConnectSQLite(path, logMode)
	if err != nil {
		return nil, err
	}
	return New(db, KindLocal), nil
}

// OpenHosted connects to a hosted PostgreSQL database.
func OpenHosted(dsn string, logMode bool) (Provider, error) {
	db, err := database.ConnectPostgres(dsn, logMode)
	if err != nil {
		return nil, err
	}
	return New(db, KindHosted), nil
}

// New wraps an already opened connection.
func New(db *gorm.DB, kind Kind) Provider {
	return &gormProvider{
		db:         db,
		kind:       kind,
		products:   repository.NewProductRepo(db),
		people:     repository.NewPersonRepo(db),
		outputLogs: repository.NewOutputLogRepo(db),
		users:      repository.NewUserRepo(db),
		roles:      repository.NewRoleRepo(db),
		privileges: repository.NewPrivilegeRepo(db),
		residents:  repository.NewResidentRepo(db),
		payments:   repository.NewPaymentRepo(db),
		expenses:   repository.NewExpenseRepo(db),
	}
}

func (p *gormProvider) Products() repository.ProductRepository     { return p.products }
func (p *gormProvider) People() repository.PersonRepository        { return p.people }
func (p *gormProvider) OutputLogs() repository.OutputLogRepository { return p.outputLogs }
func (p *gormProvider) Users() repository.UserRepository           { return p.users }
func (p *gormProvider) Roles() repository.RoleRepository           { return p.roles }
func (p *gormProvider) Privileges() repository.PrivilegeRepository { return p.privileges }
func (p *gormProvider) Residents() repository.ResidentRepository   { return p.residents }
func (p *gormProvider) Payments() repository.PaymentRepository     { return p.payments }
func (p *gormProvider) Expenses() repository.ExpenseRepository     { return p.expenses }
func (p *gormProvider) Kind() Kind                                 { return p.kind }

func (p *gormProvider) RecordOutput(ctx context.Context, log *model.OutputLog, newQuantity int) error {
	if newQuantity < 0 {
		return fmt.Errorf("record output: negative quantity %d", newQuantity)
	}
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := p.products.CompareAndSetQuantity(tx, log.ProductID, newQuantity+log.Quantity, newQuantity, log.CreatedBy)
		if err != nil {
			return err
		}
		if !ok {
			return ErrStaleQuantity
		}
		return p.outputLogs.Create(tx, log)
	})
}

func (p *gormProvider) Migrate(ctx context.Context) error {
	return p.db.WithContext(ctx).AutoMigrate(
		&model.Privilege{},
		&model.Role{},
		&model.User{},
		&model.Product{},
		&model.Person{},
		&model.OutputLog{},
		&model.Resident{},
		&model.Payment{},
		&model.Expense{},
	)
}

func (p *gormProvider) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
