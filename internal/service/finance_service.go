package service

import (
	"context"
	"fmt"
	"strings"

	"go-estoque-condo/internal/model"
	"go-estoque-condo/internal/store"
	"go-estoque-condo/internal/ws"

	"github.com/google/uuid"
)

type FinanceService interface {
	ListResidents(ctx context.Context) ([]model.Resident, error)
	CreateResident(ctx context.Context, req *model.Resident, actor Actor) error
	UpdateResident(ctx context.Context, id uuid.UUID, req *model.Resident, actor Actor) (*model.Resident, error)
	DeleteResident(ctx context.Context, id uuid.UUID, actor Actor) error

	ListPayments(ctx context.Context, month, year *int) ([]model.Payment, error)
	CreatePayment(ctx context.Context, req *model.Payment, actor Actor) error
	UpdatePayment(ctx context.Context, id uuid.UUID, req *model.Payment, actor Actor) (*model.Payment, error)
	DeletePayment(ctx context.Context, id uuid.UUID, actor Actor) error

	ListExpenses(ctx context.Context, month, year *int) ([]model.Expense, error)
	CreateExpense(ctx context.Context, req *model.Expense, actor Actor) error
	UpdateExpense(ctx context.Context, id uuid.UUID, req *model.Expense, actor Actor) (*model.Expense, error)
	DeleteExpense(ctx context.Context, id uuid.UUID, actor Actor) error

	Summary(ctx context.Context, month, year *int) (*FinanceSummary, error)
	Report(ctx context.Context, month, year *int) (*FinanceReport, error)
	Roster() []int
}

// FinanceSummary aggregates one period; nil month/year span all of them.
type FinanceSummary struct {
	Month       *int            `json:"month,omitempty"`
	Year        *int            `json:"year,omitempty"`
	Delinquency Delinquency     `json:"delinquency"`
	Balance     Balance         `json:"balance"`
	ByCategory  []CategoryTotal `json:"expenses_by_category"`
}

// FinanceReport is the summary plus the period's rows.
type FinanceReport struct {
	Summary  *FinanceSummary
	Payments []model.Payment
	Expenses []model.Expense
}

type financeService struct {
	store    store.Provider
	roster   []int
	notifier Notifier
}

func NewFinanceService(p store.Provider, roster []int, notifier Notifier) FinanceService {
	return &financeService{
		store:    p,
		roster:   roster,
		notifier: notifierOrNop(notifier),
	}
}

func (s *financeService) Roster() []int {
	return append([]int(nil), s.roster...)
}

func (s *financeService) inRoster(apartment int) bool {
	for _, apt := range s.roster {
		if apt == apartment {
			return true
		}
	}
	return false
}

func (s *financeService) publish(resource, action string, id uuid.UUID, actor Actor) {
	s.notifier.Publish(ws.Event{Resource: resource, Action: action, ID: id.String(), Actor: actor.Name})
}

func (s *financeService) ListResidents(ctx context.Context) ([]model.Resident, error) {
	return s.store.Residents().FindAll(ctx)
}

func (s *financeService) checkResident(r *model.Resident) error {
	r.OwnerName = strings.TrimSpace(r.OwnerName)
	r.TenantName = strings.TrimSpace(r.TenantName)
	if err := validationError(r); err != nil {
		return err
	}
	if !s.inRoster(r.ApartmentNumber) {
		return invalid("apartment %d is not part of the condominium", r.ApartmentNumber)
	}
	return nil
}

func (s *financeService) CreateResident(ctx context.Context, req *model.Resident, actor Actor) error {
	if err := s.checkResident(req); err != nil {
		return err
	}
	req.CreatedBy = actor.ID
	req.UpdatedBy = actor.ID
	if err := s.store.Residents().Create(ctx, req); err != nil {
		return storeError(err)
	}
	s.publish("residents", "created", req.ID, actor)
	return nil
}

func (s *financeService) UpdateResident(ctx context.Context, id uuid.UUID, req *model.Resident, actor Actor) (*model.Resident, error) {
	existing, err := s.store.Residents().FindByID(ctx, id)
	if err != nil {
		return nil, notFound("resident", err)
	}
	if err := s.checkResident(req); err != nil {
		return nil, err
	}
	existing.OwnerName = req.OwnerName
	existing.TenantName = req.TenantName
	existing.ApartmentNumber = req.ApartmentNumber
	existing.Phone = req.Phone
	existing.UpdatedBy = actor.ID
	if err := s.store.Residents().Update(ctx, existing); err != nil {
		return nil, notFound("resident", err)
	}
	s.publish("residents", "updated", id, actor)
	return existing, nil
}

func (s *financeService) DeleteResident(ctx context.Context, id uuid.UUID, actor Actor) error {
	if err := s.store.Residents().Delete(ctx, id); err != nil {
		return notFound("resident", err)
	}
	s.publish("residents", "deleted", id, actor)
	return nil
}

func (s *financeService) ListPayments(ctx context.Context, month, year *int) ([]model.Payment, error) {
	payments, err := s.store.Payments().FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return FilterByPeriod(payments, month, year), nil
}

// checkPayment validates a payment and fills an absent month or year from
// its date.
func (s *financeService) checkPayment(p *model.Payment) error {
	if err := validationError(p); err != nil {
		return err
	}
	if p.Date.IsZero() {
		return invalid("date is required")
	}
	if !s.inRoster(p.ApartmentNumber) {
		return invalid("apartment %d is not part of the condominium", p.ApartmentNumber)
	}
	if p.Month == 0 {
		p.Month = int(p.Date.Month())
	}
	if p.Year == 0 {
		p.Year = p.Date.Year()
	}
	return nil
}

func (s *financeService) CreatePayment(ctx context.Context, req *model.Payment, actor Actor) error {
	if err := s.checkPayment(req); err != nil {
		return err
	}
	req.CreatedBy = actor.ID
	req.UpdatedBy = actor.ID
	if err := s.store.Payments().Create(ctx, req); err != nil {
		return storeError(err)
	}
	s.publish("payments", "created", req.ID, actor)
	return nil
}

func (s *financeService) UpdatePayment(ctx context.Context, id uuid.UUID, req *model.Payment, actor Actor) (*model.Payment, error) {
	existing, err := s.store.Payments().FindByID(ctx, id)
	if err != nil {
		return nil, notFound("payment", err)
	}
	if err := s.checkPayment(req); err != nil {
		return nil, err
	}
	existing.ApartmentNumber = req.ApartmentNumber
	existing.Amount = req.Amount
	existing.Date = req.Date
	existing.Month = req.Month
	existing.Year = req.Year
	existing.Description = req.Description
	existing.UpdatedBy = actor.ID
	if err := s.store.Payments().Update(ctx, existing); err != nil {
		return nil, notFound("payment", err)
	}
	s.publish("payments", "updated", id, actor)
	return existing, nil
}

func (s *financeService) DeletePayment(ctx context.Context, id uuid.UUID, actor Actor) error {
	if err := s.store.Payments().Delete(ctx, id); err != nil {
		return notFound("payment", err)
	}
	s.publish("payments", "deleted", id, actor)
	return nil
}

func (s *financeService) ListExpenses(ctx context.Context, month, year *int) ([]model.Expense, error) {
	expenses, err := s.store.Expenses().FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return FilterByPeriod(expenses, month, year), nil
}

func checkExpense(e *model.Expense) error {
	e.Description = strings.TrimSpace(e.Description)
	e.Category = strings.TrimSpace(e.Category)
	if err := validationError(e); err != nil {
		return err
	}
	if e.Date.IsZero() {
		return invalid("date is required")
	}
	return nil
}

func (s *financeService) CreateExpense(ctx context.Context, req *model.Expense, actor Actor) error {
	if err := checkExpense(req); err != nil {
		return err
	}
	req.CreatedBy = actor.ID
	req.UpdatedBy = actor.ID
	if err := s.store.Expenses().Create(ctx, req); err != nil {
		return storeError(err)
	}
	s.publish("expenses", "created", req.ID, actor)
	return nil
}

func (s *financeService) UpdateExpense(ctx context.Context, id uuid.UUID, req *model.Expense, actor Actor) (*model.Expense, error) {
	existing, err := s.store.Expenses().FindByID(ctx, id)
	if err != nil {
		return nil, notFound("expense", err)
	}
	if err := checkExpense(req); err != nil {
		return nil, err
	}
	existing.Description = req.Description
	existing.Amount = req.Amount
	existing.Category = req.Category
	existing.Date = req.Date
	existing.UpdatedBy = actor.ID
	if err := s.store.Expenses().Update(ctx, existing); err != nil {
		return nil, notFound("expense", err)
	}
	s.publish("expenses", "updated", id, actor)
	return existing, nil
}

func (s *financeService) DeleteExpense(ctx context.Context, id uuid.UUID, actor Actor) error {
	if err := s.store.Expenses().Delete(ctx, id); err != nil {
		return notFound("expense", err)
	}
	s.publish("expenses", "deleted", id, actor)
	return nil
}

func (s *financeService) Summary(ctx context.Context, month, year *int) (*FinanceSummary, error) {
	report, err := s.Report(ctx, month, year)
	if err != nil {
		return nil, err
	}
	return report.Summary, nil
}

func (s *financeService) Report(ctx context.Context, month, year *int) (*FinanceReport, error) {
	if month != nil && (*month < 1 || *month > 12) {
		return nil, invalid("month must be between 1 and 12")
	}

	payments, err := s.store.Payments().FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load payments: %w", err)
	}
	expenses, err := s.store.Expenses().FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load expenses: %w", err)
	}

	return &FinanceReport{
		Summary: &FinanceSummary{
			Month:       month,
			Year:        year,
			Delinquency: ComputeDelinquency(payments, s.roster, month, year),
			Balance:     ComputeIncomeExpenseBalance(payments, expenses, month, year),
			ByCategory:  ExpensesByCategory(expenses, month, year),
		},
		Payments: FilterByPeriod(payments, month, year),
		Expenses: FilterByPeriod(expenses, month, year),
	}, nil
}
