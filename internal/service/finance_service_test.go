package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-estoque-condo/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func newFinance(t *testing.T) (FinanceService, *recordingNotifier) {
	t.Helper()
	n := &recordingNotifier{}
	return NewFinanceService(setupTestStore(t), []int{1, 2, 3}, n), n
}

func TestCreatePaymentFillsPeriod(t *testing.T) {
	ctx := context.Background()
	svc, n := newFinance(t)

	p := &model.Payment{ApartmentNumber: 2, Amount: decimal.NewFromInt(350), Date: model.NewDate(2024, time.March, 15)}
	if err := svc.CreatePayment(ctx, p, testActor); err != nil {
		t.Fatalf("CreatePayment failed: %v", err)
	}
	if p.Month != 3 || p.Year != 2024 {
		t.Errorf("period = %d/%d, want 3/2024", p.Month, p.Year)
	}

	explicit := &model.Payment{ApartmentNumber: 1, Amount: decimal.NewFromInt(350), Date: model.NewDate(2024, time.April, 2), Month: 3, Year: 2024}
	if err := svc.CreatePayment(ctx, explicit, testActor); err != nil {
		t.Fatal(err)
	}

	march, err := svc.ListPayments(ctx, intPtr(3), intPtr(2024))
	if err != nil {
		t.Fatal(err)
	}
	if len(march) != 2 {
		t.Errorf("march payments = %d, want 2", len(march))
	}
	if n.count("payments", "created") != 2 {
		t.Error("expected a reload event per payment")
	}
}

func TestPaymentValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFinance(t)
	date := model.NewDate(2024, time.March, 15)

	tests := []struct {
		name string
		p    model.Payment
	}{
		{"apartment outside roster", model.Payment{ApartmentNumber: 24, Amount: decimal.NewFromInt(1), Date: date}},
		{"missing date", model.Payment{ApartmentNumber: 1, Amount: decimal.NewFromInt(1)}},
		{"negative amount", model.Payment{ApartmentNumber: 1, Amount: decimal.NewFromInt(-1), Date: date}},
		{"month out of range", model.Payment{ApartmentNumber: 1, Amount: decimal.NewFromInt(1), Date: date, Month: 13}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.p
			if err := svc.CreatePayment(ctx, &p, testActor); !errors.Is(err, ErrValidation) {
				t.Errorf("got %v, want ErrValidation", err)
			}
		})
	}
}

func TestResidentCRUD(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFinance(t)

	r := &model.Resident{OwnerName: " Carla ", ApartmentNumber: 3}
	if err := svc.CreateResident(ctx, r, testActor); err != nil {
		t.Fatalf("CreateResident failed: %v", err)
	}
	if r.OwnerName != "Carla" {
		t.Errorf("owner not trimmed: %q", r.OwnerName)
	}

	if err := svc.CreateResident(ctx, &model.Resident{OwnerName: "Fora", ApartmentNumber: 40}, testActor); !errors.Is(err, ErrValidation) {
		t.Errorf("apartment outside roster: got %v", err)
	}

	updated, err := svc.UpdateResident(ctx, r.ID, &model.Resident{OwnerName: "Carla", TenantName: "Davi", ApartmentNumber: 3}, testActor)
	if err != nil {
		t.Fatal(err)
	}
	if updated.TenantName != "Davi" {
		t.Errorf("tenant = %q", updated.TenantName)
	}

	if err := svc.DeleteResident(ctx, r.ID, testActor); err != nil {
		t.Fatal(err)
	}
	if err := svc.DeleteResident(ctx, r.ID, testActor); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: got %v", err)
	}
	if _, err := svc.UpdateResident(ctx, uuid.New(), r, testActor); !errors.Is(err, ErrNotFound) {
		t.Errorf("update unknown: got %v", err)
	}
}

func TestFinanceSummary(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFinance(t)
	march := model.NewDate(2024, time.March, 10)

	for _, p := range []*model.Payment{
		{ApartmentNumber: 1, Amount: decimal.RequireFromString("350.10"), Date: march},
		{ApartmentNumber: 3, Amount: decimal.RequireFromString("349.90"), Date: march},
		{ApartmentNumber: 2, Amount: decimal.NewFromInt(350), Date: model.NewDate(2024, time.February, 10)},
	} {
		if err := svc.CreatePayment(ctx, p, testActor); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range []*model.Expense{
		{Description: "Faxina", Category: "Limpeza", Amount: decimal.NewFromInt(200), Date: march},
		{Description: "Conta", Category: "Água", Amount: decimal.NewFromInt(120), Date: model.NewDate(2024, time.March, 25)},
	} {
		if err := svc.CreateExpense(ctx, e, testActor); err != nil {
			t.Fatal(err)
		}
	}

	summary, err := svc.Summary(ctx, intPtr(3), intPtr(2024))
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if summary.Delinquency.PaidCount != 2 || summary.Delinquency.DelinquentCount != 1 {
		t.Errorf("delinquency = %+v", summary.Delinquency)
	}
	if !summary.Balance.Income.Equal(decimal.NewFromInt(700)) || !summary.Balance.Balance.Equal(decimal.NewFromInt(380)) {
		t.Errorf("balance = %+v", summary.Balance)
	}
	if len(summary.ByCategory) != 2 || summary.ByCategory[0].Category != "Limpeza" {
		t.Errorf("categories = %+v", summary.ByCategory)
	}

	report, err := svc.Report(ctx, intPtr(3), intPtr(2024))
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Payments) != 2 || len(report.Expenses) != 2 {
		t.Errorf("report rows = %d payments / %d expenses", len(report.Payments), len(report.Expenses))
	}

	if _, err := svc.Summary(ctx, intPtr(13), nil); !errors.Is(err, ErrValidation) {
		t.Errorf("month 13: got %v", err)
	}
}

func TestExpenseValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFinance(t)

	if err := svc.CreateExpense(ctx, &model.Expense{Description: "Sem data", Amount: decimal.NewFromInt(1)}, testActor); !errors.Is(err, ErrValidation) {
		t.Errorf("missing date: got %v", err)
	}
	if err := svc.CreateExpense(ctx, &model.Expense{Description: "  ", Amount: decimal.NewFromInt(1), Date: model.NewDate(2024, time.March, 1)}, testActor); !errors.Is(err, ErrValidation) {
		t.Errorf("blank description: got %v", err)
	}
}
