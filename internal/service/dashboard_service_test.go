package service

import (
	"context"
	"testing"
	"time"

	"go-estoque-condo/internal/model"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func TestDashboardStats(t *testing.T) {
	ctx := context.Background()
	p := setupTestStore(t)
	inv := NewInventoryService(p, nil, zap.NewNop())
	dash := NewDashboardService(p, 10)

	mustCreateProduct(t, inv, &model.Product{SKU: "A", Name: "Alicate", Quantity: 0, Price: decimal.RequireFromString("12.50")})
	mustCreateProduct(t, inv, &model.Product{SKU: "B", Name: "Broca", Quantity: 4, Price: decimal.RequireFromString("2.25")})
	cabo := mustCreateProduct(t, inv, &model.Product{SKU: "C", Name: "Cabo", Quantity: 20, Price: decimal.RequireFromString("1.10")})
	person := mustCreatePerson(t, inv, "Hugo")

	if _, err := inv.RecordOutput(ctx, &OutputRequest{ProductID: cabo.ID, PersonID: person.ID, Quantity: 5}, testActor); err != nil {
		t.Fatal(err)
	}

	stats, err := dash.GetDashboardStats(ctx)
	if err != nil {
		t.Fatalf("GetDashboardStats failed: %v", err)
	}
	if stats.TotalProducts != 3 || stats.OutOfStockCount != 1 || stats.LowStockCount != 1 {
		t.Errorf("counts = %+v", stats)
	}
	if stats.TotalUnits != 19 {
		t.Errorf("units = %d, want 19", stats.TotalUnits)
	}
	// 4 * 2.25 + 15 * 1.10
	if !stats.TotalValuation.Equal(decimal.RequireFromString("25.5")) {
		t.Errorf("valuation = %s, want 25.50", stats.TotalValuation)
	}
	if stats.TotalPeople != 1 || stats.TotalOutputs != 1 {
		t.Errorf("people/outputs = %d/%d", stats.TotalPeople, stats.TotalOutputs)
	}
}

func TestOutputMovement(t *testing.T) {
	ctx := context.Background()
	p := setupTestStore(t)
	inv := NewInventoryService(p, nil, zap.NewNop())
	dash := NewDashboardService(p, 10)

	product := mustCreateProduct(t, inv, &model.Product{SKU: "M", Name: "Martelo", Quantity: 10})
	person := mustCreatePerson(t, inv, "Iris")
	for _, q := range []int{2, 3} {
		if _, err := inv.RecordOutput(ctx, &OutputRequest{ProductID: product.ID, PersonID: person.ID, Quantity: q}, testActor); err != nil {
			t.Fatal(err)
		}
	}

	days, err := dash.GetOutputMovement(ctx, 7)
	if err != nil {
		t.Fatalf("GetOutputMovement failed: %v", err)
	}
	if len(days) != 7 {
		t.Fatalf("got %d days, want 7", len(days))
	}
	today := days[len(days)-1]
	if today.Date != time.Now().UTC().Format("2006-01-02") {
		t.Errorf("last day = %s", today.Date)
	}
	if today.Outputs != 2 || today.Quantity != 5 {
		t.Errorf("today = %+v, want 2 outputs / 5 units", today)
	}
	for _, d := range days[:6] {
		if d.Outputs != 0 {
			t.Errorf("unexpected outputs on %s", d.Date)
		}
	}

	if def, _ := dash.GetOutputMovement(ctx, 0); len(def) != 7 {
		t.Errorf("default window = %d days, want 7", len(def))
	}
}
