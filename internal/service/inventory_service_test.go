package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go-estoque-condo/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func newInventory(t *testing.T) (InventoryService, *recordingNotifier) {
	t.Helper()
	n := &recordingNotifier{}
	return NewInventoryService(setupTestStore(t), n, zap.NewNop()), n
}

func TestRecordOutputDecrementsAndLogs(t *testing.T) {
	ctx := context.Background()
	svc, n := newInventory(t)
	product := mustCreateProduct(t, svc, &model.Product{SKU: "X1", Name: "Mouse", Quantity: 5})
	person := mustCreatePerson(t, svc, "João")

	entry, err := svc.RecordOutput(ctx, &OutputRequest{ProductID: product.ID, PersonID: person.ID, Quantity: 5}, testActor)
	if err != nil {
		t.Fatalf("RecordOutput failed: %v", err)
	}
	if entry.ProductName != "Mouse" || entry.PersonName != "João" || entry.Quantity != 5 {
		t.Errorf("unexpected log snapshot: %+v", entry)
	}

	got, err := svc.GetProduct(ctx, product.ID)
	if err != nil {
		t.Fatalf("product should remain listed at zero stock: %v", err)
	}
	if got.Quantity != 0 {
		t.Errorf("quantity = %d, want 0", got.Quantity)
	}

	logs, _ := svc.ListOutputs(ctx)
	if len(logs) != 1 {
		t.Fatalf("logs = %d, want 1", len(logs))
	}
	if n.count("outputs", "created") != 1 {
		t.Error("expected one reload event for the output")
	}
}

func TestRecordOutputInsufficientStock(t *testing.T) {
	ctx := context.Background()
	svc, _ := newInventory(t)
	product := mustCreateProduct(t, svc, &model.Product{SKU: "X2", Name: "Teclado", Quantity: 3})
	person := mustCreatePerson(t, svc, "Ana")

	_, err := svc.RecordOutput(ctx, &OutputRequest{ProductID: product.ID, PersonID: person.ID, Quantity: 4}, testActor)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	var stockErr *InsufficientStockError
	if !errors.As(err, &stockErr) || stockErr.Available != 3 || stockErr.Requested != 4 {
		t.Errorf("unexpected error detail: %v", err)
	}

	got, _ := svc.GetProduct(ctx, product.ID)
	if got.Quantity != 3 {
		t.Errorf("quantity changed: %d", got.Quantity)
	}
	if logs, _ := svc.ListOutputs(ctx); len(logs) != 0 {
		t.Errorf("log written on failure: %d", len(logs))
	}
}

func TestRecordOutputValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newInventory(t)
	product := mustCreateProduct(t, svc, &model.Product{SKU: "X3", Name: "Monitor", Quantity: 3})
	person := mustCreatePerson(t, svc, "Bia")

	tests := []struct {
		name string
		req  OutputRequest
		want error
	}{
		{"zero quantity", OutputRequest{ProductID: product.ID, PersonID: person.ID, Quantity: 0}, ErrValidation},
		{"missing product id", OutputRequest{PersonID: person.ID, Quantity: 1}, ErrValidation},
		{"unknown product", OutputRequest{ProductID: uuid.New(), PersonID: person.ID, Quantity: 1}, ErrNotFound},
		{"unknown person", OutputRequest{ProductID: product.ID, PersonID: uuid.New(), Quantity: 1}, ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			if _, err := svc.RecordOutput(ctx, &req, testActor); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRecordOutputRetryWithSameIDAppliesOnce(t *testing.T) {
	ctx := context.Background()
	svc, _ := newInventory(t)
	product := mustCreateProduct(t, svc, &model.Product{SKU: "X4", Name: "Cabo", Quantity: 10})
	person := mustCreatePerson(t, svc, "Caio")

	id := uuid.New()
	req := OutputRequest{ID: &id, ProductID: product.ID, PersonID: person.ID, Quantity: 2}
	for i := 0; i < 2; i++ {
		r := req
		entry, err := svc.RecordOutput(ctx, &r, testActor)
		if err != nil {
			t.Fatalf("attempt %d: %v", i, err)
		}
		if entry.ID != id {
			t.Errorf("log id = %s, want %s", entry.ID, id)
		}
	}

	got, _ := svc.GetProduct(ctx, product.ID)
	if got.Quantity != 8 {
		t.Errorf("quantity = %d, want 8", got.Quantity)
	}

	// same id, different payload
	other := OutputRequest{ID: &id, ProductID: product.ID, PersonID: person.ID, Quantity: 3}
	if _, err := svc.RecordOutput(ctx, &other, testActor); !errors.Is(err, ErrDuplicateIdentifier) {
		t.Errorf("expected ErrDuplicateIdentifier, got %v", err)
	}
}

func TestRecordOutputConcurrentNeverOversubscribes(t *testing.T) {
	ctx := context.Background()
	svc, _ := newInventory(t)
	product := mustCreateProduct(t, svc, &model.Product{SKU: "X5", Name: "Pilha", Quantity: 5})
	person := mustCreatePerson(t, svc, "Duda")

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.RecordOutput(ctx, &OutputRequest{ProductID: product.ID, PersonID: person.ID, Quantity: 1}, testActor)
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			if !errors.Is(err, ErrInsufficientStock) && !errors.Is(err, ErrConcurrentUpdate) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	got, _ := svc.GetProduct(ctx, product.ID)
	logs, _ := svc.ListOutputs(ctx)
	if succeeded > 5 {
		t.Errorf("%d outputs succeeded for 5 units", succeeded)
	}
	if got.Quantity != 5-succeeded {
		t.Errorf("quantity = %d, want %d", got.Quantity, 5-succeeded)
	}
	if len(logs) != succeeded {
		t.Errorf("logs = %d, want %d", len(logs), succeeded)
	}
}

func TestDeleteProductReferentialGuard(t *testing.T) {
	ctx := context.Background()
	svc, _ := newInventory(t)
	used := mustCreateProduct(t, svc, &model.Product{SKU: "U1", Name: "Usado", Quantity: 2})
	unused := mustCreateProduct(t, svc, &model.Product{SKU: "U2", Name: "Novo", Quantity: 2})
	person := mustCreatePerson(t, svc, "Eva")

	if _, err := svc.RecordOutput(ctx, &OutputRequest{ProductID: used.ID, PersonID: person.ID, Quantity: 1}, testActor); err != nil {
		t.Fatal(err)
	}

	if err := svc.DeleteProduct(ctx, used.ID, testActor); !errors.Is(err, ErrReferentialIntegrity) {
		t.Errorf("expected ErrReferentialIntegrity, got %v", err)
	}
	if _, err := svc.GetProduct(ctx, used.ID); err != nil {
		t.Error("referenced product must survive a refused delete")
	}

	if err := svc.DeleteProduct(ctx, unused.ID, testActor); err != nil {
		t.Errorf("unreferenced delete failed: %v", err)
	}
	if err := svc.DeleteProduct(ctx, unused.ID, testActor); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestDeletePersonReferentialGuard(t *testing.T) {
	ctx := context.Background()
	svc, _ := newInventory(t)
	product := mustCreateProduct(t, svc, &model.Product{SKU: "P1", Name: "Fone", Quantity: 2})
	busy := mustCreatePerson(t, svc, "Fábio")
	idle := mustCreatePerson(t, svc, "Gil")

	if _, err := svc.RecordOutput(ctx, &OutputRequest{ProductID: product.ID, PersonID: busy.ID, Quantity: 1}, testActor); err != nil {
		t.Fatal(err)
	}

	if err := svc.DeletePerson(ctx, busy.ID, testActor); !errors.Is(err, ErrReferentialIntegrity) {
		t.Errorf("expected ErrReferentialIntegrity, got %v", err)
	}
	if err := svc.DeletePerson(ctx, idle.ID, testActor); err != nil {
		t.Errorf("unreferenced delete failed: %v", err)
	}
	people, _ := svc.ListPeople(ctx)
	if len(people) != 1 || people[0].ID != busy.ID {
		t.Errorf("unexpected people after deletes: %+v", people)
	}
}

func TestLookupByCode(t *testing.T) {
	ctx := context.Background()
	svc, _ := newInventory(t)
	a := mustCreateProduct(t, svc, &model.Product{SKU: "ABC-1", Name: "A notebook", Quantity: 1})
	b := mustCreateProduct(t, svc, &model.Product{SKU: "ZZZ-9", Name: "B notebook", Quantity: 0, SerialNumber: "abc-1", AssetTag: "PAT-77"})

	res, err := svc.LookupByCode(ctx, "  abc-1 ")
	if err != nil {
		t.Fatalf("LookupByCode failed: %v", err)
	}
	if res.Product.ID != a.ID || res.MatchedField != "sku" {
		t.Errorf("got %s via %s, want product A via sku", res.Product.Name, res.MatchedField)
	}
	if res.OutOfStock {
		t.Error("product A has stock")
	}

	res, err = svc.LookupByCode(ctx, "pat-77")
	if err != nil {
		t.Fatalf("asset tag lookup failed: %v", err)
	}
	if res.Product.ID != b.ID || res.MatchedField != "asset_tag" || !res.OutOfStock {
		t.Errorf("unexpected result: %+v", res)
	}

	if _, err := svc.LookupByCode(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.LookupByCode(ctx, "   "); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestCreateProductRules(t *testing.T) {
	ctx := context.Background()
	svc, n := newInventory(t)
	first := mustCreateProduct(t, svc, &model.Product{SKU: "DUP", Name: "Primeiro", Quantity: 1})

	if err := svc.CreateProduct(ctx, &model.Product{SKU: " DUP ", Name: "Segundo"}, testActor); !errors.Is(err, ErrDuplicateIdentifier) {
		t.Errorf("expected ErrDuplicateIdentifier, got %v", err)
	}
	if err := svc.CreateProduct(ctx, &model.Product{SKU: "NEG", Name: "Negativo", Quantity: -1}, testActor); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for negative quantity, got %v", err)
	}

	second := mustCreateProduct(t, svc, &model.Product{SKU: "OTHER", Name: "Outro", Quantity: 1})
	second.SKU = "DUP"
	if _, err := svc.UpdateProduct(ctx, second.ID, second, testActor); !errors.Is(err, ErrDuplicateIdentifier) {
		t.Errorf("update to a taken SKU: got %v", err)
	}

	first.Quantity = 9
	updated, err := svc.UpdateProduct(ctx, first.ID, first, testActor)
	if err != nil {
		t.Fatalf("UpdateProduct failed: %v", err)
	}
	if updated.Quantity != 9 || updated.UpdatedBy != testActor.ID {
		t.Errorf("unexpected update result: %+v", updated)
	}
	if _, err := svc.UpdateProduct(ctx, uuid.New(), first, testActor); !errors.Is(err, ErrNotFound) {
		t.Errorf("update unknown: got %v", err)
	}
	if n.count("products", "created") != 2 {
		t.Errorf("created events = %d, want 2", n.count("products", "created"))
	}
}

func TestUpdateProductKeepsRecordedOutputs(t *testing.T) {
	ctx := context.Background()
	svc, _ := newInventory(t)
	product := mustCreateProduct(t, svc, &model.Product{SKU: "EDT-1", Name: "Extensão", Quantity: 5})
	person := mustCreatePerson(t, svc, "Ana")

	// an editor loads the product, then an output happens
	edit := *product
	if _, err := svc.RecordOutput(ctx, &OutputRequest{ProductID: product.ID, PersonID: person.ID, Quantity: 2}, testActor); err != nil {
		t.Fatal(err)
	}

	edit.Quantity = 10
	edit.ExpectedQuantity = intPtr(5)
	if _, err := svc.UpdateProduct(ctx, product.ID, &edit, testActor); !errors.Is(err, ErrConcurrentUpdate) {
		t.Fatalf("stale edit: expected ErrConcurrentUpdate, got %v", err)
	}
	current, err := svc.GetProduct(ctx, product.ID)
	if err != nil {
		t.Fatal(err)
	}
	if current.Quantity != 3 {
		t.Errorf("quantity = %d, want 3 after a rejected edit", current.Quantity)
	}

	edit.ExpectedQuantity = intPtr(3)
	updated, err := svc.UpdateProduct(ctx, product.ID, &edit, testActor)
	if err != nil {
		t.Fatalf("fresh edit failed: %v", err)
	}
	if updated.Quantity != 10 {
		t.Errorf("quantity = %d, want 10", updated.Quantity)
	}
}
