package service

import (
	"context"
	"sync"
	"testing"

	"go-estoque-condo/internal/model"
	"go-estoque-condo/internal/store"
	"go-estoque-condo/internal/ws"
	"go-estoque-condo/pkg/password"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var testActor = Actor{ID: "00000000-0000-0000-0000-000000000001", Name: "Tester"}

// setupTestStore opens a fresh in-memory database with roles, privileges
// and a password-less "admin" account seeded.
func setupTestStore(t *testing.T) store.Provider {
	t.Helper()
	p, err := store.OpenLocal(":memory:", false)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { p.Close() })

	ctx := context.Background()
	if err := p.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	opts := SeedOptions{AdminUsername: "admin", AdminEmail: "admin@condo.com"}
	if err := Seed(ctx, p, password.NewBcrypt(4), opts, zap.NewNop()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return p
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []ws.Event
}

func (n *recordingNotifier) Publish(e ws.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
}

func (n *recordingNotifier) count(resource, action string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, e := range n.events {
		if e.Resource == resource && e.Action == action {
			c++
		}
	}
	return c
}

func mustCreateProduct(t *testing.T, svc InventoryService, p *model.Product) *model.Product {
	t.Helper()
	if p.Price.IsZero() {
		p.Price = decimal.NewFromInt(10)
	}
	if err := svc.CreateProduct(context.Background(), p, testActor); err != nil {
		t.Fatalf("create product %s: %v", p.SKU, err)
	}
	return p
}

func mustCreatePerson(t *testing.T, svc InventoryService, name string) *model.Person {
	t.Helper()
	person := &model.Person{Name: name}
	if err := svc.CreatePerson(context.Background(), person, testActor); err != nil {
		t.Fatalf("create person %s: %v", name, err)
	}
	return person
}

func intPtr(v int) *int { return &v }
