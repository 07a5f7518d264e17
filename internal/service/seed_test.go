package service

import (
	"context"
	"testing"

	"go-estoque-condo/internal/model"
	"go-estoque-condo/pkg/password"

	"go.uber.org/zap"
)

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	p := setupTestStore(t)
	hasher := password.NewBcrypt(4)

	// second run with a password must not touch the existing admin
	opts := SeedOptions{AdminUsername: "admin", AdminEmail: "admin@condo.com", AdminPassword: "ignored"}
	if err := Seed(ctx, p, hasher, opts, zap.NewNop()); err != nil {
		t.Fatalf("second seed failed: %v", err)
	}

	users, err := p.Users().FindAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 1 {
		t.Fatalf("users after reseed = %d, want 1", len(users))
	}
	if users[0].Password != "" {
		t.Error("reseed set a password on the existing admin")
	}

	privileges, _ := p.Privileges().FindAll(ctx)
	if len(privileges) != len(model.DefaultPrivileges) {
		t.Errorf("privileges = %d, want %d", len(privileges), len(model.DefaultPrivileges))
	}

	admin, err := p.Roles().FindByCode(ctx, model.RoleAdmin)
	if err != nil {
		t.Fatal(err)
	}
	if len(admin.Privileges) != len(model.DefaultPrivileges) {
		t.Errorf("admin privileges = %d, want all", len(admin.Privileges))
	}
	resident, _ := p.Roles().FindByCode(ctx, model.RoleResident)
	if len(resident.Privileges) != 1 || resident.Privileges[0].Code != model.PrivFinanceView {
		t.Errorf("resident privileges = %+v", resident.Privileges)
	}
}

func TestSeedHashesAdminPassword(t *testing.T) {
	ctx := context.Background()
	p := setupTestStore(t)
	hasher := password.NewBcrypt(4)

	opts := SeedOptions{AdminUsername: "sindico", AdminPassword: "s3nha-forte"}
	if err := Seed(ctx, p, hasher, opts, zap.NewNop()); err != nil {
		t.Fatal(err)
	}
	u, err := p.Users().FindByIdentifier(ctx, "sindico")
	if err != nil {
		t.Fatalf("admin not created: %v", err)
	}
	if !hasher.Verify(u.Password, "s3nha-forte") {
		t.Error("seeded admin password does not verify")
	}
	if u.RoleCode() != model.RoleAdmin {
		t.Errorf("role = %s", u.RoleCode())
	}
}
