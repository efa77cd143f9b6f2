package db

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"atelier/internal/models"
)

func TestCreateServiceLink_DuplicateToken(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	createTestServiceLink(t, db, "dup-token-aaaaaaaaaaaaaaaaaaaaaa", true, nil)

	dup := &models.ServiceLink{
		Token:    "dup-token-aaaaaaaaaaaaaaaaaaaaaa",
		Name:     "Second",
		IsActive: true,
	}
	err := db.CreateServiceLink(ctx, dup)
	if !errors.Is(err, ErrDuplicateToken) {
		t.Errorf("CreateServiceLink() error = %v, want ErrDuplicateToken", err)
	}
}

func TestUpdateServiceLink_TokenImmutable(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	link := createTestServiceLink(t, db, "immutable-token-aaaaaaaaaaaaaaaa", true, nil)

	link.Name = "Renamed"
	link.Token = "attempted-rewrite-aaaaaaaaaaaaaa"
	if err := db.UpdateServiceLink(ctx, link); err != nil {
		t.Fatalf("UpdateServiceLink() error = %v", err)
	}

	got, err := db.GetServiceLinkByID(ctx, link.ID)
	if err != nil {
		t.Fatalf("GetServiceLinkByID() error = %v", err)
	}
	if got.Name != "Renamed" {
		t.Errorf("name = %q, want %q", got.Name, "Renamed")
	}
	if got.Token != "immutable-token-aaaaaaaaaaaaaaaa" {
		t.Errorf("token = %q, want the original token", got.Token)
	}
}

func TestReplaceServiceLinkItems(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	a := createTestService(t, db, "Service A", 1, true)
	b := createTestService(t, db, "Service B", 2, true)
	c := createTestService(t, db, "Service C", 3, true)

	link := createTestServiceLink(t, db, "replace-token-aaaaaaaaaaaaaaaaaa", true, nil)

	if err := db.ReplaceServiceLinkItems(ctx, link.ID, []uuid.UUID{a.ID, b.ID}); err != nil {
		t.Fatalf("ReplaceServiceLinkItems() error = %v", err)
	}

	ids, err := db.GetServiceLinkItems(ctx, link.ID)
	if err != nil {
		t.Fatalf("GetServiceLinkItems() error = %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("got %d items, want 2", len(ids))
	}

	// A full replacement, not a merge.
	if err := db.ReplaceServiceLinkItems(ctx, link.ID, []uuid.UUID{c.ID}); err != nil {
		t.Fatalf("ReplaceServiceLinkItems() error = %v", err)
	}

	ids, err = db.GetServiceLinkItems(ctx, link.ID)
	if err != nil {
		t.Fatalf("GetServiceLinkItems() error = %v", err)
	}
	if len(ids) != 1 || ids[0] != c.ID {
		t.Errorf("items = %v, want just %v", ids, c.ID)
	}
}

func TestReplaceServiceLinkItems_UnknownServiceClearsItems(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	a := createTestService(t, db, "Service A", 1, true)
	link := createTestServiceLink(t, db, "clear-token-aaaaaaaaaaaaaaaaaaaa", true, nil)

	if err := db.ReplaceServiceLinkItems(ctx, link.ID, []uuid.UUID{a.ID}); err != nil {
		t.Fatalf("ReplaceServiceLinkItems() error = %v", err)
	}

	// A missing service id violates the FK mid-insert; the contract is a
	// link with zero items, never a partial or stale set.
	err := db.ReplaceServiceLinkItems(ctx, link.ID, []uuid.UUID{a.ID, uuid.New()})
	if err == nil {
		t.Fatal("ReplaceServiceLinkItems() expected an error for an unknown service id")
	}

	ids, err := db.GetServiceLinkItems(ctx, link.ID)
	if err != nil {
		t.Fatalf("GetServiceLinkItems() error = %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("got %d items after failed replace, want 0", len(ids))
	}
}

func TestDeleteServiceLink_CascadesItemsOnly(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	svc := createTestService(t, db, "Survivor", 1, true)
	link := createTestServiceLink(t, db, "cascade-token-aaaaaaaaaaaaaaaaaa", true, nil)

	if err := db.ReplaceServiceLinkItems(ctx, link.ID, []uuid.UUID{svc.ID}); err != nil {
		t.Fatalf("ReplaceServiceLinkItems() error = %v", err)
	}

	if err := db.DeleteServiceLink(ctx, link.ID); err != nil {
		t.Fatalf("DeleteServiceLink() error = %v", err)
	}

	if _, err := db.GetServiceLinkByID(ctx, link.ID); !errors.Is(err, ErrLinkNotFound) {
		t.Errorf("GetServiceLinkByID() error = %v, want ErrLinkNotFound", err)
	}

	// The catalog service itself is untouched.
	if _, err := db.GetServiceByID(ctx, svc.ID); err != nil {
		t.Errorf("GetServiceByID() error = %v, want nil", err)
	}
}

func TestSetServiceLinkActive(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	link := createTestServiceLink(t, db, "toggle-token-aaaaaaaaaaaaaaaaaaa", true, nil)

	if err := db.SetServiceLinkActive(ctx, link.ID, false); err != nil {
		t.Fatalf("SetServiceLinkActive() error = %v", err)
	}

	if _, err := db.ResolveServiceLink(ctx, link.Token); !errors.Is(err, ErrLinkInactive) {
		t.Errorf("ResolveServiceLink() after deactivation error = %v, want ErrLinkInactive", err)
	}

	// Reactivation restores resolution with the same token.
	if err := db.SetServiceLinkActive(ctx, link.ID, true); err != nil {
		t.Fatalf("SetServiceLinkActive() error = %v", err)
	}
	if _, err := db.ResolveServiceLink(ctx, link.Token); err != nil {
		t.Errorf("ResolveServiceLink() after reactivation error = %v, want nil", err)
	}
}
