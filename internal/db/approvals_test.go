package db

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"atelier/internal/models"
)

func createTestAccount(t *testing.T, database *DB, email string) *models.ClientAccount {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse battery"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt error = %v", err)
	}
	account := &models.ClientAccount{
		Email:        email,
		PasswordHash: string(hash),
		Name:         "Test Account",
		IsActive:     true,
	}
	if err := database.CreateClientAccount(context.Background(), account); err != nil {
		t.Fatalf("CreateClientAccount() error = %v", err)
	}
	return account
}

func createTestMaterial(t *testing.T, database *DB, clientID uuid.UUID, title string) *models.Material {
	t.Helper()
	material := &models.Material{
		ClientID: clientID,
		Title:    title,
	}
	if err := database.CreateMaterial(context.Background(), material); err != nil {
		t.Fatalf("CreateMaterial() error = %v", err)
	}
	return material
}

func TestCreateApproval_FullTrail(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	client := createTestClient(t, db, "Acme")
	material := createTestMaterial(t, db, client.ID, "Homepage Draft")
	account := createTestAccount(t, db, "reviewer@acme.example.com")

	actions := []struct {
		action  string
		comment string
	}{
		{models.ActionApprove, ""},
		{models.ActionComment, "Can the logo be bigger?"},
		{models.ActionReject, "Wrong brand colors"},
	}

	for _, a := range actions {
		approval := &models.Approval{
			MaterialID: material.ID,
			AccountID:  account.ID,
			Action:     a.action,
			Comment:    a.comment,
		}
		if err := db.CreateApproval(ctx, approval); err != nil {
			t.Fatalf("CreateApproval(%s) error = %v", a.action, err)
		}
		if approval.ID == uuid.Nil {
			t.Errorf("CreateApproval(%s) did not set ID", a.action)
		}
	}

	// All three survive; later actions never overwrite earlier ones.
	trail, err := db.GetApprovalsByMaterial(ctx, material.ID)
	if err != nil {
		t.Fatalf("GetApprovalsByMaterial() error = %v", err)
	}
	if len(trail) != 3 {
		t.Fatalf("trail has %d entries, want 3", len(trail))
	}

	// Newest first.
	if trail[0].Action != models.ActionReject {
		t.Errorf("trail[0].Action = %q, want %q", trail[0].Action, models.ActionReject)
	}
	if trail[2].Action != models.ActionApprove {
		t.Errorf("trail[2].Action = %q, want %q", trail[2].Action, models.ActionApprove)
	}
}

func TestApprovals_DoNotMoveMaterialStatus(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	client := createTestClient(t, db, "Acme")
	material := createTestMaterial(t, db, client.ID, "Logo Concepts")
	account := createTestAccount(t, db, "reviewer2@acme.example.com")

	approval := &models.Approval{
		MaterialID: material.ID,
		AccountID:  account.ID,
		Action:     models.ActionApprove,
	}
	if err := db.CreateApproval(ctx, approval); err != nil {
		t.Fatalf("CreateApproval() error = %v", err)
	}

	got, err := db.GetMaterialByID(ctx, material.ID)
	if err != nil {
		t.Fatalf("GetMaterialByID() error = %v", err)
	}
	if got.Status != material.Status {
		t.Errorf("material status = %q after approval, want unchanged %q", got.Status, material.Status)
	}
}

func TestGetRecentApprovals_SurvivesDeletion(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	client := createTestClient(t, db, "Ephemeral Co")
	material := createTestMaterial(t, db, client.ID, "Doomed Material")
	account := createTestAccount(t, db, "reviewer3@acme.example.com")

	approval := &models.Approval{
		MaterialID: material.ID,
		AccountID:  account.ID,
		Action:     models.ActionReject,
		Comment:    "not this one",
	}
	if err := db.CreateApproval(ctx, approval); err != nil {
		t.Fatalf("CreateApproval() error = %v", err)
	}

	// Deleting the client cascades to its materials; the trail keeps its row.
	if err := db.DeleteClient(ctx, client.ID); err != nil {
		t.Fatalf("DeleteClient() error = %v", err)
	}

	entries, err := db.GetRecentApprovals(ctx, 10)
	if err != nil {
		t.Fatalf("GetRecentApprovals() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d feed entries, want 1", len(entries))
	}

	entry := entries[0]
	if entry.Action != models.ActionReject {
		t.Errorf("entry.Action = %q, want %q", entry.Action, models.ActionReject)
	}
	if entry.Comment != "not this one" {
		t.Errorf("entry.Comment = %q", entry.Comment)
	}
	if entry.MaterialTitle != "(deleted material)" {
		t.Errorf("entry.MaterialTitle = %q, want placeholder", entry.MaterialTitle)
	}
	if entry.ClientName != "(deleted client)" {
		t.Errorf("entry.ClientName = %q, want placeholder", entry.ClientName)
	}
	// The account still exists, so its label is real.
	if entry.AccountEmail != account.Email {
		t.Errorf("entry.AccountEmail = %q, want %q", entry.AccountEmail, account.Email)
	}
}

func TestGetRecentApprovals_Limit(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	client := createTestClient(t, db, "Busy Co")
	material := createTestMaterial(t, db, client.ID, "Iterated Material")
	account := createTestAccount(t, db, "reviewer4@acme.example.com")

	for i := 0; i < 5; i++ {
		approval := &models.Approval{
			MaterialID: material.ID,
			AccountID:  account.ID,
			Action:     models.ActionComment,
			Comment:    "round",
		}
		if err := db.CreateApproval(ctx, approval); err != nil {
			t.Fatalf("CreateApproval() error = %v", err)
		}
	}

	entries, err := db.GetRecentApprovals(ctx, 3)
	if err != nil {
		t.Fatalf("GetRecentApprovals() error = %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("got %d entries, want 3", len(entries))
	}
}
