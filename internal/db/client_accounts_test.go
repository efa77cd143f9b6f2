package db

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"atelier/internal/models"
)

func TestCreateClientAccount_DuplicateEmail(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	createTestAccount(t, db, "dup@client.example.com")

	hash, _ := bcrypt.GenerateFromPassword([]byte("other password"), bcrypt.MinCost)
	dup := &models.ClientAccount{
		Email:        "dup@client.example.com",
		PasswordHash: string(hash),
		IsActive:     true,
	}
	err := db.CreateClientAccount(ctx, dup)
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("CreateClientAccount() error = %v, want ErrDuplicateEmail", err)
	}
}

func TestGetClientAccountByEmail_InactiveHidden(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	account := createTestAccount(t, db, "disabled@client.example.com")

	if _, err := db.GetClientAccountByEmail(ctx, account.Email); err != nil {
		t.Fatalf("GetClientAccountByEmail() error = %v", err)
	}

	if err := db.SetClientAccountActive(ctx, account.ID, false); err != nil {
		t.Fatalf("SetClientAccountActive() error = %v", err)
	}

	// A disabled account looks exactly like a missing one on the login path.
	if _, err := db.GetClientAccountByEmail(ctx, account.Email); !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("GetClientAccountByEmail() error = %v, want ErrAccountNotFound", err)
	}
}

func TestClientMembership(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	client := createTestClient(t, db, "Acme")
	other := createTestClient(t, db, "Other Co")
	account := createTestAccount(t, db, "member@client.example.com")

	if err := db.AddClientMember(ctx, client.ID, account.ID); err != nil {
		t.Fatalf("AddClientMember() error = %v", err)
	}

	if err := db.AddClientMember(ctx, client.ID, account.ID); !errors.Is(err, ErrDuplicateMember) {
		t.Errorf("AddClientMember() duplicate error = %v, want ErrDuplicateMember", err)
	}

	ok, err := db.IsClientMember(ctx, client.ID, account.ID)
	if err != nil {
		t.Fatalf("IsClientMember() error = %v", err)
	}
	if !ok {
		t.Error("IsClientMember() = false, want true")
	}

	// Membership is per client, never global.
	ok, err = db.IsClientMember(ctx, other.ID, account.ID)
	if err != nil {
		t.Fatalf("IsClientMember() error = %v", err)
	}
	if ok {
		t.Error("IsClientMember() = true for a client without membership")
	}

	if err := db.RemoveClientMember(ctx, client.ID, account.ID); err != nil {
		t.Fatalf("RemoveClientMember() error = %v", err)
	}

	ok, err = db.IsClientMember(ctx, client.ID, account.ID)
	if err != nil {
		t.Fatalf("IsClientMember() error = %v", err)
	}
	if ok {
		t.Error("IsClientMember() = true after removal")
	}
}

func TestGetClientMembers(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	client := createTestClient(t, db, "Acme")
	a := createTestAccount(t, db, "a@client.example.com")
	b := createTestAccount(t, db, "b@client.example.com")
	createTestAccount(t, db, "outsider@client.example.com")

	if err := db.AddClientMember(ctx, client.ID, a.ID); err != nil {
		t.Fatalf("AddClientMember() error = %v", err)
	}
	if err := db.AddClientMember(ctx, client.ID, b.ID); err != nil {
		t.Fatalf("AddClientMember() error = %v", err)
	}

	members, err := db.GetClientMembers(ctx, client.ID)
	if err != nil {
		t.Fatalf("GetClientMembers() error = %v", err)
	}
	if len(members) != 2 {
		t.Errorf("got %d members, want 2", len(members))
	}
}
