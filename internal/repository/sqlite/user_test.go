package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/notekeeper/internal/apperror"
	"github.com/sakif/notekeeper/internal/model"
)

// TESTING WITH IN-MEMORY SQLITE:
// Using ":memory:" creates a fresh database that exists only during the test.
// Fast (no disk I/O), isolated (each test gets its own database), and clean
// (destroyed when the connection closes).
//
// The `t.Helper()` call tells Go's test framework to report errors at the
// CALLER's line number, not inside this function.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	// t.Cleanup registers a function to run when the test finishes.
	// Like defer, but scoped to the test — even works in subtests.
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *DB, name, email string) *model.User {
	t.Helper()
	user := &model.User{Name: name, Email: email, PasswordHash: "$2a$10$fakehash"}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// =========================================================================
// CreateUser TESTS
// =========================================================================

func TestCreateUser(t *testing.T) {
	db := newTestDB(t)

	user := &model.User{
		Name:         "A",
		Email:        "a@x.com",
		PasswordHash: "$2a$10$somehash",
	}

	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	// Verify the struct was modified in-place (pointer receiver!)
	if user.ID == "" {
		t.Error("CreateUser() did not set user.ID")
	}
	if user.CreatedAt.IsZero() {
		t.Error("CreateUser() did not set user.CreatedAt")
	}
}

func TestCreateUser_DuplicateEmailAllowedByStore(t *testing.T) {
	db := newTestDB(t)

	// The store itself does NOT enforce email uniqueness — the
	// check-then-insert lives in the service layer and is racy. Two inserts
	// for the same email must both succeed at this layer.
	first := createTestUser(t, db, "A", "a@x.com")
	second := createTestUser(t, db, "A2", "a@x.com")

	if first.ID == second.ID {
		t.Fatal("two inserts produced the same ID")
	}

	// Lookups resolve the oldest row (xid IDs sort by creation time)
	got, err := db.GetUserByEmail(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("GetUserByEmail() error = %v", err)
	}
	if got.ID != first.ID {
		t.Errorf("GetUserByEmail() resolved %q, want the oldest row %q", got.ID, first.ID)
	}
}

// =========================================================================
// GetUserByEmail / GetUserByID TESTS
// =========================================================================

func TestGetUserByEmail(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "A", "a@x.com")

	got, err := db.GetUserByEmail(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("GetUserByEmail() error = %v", err)
	}

	if got.ID != created.ID {
		t.Errorf("ID = %q, want %q", got.ID, created.ID)
	}
	if got.Name != "A" {
		t.Errorf("Name = %q, want %q", got.Name, "A")
	}
	if got.PasswordHash != created.PasswordHash {
		t.Errorf("PasswordHash = %q, want %q", got.PasswordHash, created.PasswordHash)
	}
}

func TestGetUserByEmail_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetUserByEmail(context.Background(), "nobody@x.com")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("GetUserByEmail() error = %v, want ErrNotFound", err)
	}
}

func TestGetUserByID(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "A", "a@x.com")

	got, err := db.GetUserByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if got.Email != "a@x.com" {
		t.Errorf("Email = %q, want %q", got.Email, "a@x.com")
	}
}

func TestGetUserByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetUserByID(context.Background(), "no-such-id")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("GetUserByID() error = %v, want ErrNotFound", err)
	}
}

func TestCreateUser_FederatedAccount(t *testing.T) {
	db := newTestDB(t)

	user := &model.User{
		Name:     "G",
		Email:    "g@x.com",
		GoogleID: "g-12345",
		// no PasswordHash — federated-only
	}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	got, err := db.GetUserByEmail(context.Background(), "g@x.com")
	if err != nil {
		t.Fatalf("GetUserByEmail() error = %v", err)
	}
	if got.GoogleID != "g-12345" {
		t.Errorf("GoogleID = %q, want %q", got.GoogleID, "g-12345")
	}
	if got.PasswordHash != "" {
		t.Errorf("PasswordHash = %q, want empty for a federated account", got.PasswordHash)
	}
}
