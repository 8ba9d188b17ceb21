package services

import (
	"testing"

	"bucketeer/internal/testutil"
)

func TestCreateUser(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser("Alice@Example.com", "secret123", "Alice")
		testutil.AssertNoError(t, err)

		if user.Email != "alice@example.com" {
			t.Errorf("expected lowercased email, got %s", user.Email)
		}
		if user.Password == "secret123" {
			t.Error("expected password to be hashed")
		}
		if !user.IsActive {
			t.Error("expected new user to be active")
		}
	})

	t.Run("duplicate_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("bob@example.com", "secret123", "Bob")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateUser("BOB@example.com", "other456", "Bobby")
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})

	t.Run("missing_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("", "secret123", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestVerifyPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)

	user, err := svc.CreateUser("carol@example.com", "correct horse", "Carol")
	testutil.AssertNoError(t, err)

	if !svc.VerifyPassword(user, "correct horse") {
		t.Error("expected correct password to verify")
	}
	if svc.VerifyPassword(user, "battery staple") {
		t.Error("expected wrong password to fail")
	}
}

func TestGetUserByEmail(t *testing.T) {
	t.Run("inactive_users_are_hidden", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser("dan@example.com", "secret123", "Dan")
		testutil.AssertNoError(t, err)

		if err := db.Model(user).Update("is_active", false).Error; err != nil {
			t.Fatalf("failed to deactivate user: %v", err)
		}

		_, err = svc.GetUserByEmail("dan@example.com")
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}
