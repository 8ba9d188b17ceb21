package testutil

import (
	"errors"
	"testing"
	"time"

	apperrors "bucketeer/internal/errors"
)

// AssertAppError checks that err unwraps to an *AppError carrying the
// expected code, and returns it for further inspection.
func AssertAppError(t *testing.T, err error, expectedCode string) *apperrors.AppError {
	t.Helper()

	if err == nil {
		t.Fatalf("expected AppError with code %q, got nil", expectedCode)
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}

	if appErr.Code != expectedCode {
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
	return appErr
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertSameDay checks two timestamps fall on the same calendar day.
// Occurrence dates and checkpoints only carry day-level significance, so
// tests should not fail over time-of-day noise.
func AssertSameDay(t *testing.T, want, got time.Time) {
	t.Helper()

	wy, wm, wd := want.Date()
	gy, gm, gd := got.Date()
	if wy != gy || wm != gm || wd != gd {
		t.Errorf("expected date %s, got %s", want.Format("2006-01-02"), got.Format("2006-01-02"))
	}
}
