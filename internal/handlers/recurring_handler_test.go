package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "bucketeer/internal/errors"
	"bucketeer/internal/models"
	"bucketeer/internal/pagination"
	"bucketeer/internal/recurrence"
	"bucketeer/internal/services"
)

// --- mock recurring service ---

type mockRecurringService struct {
	createDefinitionFn   func(userID string, txType models.TransactionType, amount int64, description string, bucketID *string, frequency models.Frequency, startDate time.Time, endDate *time.Time) (*models.RecurringDefinition, error)
	getUserDefinitionsFn func(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.RecurringDefinition], error)
	getDefinitionByIDFn  func(userID, recurringID string) (*models.RecurringDefinition, error)
	updateDefinitionFn   func(userID, recurringID string, amount *int64, description *string, bucketID *string, frequency *models.Frequency, startDate, endDate, lastApplied *time.Time) (*models.RecurringDefinition, error)
	deleteDefinitionFn   func(userID, recurringID string) error
	materializeDueFn     func(ctx context.Context, asOf time.Time) (*recurrence.Result, error)
}

func (m *mockRecurringService) CreateDefinition(userID string, txType models.TransactionType, amount int64, description string, bucketID *string, frequency models.Frequency, startDate time.Time, endDate *time.Time) (*models.RecurringDefinition, error) {
	if m.createDefinitionFn != nil {
		return m.createDefinitionFn(userID, txType, amount, description, bucketID, frequency, startDate, endDate)
	}
	return &models.RecurringDefinition{}, nil
}

func (m *mockRecurringService) GetUserDefinitions(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.RecurringDefinition], error) {
	if m.getUserDefinitionsFn != nil {
		return m.getUserDefinitionsFn(userID, page)
	}
	resp := pagination.NewPageResponse([]models.RecurringDefinition{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockRecurringService) GetDefinitionByID(userID, recurringID string) (*models.RecurringDefinition, error) {
	if m.getDefinitionByIDFn != nil {
		return m.getDefinitionByIDFn(userID, recurringID)
	}
	return &models.RecurringDefinition{}, nil
}

func (m *mockRecurringService) UpdateDefinition(userID, recurringID string, amount *int64, description *string, bucketID *string, frequency *models.Frequency, startDate, endDate, lastApplied *time.Time) (*models.RecurringDefinition, error) {
	if m.updateDefinitionFn != nil {
		return m.updateDefinitionFn(userID, recurringID, amount, description, bucketID, frequency, startDate, endDate, lastApplied)
	}
	return &models.RecurringDefinition{}, nil
}

func (m *mockRecurringService) DeleteDefinition(userID, recurringID string) error {
	if m.deleteDefinitionFn != nil {
		return m.deleteDefinitionFn(userID, recurringID)
	}
	return nil
}

func (m *mockRecurringService) MaterializeDue(ctx context.Context, asOf time.Time) (*recurrence.Result, error) {
	if m.materializeDueFn != nil {
		return m.materializeDueFn(ctx, asOf)
	}
	return &recurrence.Result{}, nil
}

var _ services.RecurringServicer = (*mockRecurringService)(nil)

const testRecurringID = "018f3a2b-7c4d-7e02-9a6b-1f2e3d4c5b6b"

func setupRecurringRouter(handler *RecurringHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.POST("/recurring", handler.CreateRecurring)
	auth.GET("/recurring", handler.GetRecurringList)
	auth.GET("/recurring/:id", handler.GetRecurring)
	auth.PUT("/recurring/:id", handler.UpdateRecurring)
	auth.DELETE("/recurring/:id", handler.DeleteRecurring)
	return r
}

func TestRecurringHandler_CreateRecurring(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		svc := &mockRecurringService{
			createDefinitionFn: func(_ string, txType models.TransactionType, amount int64, description string, bucketID *string, frequency models.Frequency, startDate time.Time, _ *time.Time) (*models.RecurringDefinition, error) {
				return &models.RecurringDefinition{
					Base:        models.Base{ID: testRecurringID},
					UserID:      testUserID,
					Type:        txType,
					Amount:      amount,
					Description: description,
					BucketID:    bucketID,
					Frequency:   frequency,
					StartDate:   startDate,
				}, nil
			},
		}
		handler := NewRecurringHandler(svc)
		r := setupRecurringRouter(handler)

		rec := doRequest(r, "POST", "/recurring",
			`{"type":"income","amount":250000,"description":"Salary","frequency":"monthly","start_date":"2024-01-25T00:00:00Z"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		def := result["recurring"].(map[string]interface{})
		if def["frequency"] != "monthly" {
			t.Errorf("expected monthly, got %v", def["frequency"])
		}
	})

	t.Run("accepts a zero amount", func(t *testing.T) {
		var captured int64 = -1
		svc := &mockRecurringService{
			createDefinitionFn: func(_ string, _ models.TransactionType, amount int64, _ string, _ *string, _ models.Frequency, _ time.Time, _ *time.Time) (*models.RecurringDefinition, error) {
				captured = amount
				return &models.RecurringDefinition{}, nil
			},
		}
		handler := NewRecurringHandler(svc)
		r := setupRecurringRouter(handler)

		rec := doRequest(r, "POST", "/recurring",
			`{"type":"income","amount":0,"description":"Placeholder","frequency":"monthly","start_date":"2024-01-25T00:00:00Z"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if captured != 0 {
			t.Errorf("expected amount 0 passed to the service, got %d", captured)
		}
	})

	t.Run("returns 400 on invalid frequency", func(t *testing.T) {
		handler := NewRecurringHandler(&mockRecurringService{})
		r := setupRecurringRouter(handler)

		rec := doRequest(r, "POST", "/recurring",
			`{"type":"income","amount":250000,"description":"Salary","frequency":"quarterly","start_date":"2024-01-25T00:00:00Z"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 when expense has no bucket", func(t *testing.T) {
		svc := &mockRecurringService{
			createDefinitionFn: func(_ string, _ models.TransactionType, _ int64, _ string, _ *string, _ models.Frequency, _ time.Time, _ *time.Time) (*models.RecurringDefinition, error) {
				return nil, apperrors.ErrBucketRequired
			},
		}
		handler := NewRecurringHandler(svc)
		r := setupRecurringRouter(handler)

		rec := doRequest(r, "POST", "/recurring",
			`{"type":"expense","amount":120000,"description":"Rent","frequency":"monthly","start_date":"2024-01-01T00:00:00Z"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "BUCKET_REQUIRED")
	})
}

func TestRecurringHandler_UpdateRecurring(t *testing.T) {
	t.Run("passes last_applied to the service", func(t *testing.T) {
		var captured *time.Time
		svc := &mockRecurringService{
			updateDefinitionFn: func(_, recurringID string, _ *int64, _ *string, _ *string, _ *models.Frequency, _, _, lastApplied *time.Time) (*models.RecurringDefinition, error) {
				captured = lastApplied
				return &models.RecurringDefinition{Base: models.Base{ID: recurringID}, LastApplied: lastApplied}, nil
			},
		}
		handler := NewRecurringHandler(svc)
		r := setupRecurringRouter(handler)

		rec := doRequest(r, "PUT", "/recurring/"+testRecurringID,
			`{"last_applied":"2024-03-25T00:00:00Z"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		want := time.Date(2024, time.March, 25, 0, 0, 0, 0, time.UTC)
		if captured == nil || !captured.Equal(want) {
			t.Errorf("expected last_applied %s passed to service, got %v", want, captured)
		}
	})

	t.Run("returns 400 on checkpoint regression", func(t *testing.T) {
		svc := &mockRecurringService{
			updateDefinitionFn: func(_, _ string, _ *int64, _ *string, _ *string, _ *models.Frequency, _, _, _ *time.Time) (*models.RecurringDefinition, error) {
				return nil, apperrors.ErrCheckpointRegression
			},
		}
		handler := NewRecurringHandler(svc)
		r := setupRecurringRouter(handler)

		rec := doRequest(r, "PUT", "/recurring/"+testRecurringID,
			`{"last_applied":"2024-01-25T00:00:00Z"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "CHECKPOINT_REGRESSION")
	})

	t.Run("returns 400 on invalid ID", func(t *testing.T) {
		handler := NewRecurringHandler(&mockRecurringService{})
		r := setupRecurringRouter(handler)

		rec := doRequest(r, "PUT", "/recurring/not-a-uuid", `{"amount":1}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestRecurringHandler_GetRecurring(t *testing.T) {
	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockRecurringService{
			getDefinitionByIDFn: func(_, _ string) (*models.RecurringDefinition, error) {
				return nil, apperrors.ErrRecurringNotFound
			},
		}
		handler := NewRecurringHandler(svc)
		r := setupRecurringRouter(handler)

		rec := doRequest(r, "GET", "/recurring/"+testRecurringID, "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "RECURRING_NOT_FOUND")
	})
}

func TestRecurringHandler_DeleteRecurring(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		handler := NewRecurringHandler(&mockRecurringService{})
		r := setupRecurringRouter(handler)

		rec := doRequest(r, "DELETE", "/recurring/"+testRecurringID, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})
}
