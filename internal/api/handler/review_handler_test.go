package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/oficiosya/hires-api/internal/core/domain"
	"github.com/oficiosya/hires-api/internal/core/ports"
)

type stubReviewService struct {
	submitFn func(ctx context.Context, in ports.SubmitReviewInput) (*domain.Review, error)
	listFn   func(ctx context.Context, professionalID string) ([]*domain.Review, error)
}

func (s *stubReviewService) Submit(ctx context.Context, in ports.SubmitReviewInput) (*domain.Review, error) {
	return s.submitFn(ctx, in)
}

func (s *stubReviewService) ListProfessionalReviews(ctx context.Context, professionalID string) ([]*domain.Review, error) {
	return s.listFn(ctx, professionalID)
}

func TestReviewHandler_Submit(t *testing.T) {
	e := newEcho()
	stub := &stubReviewService{
		submitFn: func(ctx context.Context, in ports.SubmitReviewInput) (*domain.Review, error) {
			if in.HireID != "h1" || in.Rating != 5 || in.Actor.UserID != "client-1" {
				t.Fatalf("unexpected input %+v", in)
			}
			return &domain.Review{ID: "r1", HireID: in.HireID, ProfessionalID: "pro-1", ClientID: "client-1", Rating: 5, CreatedAt: handlerTime}, nil
		},
	}
	h := NewReviewHandler(stub)

	rec, c := jsonRequest(e, http.MethodPost, "/", `{"rating":5,"comment":"Muy bien"}`)
	c.SetParamNames("id")
	c.SetParamValues("h1")
	withClaims(c, "client-1", domain.RoleClient)

	if err := h.Submit(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestReviewHandler_Submit_RatingOutOfRange(t *testing.T) {
	e := newEcho()
	stub := &stubReviewService{
		submitFn: func(ctx context.Context, in ports.SubmitReviewInput) (*domain.Review, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}
	h := NewReviewHandler(stub)

	for _, body := range []string{`{"rating":0}`, `{"rating":6}`} {
		_, c := jsonRequest(e, http.MethodPost, "/", body)
		c.SetParamNames("id")
		c.SetParamValues("h1")
		withClaims(c, "client-1", domain.RoleClient)

		if err := h.Submit(c); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("%s: expected ErrValidation, got %v", body, err)
		}
	}
}

func TestReviewHandler_SubmitGuest(t *testing.T) {
	e := newEcho()
	stub := &stubReviewService{
		submitFn: func(ctx context.Context, in ports.SubmitReviewInput) (*domain.Review, error) {
			if !in.Actor.IsGuest() || in.Actor.GuestToken != "tok" {
				t.Fatalf("expected guest actor, got %+v", in.Actor)
			}
			return nil, domain.ErrDuplicateReview
		},
	}
	h := NewReviewHandler(stub)

	_, c := jsonRequest(e, http.MethodPost, "/", `{"review_token":"tok","rating":4}`)
	c.SetParamNames("id")
	c.SetParamValues("g1")

	if err := h.SubmitGuest(c); !errors.Is(err, domain.ErrDuplicateReview) {
		t.Fatalf("expected ErrDuplicateReview, got %v", err)
	}
}

func TestReviewHandler_ListByProfessional(t *testing.T) {
	e := newEcho()
	stub := &stubReviewService{
		listFn: func(ctx context.Context, professionalID string) ([]*domain.Review, error) {
			return []*domain.Review{{ID: "r1", ProfessionalID: professionalID, GuestName: "Laura", Rating: 4}}, nil
		},
	}
	h := NewReviewHandler(stub)

	rec, c := jsonRequest(e, http.MethodGet, "/", "")
	c.SetParamNames("id")
	c.SetParamValues("pro-1")

	if err := h.ListByProfessional(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp listReviewsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Total != 1 || resp.Data[0].GuestName != "Laura" {
		t.Fatalf("unexpected response %+v", resp)
	}
}
