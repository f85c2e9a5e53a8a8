package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/oficiosya/hires-api/internal/core/domain"
	"github.com/oficiosya/hires-api/internal/core/ports"
)

type stubGuestService struct {
	matchFn   func(ctx context.Context, category, city string) ([]domain.Professional, error)
	submitFn  func(ctx context.Context, in ports.GuestContactInput) (*ports.GuestContactResult, error)
	publishFn func(ctx context.Context, actor domain.Actor, draft ports.GuestDraft) (*domain.Hire, error)
}

func (s *stubGuestService) MatchProfessionals(ctx context.Context, category, city string) ([]domain.Professional, error) {
	return s.matchFn(ctx, category, city)
}

func (s *stubGuestService) Submit(ctx context.Context, in ports.GuestContactInput) (*ports.GuestContactResult, error) {
	return s.submitFn(ctx, in)
}

func (s *stubGuestService) PublishAfterRegistration(ctx context.Context, actor domain.Actor, draft ports.GuestDraft) (*domain.Hire, error) {
	return s.publishFn(ctx, actor, draft)
}

const validGuestBody = `{"name":"Laura","email":"laura@example.com","phone":"+57 300","service_category":"Electricista",` +
	`"service_description":"Se quemó el tablero eléctrico del apartamento","department":"Antioquia","city":"Medellín",` +
	`"timing_preference":"esta semana","professional_id":"e1"}`

func TestGuestHandler_Contact_Created(t *testing.T) {
	e := newEcho()
	stub := &stubGuestService{
		submitFn: func(ctx context.Context, in ports.GuestContactInput) (*ports.GuestContactResult, error) {
			if in.ProfessionalID != "e1" || in.TimingPreference != "esta semana" {
				t.Fatalf("unexpected input %+v", in)
			}
			return &ports.GuestContactResult{
				Hire:        &domain.Hire{ID: "g1", Status: domain.StatusPending},
				ReviewToken: "abc123",
			}, nil
		},
	}
	h := NewGuestHandler(stub)

	rec, c := jsonRequest(e, http.MethodPost, "/v1/guest/contact", validGuestBody)
	if err := h.Contact(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp guestContactResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.HireID != "g1" || resp.ReviewToken != "abc123" || resp.Status != "pending" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestGuestHandler_Contact_NoProfessionals(t *testing.T) {
	e := newEcho()
	stub := &stubGuestService{
		submitFn: func(ctx context.Context, in ports.GuestContactInput) (*ports.GuestContactResult, error) {
			return nil, domain.ErrNoProfessionalsAvailable
		},
	}
	h := NewGuestHandler(stub)

	rec, c := jsonRequest(e, http.MethodPost, "/v1/guest/contact", validGuestBody)
	if err := h.Contact(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}

	var resp noProfessionalsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Error != "no_professionals" || resp.Next != "register" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestGuestHandler_Contact_InvalidForm(t *testing.T) {
	e := newEcho()
	stub := &stubGuestService{
		submitFn: func(ctx context.Context, in ports.GuestContactInput) (*ports.GuestContactResult, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}
	h := NewGuestHandler(stub)

	_, c := jsonRequest(e, http.MethodPost, "/v1/guest/contact", `{"name":"Laura","email":"nope"}`)
	if err := h.Contact(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestGuestHandler_Professionals(t *testing.T) {
	e := newEcho()
	stub := &stubGuestService{
		matchFn: func(ctx context.Context, category, city string) ([]domain.Professional, error) {
			return []domain.Professional{
				{ID: "e1", DisplayName: "Ana", Profession: "Electricista", Rating: 4.8, PremiumEffective: true, Phone: "300"},
			}, nil
		},
	}
	h := NewGuestHandler(stub)

	rec, c := jsonRequest(e, http.MethodGet, "/v1/guest/professionals?category=Electricista", "")
	if err := h.Professionals(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp struct {
		Data []map[string]any `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Data) != 1 || resp.Data[0]["is_premium"] != true {
		t.Fatalf("unexpected response %s", rec.Body.String())
	}
	if _, ok := resp.Data[0]["phone"]; ok {
		t.Fatal("directory listings must not expose contact details")
	}

	_, c = jsonRequest(e, http.MethodGet, "/v1/guest/professionals", "")
	var he *echo.HTTPError
	if err := h.Professionals(c); !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without category, got %v", err)
	}
}

func TestGuestHandler_PublishDraft(t *testing.T) {
	e := newEcho()
	stub := &stubGuestService{
		publishFn: func(ctx context.Context, actor domain.Actor, draft ports.GuestDraft) (*domain.Hire, error) {
			if actor.UserID != "new-client" || draft.Category != "Plomero" {
				t.Fatalf("unexpected call %+v %+v", actor, draft)
			}
			return &domain.Hire{ID: "o1", Client: domain.AccountClient{ClientID: actor.UserID}, Status: domain.StatusPending}, nil
		},
	}
	h := NewGuestHandler(stub)

	body := `{"service_category":"Plomero","service_description":"Se rompió el tubo del baño y hay agua","department":"Antioquia","city":"Medellín"}`
	rec, c := jsonRequest(e, http.MethodPost, "/v1/guest/drafts/publish", body)
	withClaims(c, "new-client", domain.RoleClient)

	if err := h.PublishDraft(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp hireResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.ProfessionalID != "" || resp.ClientID != "new-client" {
		t.Fatalf("expected open hire owned by new-client, got %+v", resp)
	}
}
