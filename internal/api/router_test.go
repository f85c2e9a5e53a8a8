package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/oficiosya/hires-api/internal/api/handler"
	"github.com/oficiosya/hires-api/internal/core/domain"
	"github.com/oficiosya/hires-api/internal/core/ports"
)

const testSecret = "router-secret"

// hireSvc answers every call with err, or with a pending hire when err is nil.
type hireSvc struct{ err error }

func (s hireSvc) result() (*domain.Hire, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Hire{ID: "h1", Client: domain.AccountClient{ClientID: "c1"}, Status: domain.StatusPending}, nil
}

func (s hireSvc) CreateHire(context.Context, domain.Actor, ports.CreateHireInput) (*domain.Hire, error) {
	return s.result()
}

func (s hireSvc) Transition(context.Context, string, domain.HireStatus, domain.Actor) (*domain.Hire, error) {
	return s.result()
}

func (s hireSvc) GetHire(context.Context, string, domain.Actor) (*ports.HireView, error) {
	h, err := s.result()
	if err != nil {
		return nil, err
	}
	return &ports.HireView{Hire: h}, nil
}

func (s hireSvc) ListClientHires(context.Context, domain.Actor) ([]*domain.Hire, error) {
	return nil, s.err
}

func (s hireSvc) ListOpenRequests(context.Context, domain.Actor, string) ([]*domain.Hire, error) {
	return nil, s.err
}

func (s hireSvc) ListProfessionalHires(context.Context, domain.Actor) ([]*domain.Hire, error) {
	return nil, s.err
}

type reviewSvc struct{ err error }

func (s reviewSvc) Submit(context.Context, ports.SubmitReviewInput) (*domain.Review, error) {
	return nil, s.err
}

func (s reviewSvc) ListProfessionalReviews(context.Context, string) ([]*domain.Review, error) {
	return nil, s.err
}

type noopEvents struct{}

func (noopEvents) Publish(domain.TransitionEvent) {}

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now().UTC() }

func newTestRouter(hires ports.HireService, reviews ports.ReviewService) http.Handler {
	return NewRouter(RouterDeps{
		Logger:    zerolog.Nop(),
		JWTSecret: testSecret,
		Hires:     hires,
		Reviews:   reviews,
		Events:    noopEvents{},
		Clock:     wallClock{},
		Probes:    map[string]handler.Probe{},
		Registry:  prometheus.NewRegistry(),
	})
}

func bearer(t *testing.T, userID, role string) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return "Bearer " + tok
}

func do(t *testing.T, h http.Handler, method, path, auth, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_TransitionErrorsMapToStatusCodes(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrInvalidTransition, http.StatusUnprocessableEntity},
		{domain.ErrUnauthorized, http.StatusForbidden},
		{domain.ErrConcurrencyConflict, http.StatusConflict},
		{domain.ErrHireNotFound, http.StatusNotFound},
		{domain.ErrCorruptHire, http.StatusInternalServerError},
		{fmt.Errorf("accept hire: %w", domain.ErrConcurrencyConflict), http.StatusConflict},
	}

	for _, tc := range tests {
		t.Run(tc.err.Error(), func(t *testing.T) {
			r := newTestRouter(hireSvc{err: tc.err}, reviewSvc{})
			rec := do(t, r, http.MethodPost, "/v1/hires/h1/accept", bearer(t, "pro-user", domain.RoleProfessional), "")
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d (%s)", tc.want, rec.Code, rec.Body.String())
			}

			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["error"] == "" {
				t.Fatalf("expected error envelope, got %s", rec.Body.String())
			}
			if tc.want == http.StatusInternalServerError && body["error"] != "internal server error" {
				t.Fatalf("internal errors must not leak, got %q", body["error"])
			}
		})
	}
}

func TestRouter_ReviewErrorsMapToStatusCodes(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrDuplicateReview, http.StatusConflict},
		{domain.ErrNotEligible, http.StatusUnprocessableEntity},
		{domain.ErrInvalidReviewToken, http.StatusForbidden},
	}

	for _, tc := range tests {
		r := newTestRouter(hireSvc{}, reviewSvc{err: tc.err})
		rec := do(t, r, http.MethodPost, "/v1/guest/hires/g1/review", "", `{"review_token":"tok","rating":5}`)
		if rec.Code != tc.want {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.want, rec.Code)
		}
	}
}

func TestRouter_AuthAndRoles(t *testing.T) {
	r := newTestRouter(hireSvc{}, reviewSvc{})

	if rec := do(t, r, http.MethodGet, "/v1/hires", "", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
	if rec := do(t, r, http.MethodGet, "/v1/hires/open", bearer(t, "c1", domain.RoleClient), ""); rec.Code != http.StatusForbidden {
		t.Fatalf("clients must not list open requests, got %d", rec.Code)
	}
	if rec := do(t, r, http.MethodGet, "/v1/hires/open", bearer(t, "p1", domain.RoleProfessional), ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for professionals, got %d", rec.Code)
	}
	if rec := do(t, r, http.MethodGet, "/v1/hires/h1", bearer(t, "c1", domain.RoleClient), ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec := do(t, r, http.MethodPost, "/v1/hires/h1/archive", bearer(t, "c1", domain.RoleClient), ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for an unknown action, got %d", rec.Code)
	}
}

func TestRouter_OpsEndpoints(t *testing.T) {
	r := newTestRouter(hireSvc{}, reviewSvc{})

	if rec := do(t, r, http.MethodGet, "/health", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from /health, got %d", rec.Code)
	}
	if rec := do(t, r, http.MethodGet, "/metrics", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from /metrics, got %d", rec.Code)
	}
}
