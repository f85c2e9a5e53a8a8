package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/oficiosya/hires-api/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

// Config points the sender at the email function.
type Config struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

// HTTPSender calls the external email function. The function resolves
// recipients and content from the ids it is given.
type HTTPSender struct {
	cfg    Config
	client *http.Client
	log    zerolog.Logger
}

// NewHTTPSender builds a sender. A nil client gets one with cfg.Timeout.
func NewHTTPSender(cfg Config, client *http.Client, log zerolog.Logger) *HTTPSender {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &HTTPSender{cfg: cfg, client: client, log: log}
}

// Send posts req as JSON. Any transport error or non-2xx answer is reported
// as domain.ErrDeliveryFailure.
func (s *HTTPSender) Send(ctx context.Context, req domain.EmailRequest) error {
	if s.cfg.URL == "" {
		s.log.Debug().Str("type", string(req.Type)).Msg("email function not configured, skipping")
		return nil
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode email request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if s.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDeliveryFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: email function returned %d: %s", domain.ErrDeliveryFailure, resp.StatusCode, bytes.TrimSpace(snippet))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
