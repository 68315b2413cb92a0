package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Activate talks to an SMS-Activate style HTTP API. Replies are plain text:
// "ACCESS_NUMBER:<activation_id>:<msisdn>" on success, an error token
// otherwise ("NO_NUMBERS", "BAD_KEY", ...).
type Activate struct {
	log        zerolog.Logger
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewActivate(log zerolog.Logger, baseURL, apiKey string, httpClient *http.Client) *Activate {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Activate{
		log:        log.With().Str("provider", "sms-activate").Logger(),
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

func (a *Activate) ObtainNumber(ctx context.Context, service, country string) (Lease, error) {
	q := url.Values{}
	q.Set("api_key", a.apiKey)
	q.Set("action", "getNumber")
	q.Set("service", service)
	q.Set("country", country)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return Lease{}, fmt.Errorf("build provider request: %w", err)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return Lease{}, fmt.Errorf("call provider: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	if err != nil {
		return Lease{}, fmt.Errorf("read provider reply: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Lease{}, fmt.Errorf("provider status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	parts := strings.Split(strings.TrimSpace(string(raw)), ":")
	if len(parts) != 3 || parts[0] != "ACCESS_NUMBER" || parts[1] == "" || parts[2] == "" {
		return Lease{}, fmt.Errorf("unexpected provider reply %q", strings.TrimSpace(string(raw)))
	}

	phone := parts[2]
	if !strings.HasPrefix(phone, "+") {
		phone = "+" + phone
	}

	a.log.Debug().Str("service", service).Str("country", country).Str("activation_id", parts[1]).Msg("obtained real number")
	return Lease{
		PhoneNumber:  phone,
		ActivationID: parts[1],
		Service:      "sms-activate",
		CreatedAt:    time.Now().UTC(),
	}, nil
}
