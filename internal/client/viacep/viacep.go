// Package viacep resolves Brazilian postal codes (CEP) to addresses through
// the ViaCEP HTTP API, retrying transport failures with exponential backoff.
package viacep

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/goldenerp/backend/internal/entity"
)

const (
	DefaultBaseURL     = "https://viacep.com.br"
	DefaultMaxAttempts = 3
	DefaultBackoffBase = 500 * time.Millisecond
)

// Config tunes the client. Zero values fall back to the defaults above.
type Config struct {
	BaseURL     string
	Timeout     time.Duration
	MaxAttempts int
	BackoffBase time.Duration
}

// Client is an HTTP client for the ViaCEP lookup service.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	maxAttempts int
	backoffBase time.Duration
}

func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.BackoffBase == 0 {
		cfg.BackoffBase = DefaultBackoffBase
	}
	return &Client{
		baseURL:     cfg.BaseURL,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		maxAttempts: cfg.MaxAttempts,
		backoffBase: cfg.BackoffBase,
	}
}

type viaCepResponse struct {
	Logradouro string `json:"logradouro"`
	Bairro     string `json:"bairro"`
	Localidade string `json:"localidade"`
	UF         string `json:"uf"`
	Erro       bool   `json:"erro"`
}

// Lookup normalizes cep to digits and resolves it. A code that is not
// exactly 8 digits fails immediately with InvalidInput and no network call.
// Transport failures are retried with doubling backoff; a not-found or
// malformed response is terminal.
func (c *Client) Lookup(ctx context.Context, cep string) (entity.Address, error) {
	clean := digitsOnly(cep)
	if len(clean) != 8 {
		return entity.Address{}, &entity.InvalidInputError{Message: fmt.Sprintf("invalid postal code: %s", cep)}
	}

	var lastErr error
	backoff := c.backoffBase

	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		address, retryable, err := c.fetch(ctx, clean)
		if err == nil {
			return address, nil
		}
		if !retryable {
			return entity.Address{}, err
		}
		lastErr = err

		if ctx.Err() != nil {
			break
		}
		if attempt < c.maxAttempts-1 {
			select {
			case <-ctx.Done():
				return entity.Address{}, &entity.LookupFailedError{CEP: clean, Err: ctx.Err()}
			case <-time.After(backoff):
				backoff *= 2
			}
		}
	}

	return entity.Address{}, &entity.LookupFailedError{CEP: clean, Err: lastErr}
}

// fetch performs a single lookup attempt. retryable marks transport-level
// failures; not-found and malformed responses are terminal.
func (c *Client) fetch(ctx context.Context, cep string) (entity.Address, bool, error) {
	url := fmt.Sprintf("%s/ws/%s/json/", c.baseURL, cep)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return entity.Address{}, false, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return entity.Address{}, true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return entity.Address{}, true, fmt.Errorf("lookup service returned status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return entity.Address{}, false, &entity.NotFoundError{Entity: "postal code", ID: cep}
	}

	var body viaCepResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return entity.Address{}, false, &entity.NotFoundError{Entity: "postal code", ID: cep}
	}
	if body.Erro {
		return entity.Address{}, false, &entity.NotFoundError{Entity: "postal code", ID: cep}
	}

	return entity.Address{
		Street:       body.Logradouro,
		Neighborhood: body.Bairro,
		City:         body.Localidade,
		State:        body.UF,
		PostalCode:   cep,
	}, false, nil
}

func digitsOnly(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			out = append(out, s[i])
		}
	}
	return string(out)
}
