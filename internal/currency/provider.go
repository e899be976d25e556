package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fabrikline/wholesale-backend/pkg/enums"
	pkgerrors "github.com/fabrikline/wholesale-backend/pkg/errors"
)

const (
	defaultProviderURL          = "https://open.er-api.com/v6/latest"
	responseBodyReadLimit int64 = 1024
)

// ProviderClient fetches the full exchange rate table from the upstream
// rates API.
type ProviderClient struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures optional client behavior.
type Option func(*ProviderClient)

// WithHTTPClient overrides the default HTTP client. The wired client carries
// the retry policy for transient upstream failures.
func WithHTTPClient(client *http.Client) Option {
	return func(c *ProviderClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the provider endpoint.
func WithBaseURL(baseURL string) Option {
	return func(c *ProviderClient) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewProviderClient builds the rates provider client.
func NewProviderClient(opts ...Option) *ProviderClient {
	client := &ProviderClient{
		baseURL:    defaultProviderURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if client.baseURL == "" {
		client.baseURL = defaultProviderURL
	}

	return client
}

// FetchRates pulls the rate table relative to the given base currency.
func (c *ProviderClient) FetchRates(ctx context.Context, base enums.Currency) (map[enums.Currency]decimal.Decimal, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "rates provider client not configured")
	}

	endpoint := fmt.Sprintf("%s/%s", strings.TrimRight(c.baseURL, "/"), url.PathEscape(string(base)))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build rates request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute rates request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "rates request failed")
	}

	var apiResp struct {
		Result   string             `json:"result"`
		BaseCode string             `json:"base_code"`
		Rates    map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode rates response")
	}
	if apiResp.Result != "" && apiResp.Result != "success" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("rates provider returned result %q", apiResp.Result))
	}
	if len(apiResp.Rates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "rates provider returned an empty table")
	}

	rates := make(map[enums.Currency]decimal.Decimal, len(apiResp.Rates))
	for code, rate := range apiResp.Rates {
		parsed, err := enums.ParseCurrency(code)
		if err != nil {
			continue
		}
		rates[parsed] = decimal.NewFromFloat(rate)
	}

	return rates, nil
}
