// Package datasheet implements a safety.Provider backed by a remote chemical
// data sheet service. The wire shape matches this service's own safety API,
// so one deployment can source sheets from another.
package datasheet

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/deepbluepool/poolchem/internal/resilience"
	"github.com/deepbluepool/poolchem/internal/safety"
)

// ProviderName identifies this data sheet provider.
const ProviderName = "datasheet"

// ClientConfig holds configuration for the data sheet client.
type ClientConfig struct {
	// BaseURL is the data sheet service base URL (required),
	// e.g. "https://sheets.example.com".
	BaseURL string

	// APIKey authenticates requests when the remote requires it (optional).
	APIKey string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client fetches chemical data sheets over HTTP.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates a new data sheet client.
func NewClient(cfg ClientConfig) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig(ProviderName))
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// GetChemical fetches the data sheet for a chemical id.
// Returns safety.ErrChemicalNotFound when the remote has no sheet for the id.
func (c *Client) GetChemical(ctx context.Context, chemicalID string) (*safety.Chemical, error) {
	endpoint := fmt.Sprintf("%s/v1/safety/chemicals/%s", c.baseURL, url.PathEscape(chemicalID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %q", safety.ErrChemicalNotFound, chemicalID)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var sheet safety.Chemical
	if err := json.NewDecoder(resp.Body).Decode(&sheet); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if sheet.ID == "" {
		sheet.ID = chemicalID
	}

	return &sheet, nil
}
