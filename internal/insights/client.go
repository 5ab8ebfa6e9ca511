package insights

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"go.uber.org/zap"

	"github.com/xaim-test/apim-genai-gateway-toolkit/internal/metrics"
)

// DefaultEndpoint is the public Application Insights query API.
const DefaultEndpoint = "https://api.applicationinsights.io/v1/apps"

// tokenScope is the AAD scope for the Application Insights API.
const tokenScope = "https://api.applicationinsights.io/.default"

// QueryError reports a non-success response from the query API. The body is
// kept raw: the API's error payloads are treated as opaque text.
type QueryError struct {
	StatusCode int
	Body       []byte
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query failed with status %d: %s", e.StatusCode, bytes.TrimSpace(e.Body))
}

// ClientConfig configures a query Client.
type ClientConfig struct {
	// AppID is the Application Insights application id. Required.
	AppID string

	// Endpoint overrides DefaultEndpoint, e.g. for sovereign clouds or tests.
	Endpoint string

	// HTTPClient performs the requests; nil means http.DefaultClient. Any
	// request timeout is configured here.
	HTTPClient *http.Client

	// Metrics receives per-query instrumentation. Optional.
	Metrics *metrics.Collector
}

// Client runs queries against the Application Insights query API. One token
// is acquired per query; the credential caches as it sees fit.
type Client struct {
	appID      string
	endpoint   string
	credential azcore.TokenCredential
	httpClient *http.Client
	collector  *metrics.Collector
	logger     *zap.Logger
}

// NewClient creates a query client for the given application.
func NewClient(cfg ClientConfig, credential azcore.TokenCredential, logger *zap.Logger) (*Client, error) {
	if cfg.AppID == "" {
		return nil, fmt.Errorf("insights: app id is required")
	}
	if credential == nil {
		return nil, fmt.Errorf("insights: credential is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		appID:      cfg.AppID,
		endpoint:   strings.TrimRight(endpoint, "/"),
		credential: credential,
		httpClient: httpClient,
		collector:  cfg.Metrics,
		logger:     logger,
	}, nil
}

type queryRequest struct {
	Query string `json:"query"`
}

type queryResponse struct {
	Tables []struct {
		Columns []struct {
			Name string `json:"name"`
		} `json:"columns"`
		Rows [][]any `json:"rows"`
	} `json:"tables"`
}

// Query runs one query over the given ISO-8601 timespan (e.g. "P1D", "PT12H")
// and returns the primary table. Non-200 responses come back as *QueryError
// with the raw body; no retries happen at this layer.
func (c *Client) Query(ctx context.Context, query, timespan string) (Table, error) {
	start := time.Now()
	table, err := c.query(ctx, query, timespan)
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	c.collector.ObserveQuery(outcome, time.Since(start))
	return table, err
}

func (c *Client) query(ctx context.Context, query, timespan string) (Table, error) {
	token, err := c.credential.GetToken(ctx, policy.TokenRequestOptions{
		Scopes: []string{tokenScope},
	})
	if err != nil {
		return Table{}, fmt.Errorf("get token: %w", err)
	}

	body, err := json.Marshal(queryRequest{Query: query})
	if err != nil {
		return Table{}, fmt.Errorf("encode query: %w", err)
	}

	url := fmt.Sprintf("%s/%s/query?timespan=%s", c.endpoint, c.appID, timespan)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Table{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token.Token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Table{}, fmt.Errorf("post query: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Table{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Debug("query returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.Int("body_bytes", len(raw)))
		return Table{}, &QueryError{StatusCode: resp.StatusCode, Body: raw}
	}

	var parsed queryResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return Table{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(parsed.Tables) == 0 {
		return Table{}, fmt.Errorf("%w: no tables in response", ErrMalformedResponse)
	}

	primary := parsed.Tables[0]
	columns := make([]string, len(primary.Columns))
	for i, col := range primary.Columns {
		columns[i] = col.Name
	}
	return NewTable(columns, primary.Rows)
}
