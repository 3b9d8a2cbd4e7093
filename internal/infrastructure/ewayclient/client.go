// Package ewayclient implements the e-way bill portal client over HTTP.
package ewayclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"leafbook/internal/core/apperror"
	"leafbook/internal/domain/ewaybill"
)

// Config holds portal connection settings.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

var _ ewaybill.Client = (*HTTPClient)(nil)

// HTTPClient talks to the portal's REST API.
type HTTPClient struct {
	cfg  Config
	http *http.Client
}

// New creates a portal client.
func New(cfg Config) *HTTPClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClient{
		cfg:  cfg,
		http: &http.Client{Timeout: timeout},
	}
}

// portalResponse is the portal's wire format.
type portalResponse struct {
	EwbNo       string `json:"ewbNo"`
	EwbDate     string `json:"ewbDate"`
	ValidUpto   string `json:"validUpto"`
	Status      string `json:"status"`
	ErrorDetail string `json:"errorDetail"`
}

// The portal reports timestamps in its own layout; newer endpoints use
// RFC 3339.
var portalTimeLayouts = []string{
	"02/01/2006 03:04:05 PM",
	time.RFC3339,
}

func parsePortalTime(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range portalTimeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// Generate requests an e-way bill for a shipment.
func (c *HTTPClient) Generate(ctx context.Context, req *ewaybill.Request) (*ewaybill.Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/ewayapi/v1.03/ewayapi", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call portal: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read portal response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("portal returned status %d: %s", resp.StatusCode, truncate(raw, 512))
	}

	var portal portalResponse
	if err := json.Unmarshal(raw, &portal); err != nil {
		return nil, fmt.Errorf("decode portal response: %w", err)
	}
	if portal.EwbNo == "" {
		return nil, fmt.Errorf("portal rejected request: %s", portal.ErrorDetail)
	}

	generatedAt, err := parsePortalTime(portal.EwbDate)
	if err != nil {
		return nil, fmt.Errorf("parse bill date %q: %w", portal.EwbDate, err)
	}
	validUntil, err := parsePortalTime(portal.ValidUpto)
	if err != nil {
		return nil, fmt.Errorf("parse validity date %q: %w", portal.ValidUpto, err)
	}

	return &ewaybill.Response{
		BillNo:      portal.EwbNo,
		GeneratedAt: generatedAt,
		ValidUntil:  validUntil,
		Raw:         raw,
	}, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

// Disabled is the client used when no portal credentials are configured.
// Every generation attempt fails fast and is recorded as FAILED.
type Disabled struct{}

var _ ewaybill.Client = Disabled{}

// Generate always reports that the portal is not configured.
func (Disabled) Generate(ctx context.Context, req *ewaybill.Request) (*ewaybill.Response, error) {
	return nil, apperror.NewValidation("e-way bill portal is not configured")
}
