// Package torchapi is the HTTP client for the Torch back-office import API.
package torchapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var (
	// ErrNotConfigured indicates the client has no base URL or API key
	ErrNotConfigured = errors.New("torch API client not configured")
	// ErrRequestFailed indicates the HTTP call itself failed
	ErrRequestFailed = errors.New("torch API request failed")
	// ErrImportRejected indicates the API answered success=false
	ErrImportRejected = errors.New("torch API rejected the import")
)

// apiKeyHeader authenticates batch callers
const apiKeyHeader = "X-API-Key"

// Client calls the Torch import endpoints
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates an import API client
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// IsConfigured returns whether the client can make calls
func (c *Client) IsConfigured() bool {
	return c.baseURL != "" && c.apiKey != ""
}

// ImportJobRequest is the payload for POST /api/jobs/import.
// Provenance fields carry the original mail alongside the extracted record.
type ImportJobRequest struct {
	Title         string   `json:"title"`
	Company       string   `json:"company,omitempty"`
	Grade         string   `json:"grade"`
	Location      string   `json:"location,omitempty"`
	UnitPrice     *int     `json:"unitPrice,omitempty"`
	Summary       string   `json:"summary,omitempty"`
	Description   string   `json:"description,omitempty"`
	Skills        []string `json:"skills,omitempty"`
	OriginalTitle string   `json:"originalTitle"`
	OriginalBody  string   `json:"originalBody"`
	SenderEmail   string   `json:"senderEmail"`
	ReceivedAt    string   `json:"receivedAt"` // ISO-8601
}

// ImportTalentRequest is the payload for POST /api/talents/import.
// Talent mails are forwarded raw; no extraction happens on this path.
type ImportTalentRequest struct {
	OriginalTitle string `json:"originalTitle"`
	OriginalBody  string `json:"originalBody"`
	SenderEmail   string `json:"senderEmail"`
	ReceivedAt    string `json:"receivedAt"` // ISO-8601
}

// ImportResponse is the import API's answer
type ImportResponse struct {
	Success  bool   `json:"success"`
	JobID    string `json:"jobId,omitempty"`
	TalentID string `json:"talentId,omitempty"`
	Error    string `json:"error,omitempty"`
}

// ImportJob submits a structured job record. A success=false answer is
// returned as ErrImportRejected; the caller does not retry within the run.
func (c *Client) ImportJob(ctx context.Context, request ImportJobRequest) (*ImportResponse, error) {
	return c.post(ctx, "/api/jobs/import", request)
}

// ImportTalent forwards a raw talent mail
func (c *Client) ImportTalent(ctx context.Context, request ImportTalentRequest) (*ImportResponse, error) {
	return c.post(ctx, "/api/talents/import", request)
}

// post sends one authenticated JSON request and interprets the success flag
func (c *Client) post(ctx context.Context, path string, payload interface{}) (*ImportResponse, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apiKeyHeader, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", ErrRequestFailed, resp.StatusCode, string(respBody))
	}

	var importResp ImportResponse
	if err := json.Unmarshal(respBody, &importResp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}

	if !importResp.Success {
		return &importResp, fmt.Errorf("%w: %s", ErrImportRejected, importResp.Error)
	}

	return &importResp, nil
}
