// Package extract calls the Gemini generateContent API to turn raw mail text
// into structured job records, and post-processes the model's JSON output.
package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	// ErrNotConfigured indicates the extraction client has no API key
	ErrNotConfigured = errors.New("extraction client not configured")
	// ErrAPICallFailed indicates the extraction API call failed
	ErrAPICallFailed = errors.New("extraction API call failed")
	// ErrInvalidResponse indicates an unexpected response envelope
	ErrInvalidResponse = errors.New("invalid extraction API response")
	// ErrRateLimited indicates the API reported a rate-limit or quota breach.
	// It is the batch abort sentinel: callers must stop issuing further
	// extraction calls for the rest of the run.
	ErrRateLimited = errors.New("extraction API rate limited")
)

// Client handles Gemini API communication
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an extraction client for the given model
func NewClient(apiKey, model, baseURL string) *Client {
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// IsConfigured returns whether the client has an API key
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// generateRequest is the generateContent request payload
type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMIMEType string `json:"response_mime_type"`
}

// generateResponse is the generateContent response envelope. The payload we
// care about is nested at candidates[0].content.parts[0].text.
type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate sends prompt to the model in JSON response mode and returns the
// raw text payload. Rate limiting is reported as ErrRateLimited; every other
// failure wraps ErrAPICallFailed or ErrInvalidResponse.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.IsConfigured() {
		return "", ErrNotConfigured
	}

	request := generateRequest{
		Contents: []content{
			{Parts: []part{{Text: prompt}}},
		},
		GenerationConfig: generationConfig{
			ResponseMIMEType: "application/json",
		},
	}

	body, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAPICallFailed, err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAPICallFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAPICallFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAPICallFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		if isRateLimitResponse(resp.StatusCode, string(respBody)) {
			return "", fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
		}
		return "", fmt.Errorf("%w: status %d: %s", ErrAPICallFailed, resp.StatusCode, truncate(string(respBody), 300))
	}

	var genResp generateResponse
	if err := json.Unmarshal(respBody, &genResp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	if len(genResp.Candidates) == 0 ||
		len(genResp.Candidates[0].Content.Parts) == 0 ||
		genResp.Candidates[0].Content.Parts[0].Text == "" {
		return "", ErrInvalidResponse
	}

	return genResp.Candidates[0].Content.Parts[0].Text, nil
}

// isRateLimitResponse detects rate limiting by status code or body markers
func isRateLimitResponse(statusCode int, body string) bool {
	if statusCode == http.StatusTooManyRequests {
		return true
	}
	if statusCode >= 500 && statusCode < 600 {
		return true
	}
	lower := strings.ToLower(body)
	return strings.Contains(lower, "quota") || strings.Contains(lower, "rate limit")
}

// truncate caps s at n bytes for log-safe error messages
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
