// Package scoring is the client for the external scoring model: one
// synchronous request/response JSON exchange per refresh. The model itself
// is an opaque collaborator; this package only ships feature vectors out
// and decodes score payloads back.
package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/loopwork/credo/internal/domain"
)

// Request is the feature payload submitted for one account.
type Request struct {
	UserID        string                 `json:"user_id"`
	Role          string                 `json:"role"`
	Features      map[string]float64     `json:"features"`
	ActivityLog   []domain.ActivityEvent `json:"activity_log"`
	HistoryScores []float64              `json:"history_scores"`
}

// Response is the model's score bundle for one request.
type Response struct {
	Status           string  `json:"status"`
	FinalScore       float64 `json:"final_score"`
	CreditScore      float64 `json:"credit_score"`
	SpamScore        float64 `json:"spam_score"`
	Tier             string  `json:"tier"`
	ReasonLog        string  `json:"reason_log"`
	Penalty          float64 `json:"penalty"`
	ConsistencyBonus float64 `json:"consistency_bonus"`
	Boost            float64 `json:"boost"`
	Message          string  `json:"message"`
}

// CreditRequest carries one account's feature vector plus a sample of
// same-role vectors, so the model can score creditworthiness relative to
// the account's peer population.
type CreditRequest struct {
	UserID     string               `json:"user_id"`
	Role       string               `json:"role"`
	Features   map[string]float64   `json:"features"`
	Population []map[string]float64 `json:"population"`
}

// CreditResponse is the model's population-relative credit figure.
type CreditResponse struct {
	Status      string  `json:"status"`
	CreditScore float64 `json:"credit_score"`
	Message     string  `json:"message"`
}

// Scorer is the capability interface the aggregator depends on, so the
// model can be faked deterministically in tests.
type Scorer interface {
	Score(ctx context.Context, req Request) (*Response, error)
	CreditScore(ctx context.Context, req CreditRequest) (*CreditResponse, error)
}

type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient builds a scoring model client. timeout bounds the full exchange;
// hitting it is reported as an upstream failure like any other.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Score submits one feature payload and returns the model's score bundle.
// Transport errors, non-2xx statuses and error payloads all surface as
// domain.ErrUpstreamUnavailable.
func (c *Client) Score(ctx context.Context, reqBody Request) (*Response, error) {
	respBody, err := c.post(ctx, "/calculate-score", reqBody)
	if err != nil {
		return nil, err
	}

	var out Response
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, domain.Upstreamf("unmarshal response: %v", err)
	}
	if out.Status != "success" {
		return nil, domain.Upstreamf("scoring model error: %s", out.Message)
	}
	return &out, nil
}

// CreditScore submits one account's vector with its peer sample and returns
// the model's population-relative credit figure. Failure modes mirror Score.
func (c *Client) CreditScore(ctx context.Context, reqBody CreditRequest) (*CreditResponse, error) {
	respBody, err := c.post(ctx, "/get-credit-score", reqBody)
	if err != nil {
		return nil, err
	}

	var out CreditResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, domain.Upstreamf("unmarshal response: %v", err)
	}
	if out.Status != "success" {
		return nil, domain.Upstreamf("scoring model error: %s", out.Message)
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, domain.Upstreamf("scoring call: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.Upstreamf("read response: %v", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, domain.Upstreamf("scoring model returned %d: %s", resp.StatusCode, string(respBody))
	}
	return respBody, nil
}
