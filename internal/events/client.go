// Package events publishes reputation lifecycle events over NATS so other
// platform services (notifications, analytics) can react without polling.
package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// Subjects published by the reputation engine.
const (
	SubjectAccountRegistered = "credo.account.registered"
	SubjectLoginFlagged      = "credo.login.flagged"
	SubjectScoreRefreshed    = "credo.score.refreshed"
)

// AccountRegistered is emitted after a successful registration.
type AccountRegistered struct {
	AccountID    string  `json:"account_id"`
	Role         string  `json:"role"`
	InitialBoost float64 `json:"initial_boost"`
	Timestamp    string  `json:"timestamp"`
}

// LoginFlagged is emitted when the cadence guard classifies a login as
// bot-like.
type LoginFlagged struct {
	AccountID string  `json:"account_id"`
	ClockTime string  `json:"clock_time"`
	RunLength int     `json:"run_length"`
	SpamScore float64 `json:"spam_score"`
	Timestamp string  `json:"timestamp"`
}

// ScoreRefreshed is emitted after an aggregation cycle persists a new
// score bundle.
type ScoreRefreshed struct {
	AccountID  string  `json:"account_id"`
	LevelScore float64 `json:"level_score"`
	Tier       string  `json:"tier"`
	Timestamp  string  `json:"timestamp"`
}

type Client struct {
	conn   *nats.Conn
	logger *slog.Logger
}

func NewClient(url, token string, logger *slog.Logger) (*Client, error) {
	opts := []nats.Option{
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	return &Client{conn: nc, logger: logger}, nil
}

// Publish marshals data and publishes it on subject. A nil client is a
// no-op, so the engine runs without a broker configured.
func (c *Client) Publish(subject string, data any) error {
	if c == nil {
		return nil
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return c.conn.Publish(subject, payload)
}

func (c *Client) Close() {
	if c == nil {
		return
	}
	c.conn.Close()
}

// Now returns the canonical event timestamp format.
func Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
