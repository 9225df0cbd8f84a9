//go:build integration

package events

import (
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
)

func skipWithoutNATS(t *testing.T) string {
	t.Helper()
	url := os.Getenv("NATS_URL")
	if url == "" {
		t.Skip("NATS_URL not set, skipping integration test")
	}
	return url
}

func TestIntegration_PublishScoreRefreshed(t *testing.T) {
	url := skipWithoutNATS(t)

	c, err := NewClient(url, os.Getenv("NATS_TOKEN"), slog.Default())
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer c.Close()

	nc, err := nats.Connect(url)
	if err != nil {
		t.Fatalf("failed to open subscriber connection: %v", err)
	}
	defer nc.Close()

	received := make(chan *nats.Msg, 1)
	sub, err := nc.ChanSubscribe(SubjectScoreRefreshed, received)
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	defer sub.Unsubscribe()

	evt := ScoreRefreshed{AccountID: "itest", LevelScore: 515.8, Tier: "Ruby", Timestamp: Now()}
	if err := c.Publish(SubjectScoreRefreshed, evt); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case msg := <-received:
		var got ScoreRefreshed
		if err := json.Unmarshal(msg.Data, &got); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}
		if got.Tier != "Ruby" {
			t.Errorf("expected tier Ruby, got %q", got.Tier)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}
