//go:build integration

package store

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"

	"github.com/loopwork/credo/internal/domain"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	s, err := New(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}

	t.Cleanup(func() {
		s.Close()
	})
	return s
}

func testAccount(role domain.Role) (*domain.Account, *domain.RoleProfile) {
	id := uuid.New()
	suffix := id.String()[:8]
	a := &domain.Account{
		ID:       id,
		Username: "itest-" + suffix,
		Email:    "itest-" + suffix + "@example.com",
		Role:     role,
		Scores:   domain.ScoreBundle{Tier: "Bronze"},
	}
	p := &domain.RoleProfile{
		AccountID: id,
		Role:      role,
		Features:  map[string]float64{"rides_30d": 10},
	}
	return a, p
}

func TestIntegration_RegisterAndFetch(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	a, p := testAccount(domain.RoleDriver)
	if err := s.CreateAccountWithProfile(ctx, a, p); err != nil {
		t.Fatalf("CreateAccountWithProfile failed: %v", err)
	}
	t.Cleanup(func() {
		s.pool.Exec(ctx, "DELETE FROM accounts WHERE id = $1", a.ID)
	})

	got, err := s.GetAccount(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetAccount failed: %v", err)
	}
	if got.Username != a.Username {
		t.Errorf("expected username %q, got %q", a.Username, got.Username)
	}
	if got.Scores.Tier != "Bronze" {
		t.Errorf("expected Bronze tier on registration, got %q", got.Scores.Tier)
	}

	prof, err := s.GetProfile(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if prof.Feature("rides_30d") != 10 {
		t.Errorf("expected rides_30d 10, got %v", prof.Feature("rides_30d"))
	}
}

func TestIntegration_DuplicateUsernameRollsBack(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	a, p := testAccount(domain.RoleMerchant)
	if err := s.CreateAccountWithProfile(ctx, a, p); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	t.Cleanup(func() {
		s.pool.Exec(ctx, "DELETE FROM accounts WHERE id = $1", a.ID)
	})

	dup, dupProfile := testAccount(domain.RoleMerchant)
	dup.Username = a.Username
	err := s.CreateAccountWithProfile(ctx, dup, dupProfile)
	if err == nil {
		t.Fatal("expected duplicate username to fail")
	}

	// Neither row of the failed registration may persist.
	if _, err := s.GetAccount(ctx, dup.ID); err == nil {
		t.Error("account row leaked from rolled-back registration")
	}
	if _, err := s.GetProfile(ctx, dup.ID); err == nil {
		t.Error("profile row leaked from rolled-back registration")
	}
}

func TestIntegration_LoginHistoryOrdering(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	a, p := testAccount(domain.RoleDelivery)
	if err := s.CreateAccountWithProfile(ctx, a, p); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	t.Cleanup(func() {
		s.pool.Exec(ctx, "DELETE FROM accounts WHERE id = $1", a.ID)
	})

	for _, ts := range []string{"10:00:00", "10:00:00", "10:00:01"} {
		if err := s.AppendLogin(ctx, a.ID, ts); err != nil {
			t.Fatalf("AppendLogin failed: %v", err)
		}
	}

	times, err := s.LoginTimes(ctx, a.ID)
	if err != nil {
		t.Fatalf("LoginTimes failed: %v", err)
	}
	if len(times) != 3 || times[2] != "10:00:01" {
		t.Errorf("unexpected login history: %v", times)
	}
}

func TestIntegration_EngagementSuccessorLookup(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	base := int64(uuid.New().ID())
	for i := int64(0); i < 5; i++ {
		rec := domain.EngagementRecord{
			EngagementID: base + i,
			Social:       80, Financial: 90, GigWorker: 70, Job: 60,
		}
		if err := s.InsertEngagementRecord(ctx, rec); err != nil {
			t.Fatalf("InsertEngagementRecord failed: %v", err)
		}
	}
	t.Cleanup(func() {
		s.pool.Exec(ctx, "DELETE FROM engagement_records WHERE engagement_id >= $1 AND engagement_id < $2", base, base+5)
	})

	next, err := s.NextEngagementRecords(ctx, base, 3)
	if err != nil {
		t.Fatalf("NextEngagementRecords failed: %v", err)
	}
	if len(next) != 3 {
		t.Fatalf("expected 3 successors, got %d", len(next))
	}
	if next[0].EngagementID != base+1 {
		t.Errorf("expected ascending order starting at %d, got %d", base+1, next[0].EngagementID)
	}
}
