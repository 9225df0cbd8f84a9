package registration

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"testing"

	"github.com/loopwork/credo/internal/domain"
)

type fakeRegistry struct {
	records map[int64]domain.EngagementRecord
}

func (f *fakeRegistry) GetEngagementRecord(_ context.Context, id int64) (*domain.EngagementRecord, error) {
	rec, ok := f.records[id]
	if !ok {
		return nil, domain.NotFoundf("engagement record %d", id)
	}
	return &rec, nil
}

func (f *fakeRegistry) NextEngagementRecords(_ context.Context, afterID int64, limit int) ([]domain.EngagementRecord, error) {
	var out []domain.EngagementRecord
	for id := afterID + 1; len(out) < limit && id <= afterID+int64(limit); id++ {
		if rec, ok := f.records[id]; ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

type fakeWriter struct {
	account *domain.Account
	profile *domain.RoleProfile
	err     error
}

func (f *fakeWriter) CreateAccountWithProfile(_ context.Context, a *domain.Account, p *domain.RoleProfile) error {
	if f.err != nil {
		return f.err
	}
	f.account = a
	f.profile = p
	return nil
}

func validInput() Input {
	return Input{
		Username:     "ada",
		Email:        "ada@example.com",
		Role:         domain.RoleDriver,
		EngagementID: 100,
	}
}

func singleRecordRegistry() *fakeRegistry {
	return &fakeRegistry{records: map[int64]domain.EngagementRecord{
		100: {EngagementID: 100, Social: 80, Financial: 90, GigWorker: 70, Job: 60},
	}}
}

func TestRegister_SingleRecordWindowBoost(t *testing.T) {
	writer := &fakeWriter{}
	svc := New(singleRecordRegistry(), writer, nil, slog.Default())

	account, err := svc.Register(context.Background(), validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 80*0.2+90*0.4+70*0.3+60*0.1 = 79; 79/100*20 = 15.8, no successors.
	if math.Abs(account.Scores.InitialBoost-15.8) > 1e-9 {
		t.Errorf("expected boost 15.8, got %v", account.Scores.InitialBoost)
	}
	if account.Scores.Tier != "Bronze" {
		t.Errorf("expected Bronze starting tier, got %q", account.Scores.Tier)
	}
	if writer.profile == nil || writer.profile.AccountID != account.ID {
		t.Error("expected role profile created for the account")
	}
	if writer.profile.Role != domain.RoleDriver {
		t.Errorf("expected driver profile, got %q", writer.profile.Role)
	}
}

func TestRegister_NormalizesAgainstSuccessors(t *testing.T) {
	registry := &fakeRegistry{records: map[int64]domain.EngagementRecord{
		100: {EngagementID: 100, Social: 80, Financial: 90, GigWorker: 70, Job: 60}, // raw 15.8
		101: {EngagementID: 101, Social: 50, Financial: 50, GigWorker: 50, Job: 50}, // raw 10
		102: {EngagementID: 102, Social: 100, Financial: 100, GigWorker: 100, Job: 100}, // raw 20
	}}
	writer := &fakeWriter{}
	svc := New(registry, writer, nil, slog.Default())

	account, err := svc.Register(context.Background(), validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// (15.8 - 10) / (20 - 10) * 20 = 11.6
	if math.Abs(account.Scores.InitialBoost-11.6) > 1e-9 {
		t.Errorf("expected normalized boost 11.6, got %v", account.Scores.InitialBoost)
	}
}

func TestRegister_ValidationFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Input)
	}{
		{"missing username", func(in *Input) { in.Username = "" }},
		{"missing email", func(in *Input) { in.Email = "" }},
		{"unknown role", func(in *Input) { in.Role = "pilot" }},
		{"missing engagement id", func(in *Input) { in.EngagementID = 0 }},
		{"unresolvable engagement id", func(in *Input) { in.EngagementID = 999 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writer := &fakeWriter{}
			svc := New(singleRecordRegistry(), writer, nil, slog.Default())

			in := validInput()
			tt.mutate(&in)

			_, err := svc.Register(context.Background(), in)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if writer.account != nil {
				t.Error("no account may persist after a rejected registration")
			}
		})
	}
}

func TestRegister_WriterFailurePropagates(t *testing.T) {
	writer := &fakeWriter{err: errors.New("db down")}
	svc := New(singleRecordRegistry(), writer, nil, slog.Default())

	_, err := svc.Register(context.Background(), validInput())
	if err == nil {
		t.Fatal("expected error from writer")
	}
}
