package proposal_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/sitc-travel/backend-proposal/internal/proposal"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestDraftRoundTrip(t *testing.T) {
	drafts := proposal.NewDrafts(newTestRedis(t), time.Hour)
	ctx := context.Background()

	p := proposal.Proposal{
		ID:           "3f6c2f1e-8f7a-4d2b-9a3c-1b2d3e4f5a6b",
		Name:         "London Group Nov 2026",
		CustomerName: "Acme Corp",
		CreatedBy:    "agent@example.com",
		IsDraft:      true,
		LastModified: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}
	if err := drafts.Put(ctx, p); err != nil {
		t.Fatalf("put draft: %v", err)
	}

	got, err := drafts.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("get draft: %v", err)
	}
	if got.Name != p.Name || got.CreatedBy != p.CreatedBy || !got.IsDraft {
		t.Fatalf("unexpected draft %+v", got)
	}
	if !got.LastModified.Equal(p.LastModified) {
		t.Fatalf("lastModified changed: %v", got.LastModified)
	}
}

func TestDraftMissing(t *testing.T) {
	drafts := proposal.NewDrafts(newTestRedis(t), time.Hour)
	if _, err := drafts.Get(context.Background(), "nope"); !errors.Is(err, proposal.ErrNoDraft) {
		t.Fatalf("expected ErrNoDraft, got %v", err)
	}
}

func TestDraftDiscard(t *testing.T) {
	drafts := proposal.NewDrafts(newTestRedis(t), time.Hour)
	ctx := context.Background()

	p := proposal.Proposal{ID: "a1b2c3d4-0000-0000-0000-000000000000", Name: "x"}
	if err := drafts.Put(ctx, p); err != nil {
		t.Fatalf("put draft: %v", err)
	}
	if err := drafts.Discard(ctx, p.ID); err != nil {
		t.Fatalf("discard draft: %v", err)
	}
	if _, err := drafts.Get(ctx, p.ID); !errors.Is(err, proposal.ErrNoDraft) {
		t.Fatalf("expected ErrNoDraft after discard, got %v", err)
	}
}
