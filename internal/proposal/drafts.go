package proposal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNoDraft signals that no autosaved draft exists for the proposal.
var ErrNoDraft = errors.New("proposal: no draft")

// Drafts holds autosaved proposal documents in Redis. Autosaves are cheap
// and frequent, so they live outside Postgres until an explicit save
// promotes them.
type Drafts struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewDrafts constructs the draft autosave layer.
func NewDrafts(rdb *redis.Client, ttl time.Duration) *Drafts {
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &Drafts{rdb: rdb, ttl: ttl}
}

func draftKey(id string) string {
	return "draft:" + id
}

// Put stores the draft, refreshing its TTL.
func (d *Drafts) Put(ctx context.Context, p Proposal) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	if err := d.rdb.Set(ctx, draftKey(p.ID), payload, d.ttl).Err(); err != nil {
		return fmt.Errorf("store draft: %w", err)
	}
	return nil
}

// Get loads the autosaved draft for a proposal id.
func (d *Drafts) Get(ctx context.Context, id string) (Proposal, error) {
	payload, err := d.rdb.Get(ctx, draftKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Proposal{}, ErrNoDraft
	}
	if err != nil {
		return Proposal{}, fmt.Errorf("load draft: %w", err)
	}
	var p Proposal
	if err := json.Unmarshal(payload, &p); err != nil {
		return Proposal{}, fmt.Errorf("unmarshal draft: %w", err)
	}
	return p, nil
}

// Discard removes the draft, typically after it was promoted to a real save.
func (d *Drafts) Discard(ctx context.Context, id string) error {
	if err := d.rdb.Del(ctx, draftKey(id)).Err(); err != nil {
		return fmt.Errorf("discard draft: %w", err)
	}
	return nil
}
