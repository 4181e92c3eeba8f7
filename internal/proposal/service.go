package proposal

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sitc-travel/backend-proposal/internal/common"
	"github.com/sitc-travel/backend-proposal/internal/obs"
	"github.com/sitc-travel/backend-proposal/internal/pricing"
)

// ErrForbidden is returned when a principal reaches for a proposal outside
// its scope.
var ErrForbidden = common.NewAppError("FORBIDDEN", "proposal not accessible", http.StatusForbidden, nil)

// Defaults are the pricing values filled into documents that omit them.
type Defaults struct {
	Currency      string
	VatPercent    float64
	MarkupPercent float64
}

// Service owns proposal lifecycle: normalization, persistence, draft
// autosave and access scoping.
type Service struct {
	store    *Store
	drafts   *Drafts
	defaults Defaults
	log      zerolog.Logger
	now      func() time.Time
}

// NewService constructs the proposal service.
func NewService(store *Store, drafts *Drafts, defaults Defaults, log zerolog.Logger) *Service {
	return &Service{
		store:    store,
		drafts:   drafts,
		defaults: defaults,
		log:      log,
		now:      time.Now,
	}
}

// Normalize fills pricing and inclusion defaults so every stored document is
// complete. Values come from service configuration, never from package
// globals, so two deployments can disagree on defaults without code changes.
func (s *Service) Normalize(doc Document) Document {
	if doc.Pricing.Currency == "" {
		doc.Pricing.Currency = s.defaults.Currency
	}
	if doc.Pricing.EnableVat == nil {
		enabled := true
		doc.Pricing.EnableVat = &enabled
	}
	if doc.Pricing.VatPercent == nil {
		vat := s.defaults.VatPercent
		doc.Pricing.VatPercent = &vat
	}
	if doc.Pricing.ShowPrices == nil {
		show := true
		doc.Pricing.ShowPrices = &show
	}
	if doc.Pricing.Markups == nil {
		def := pricing.MarkupConfig{Kind: pricing.MarkupPercent, Value: s.defaults.MarkupPercent}
		doc.Pricing.Markups = &pricing.CategoryMarkups{
			Hotels:         def,
			Meetings:       def,
			Flights:        def,
			Transportation: def,
			Activities:     def,
			CustomItems:    def,
		}
	}
	if doc.Inclusions == nil {
		doc.Inclusions = &Inclusions{
			Hotels:         true,
			Flights:        true,
			Transportation: true,
			CustomItems:    true,
		}
	}
	return doc
}

// Save persists a proposal as a finished document and drops any autosaved
// draft it supersedes.
func (s *Service) Save(ctx context.Context, principal common.Principal, p Proposal) (Proposal, error) {
	prepared, err := s.prepare(ctx, principal, p)
	if err != nil {
		obs.ProposalsSavedTotal.WithLabelValues("save", "error").Inc()
		return Proposal{}, err
	}
	prepared.IsDraft = false
	if err := s.store.Save(ctx, prepared); err != nil {
		obs.ProposalsSavedTotal.WithLabelValues("save", "error").Inc()
		return Proposal{}, err
	}
	if err := s.drafts.Discard(ctx, prepared.ID); err != nil {
		s.log.Warn().Err(err).Str("proposal_id", prepared.ID).Msg("discard superseded draft")
	}
	obs.ProposalsSavedTotal.WithLabelValues("save", "ok").Inc()
	return prepared, nil
}

// Autosave stores a draft snapshot in Redis without touching Postgres.
func (s *Service) Autosave(ctx context.Context, principal common.Principal, p Proposal) (Proposal, error) {
	prepared, err := s.prepare(ctx, principal, p)
	if err != nil {
		obs.DraftAutosaveTotal.WithLabelValues("error").Inc()
		return Proposal{}, err
	}
	prepared.IsDraft = true
	if err := s.drafts.Put(ctx, prepared); err != nil {
		obs.DraftAutosaveTotal.WithLabelValues("error").Inc()
		return Proposal{}, err
	}
	obs.DraftAutosaveTotal.WithLabelValues("ok").Inc()
	return prepared, nil
}

// Get returns the freshest view of a proposal: the autosaved draft when it
// is newer than the stored document, the stored document otherwise.
func (s *Service) Get(ctx context.Context, principal common.Principal, id string) (Proposal, error) {
	stored, storeErr := s.store.Get(ctx, id)
	draft, draftErr := s.drafts.Get(ctx, id)

	switch {
	case storeErr == nil && draftErr == nil:
		if err := s.authorize(principal, stored); err != nil {
			return Proposal{}, err
		}
		if draft.LastModified.After(stored.LastModified) {
			return draft, nil
		}
		return stored, nil
	case storeErr == nil:
		if !errors.Is(draftErr, ErrNoDraft) {
			s.log.Warn().Err(draftErr).Str("proposal_id", id).Msg("draft lookup failed")
		}
		if err := s.authorize(principal, stored); err != nil {
			return Proposal{}, err
		}
		return stored, nil
	case errors.Is(storeErr, ErrNotFound) && draftErr == nil:
		if err := s.authorize(principal, draft); err != nil {
			return Proposal{}, err
		}
		return draft, nil
	default:
		return Proposal{}, storeErr
	}
}

// GetDraft returns only the autosaved draft.
func (s *Service) GetDraft(ctx context.Context, principal common.Principal, id string) (Proposal, error) {
	draft, err := s.drafts.Get(ctx, id)
	if errors.Is(err, ErrNoDraft) {
		return Proposal{}, ErrNotFound
	}
	if err != nil {
		return Proposal{}, err
	}
	if err := s.authorize(principal, draft); err != nil {
		return Proposal{}, err
	}
	return draft, nil
}

// Delete removes the stored proposal and any lingering draft.
func (s *Service) Delete(ctx context.Context, principal common.Principal, id string) error {
	stored, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorize(principal, stored); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.drafts.Discard(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("proposal_id", id).Msg("discard draft on delete")
	}
	return nil
}

// List returns proposal summaries scoped to the principal.
func (s *Service) List(ctx context.Context, principal common.Principal, page, perPage int) ([]Summary, int64, error) {
	return s.store.List(ctx, principal, page, perPage)
}

// prepare stamps ownership and timestamps on an incoming payload and checks
// the principal may write it.
func (s *Service) prepare(ctx context.Context, principal common.Principal, p Proposal) (Proposal, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	} else if _, err := uuid.Parse(p.ID); err != nil {
		return Proposal{}, common.NewAppError("VALIDATION", "id must be a UUID", http.StatusBadRequest, err)
	}

	existing, err := s.store.Get(ctx, p.ID)
	switch {
	case err == nil:
		if authErr := s.authorize(principal, existing); authErr != nil {
			return Proposal{}, authErr
		}
		// Ownership is fixed at creation.
		p.CreatedBy = existing.CreatedBy
		p.CompanyID = existing.CompanyID
	case errors.Is(err, ErrNotFound):
		p.CreatedBy = principal.Email
		p.CompanyID = principal.CompanyID
	default:
		return Proposal{}, err
	}

	p.LastModified = s.now().UTC()
	p.Document = s.Normalize(p.Document)
	return p, nil
}

func (s *Service) authorize(principal common.Principal, p Proposal) error {
	switch {
	case principal.SeesAllProposals():
		return nil
	case principal.SeesCompanyProposals():
		if p.CompanyID == principal.CompanyID {
			return nil
		}
	default:
		if p.CreatedBy == principal.Email {
			return nil
		}
	}
	return ErrForbidden
}
