package proposal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sitc-travel/backend-proposal/internal/common"
)

// ErrNotFound is returned when no proposal matches the requested id.
var ErrNotFound = common.NewAppError("NOT_FOUND", "proposal not found", http.StatusNotFound, nil)

// Store persists proposals as JSONB documents alongside the columns the
// listing and access checks need.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore constructs a proposal store backed by the given pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Save upserts a proposal record. The caller decides whether it lands as a
// draft; an explicit save always clears the draft flag on an existing row.
func (s *Store) Save(ctx context.Context, p Proposal) error {
	doc, err := json.Marshal(p.Document)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	const q = `
		INSERT INTO proposals (id, name, customer_name, created_by, company_id, is_draft, document, last_modified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			customer_name = EXCLUDED.customer_name,
			is_draft = EXCLUDED.is_draft,
			document = EXCLUDED.document,
			last_modified = EXCLUDED.last_modified`
	_, err = s.pool.Exec(ctx, q, p.ID, p.Name, p.CustomerName, p.CreatedBy, p.CompanyID, p.IsDraft, doc, p.LastModified)
	if err != nil {
		return fmt.Errorf("save proposal: %w", err)
	}
	return nil
}

// Get loads one proposal by id.
func (s *Store) Get(ctx context.Context, id string) (Proposal, error) {
	const q = `
		SELECT id, name, customer_name, created_by, company_id, is_draft, document, last_modified
		FROM proposals
		WHERE id = $1`
	var (
		p   Proposal
		doc []byte
	)
	err := s.pool.QueryRow(ctx, q, id).Scan(
		&p.ID, &p.Name, &p.CustomerName, &p.CreatedBy, &p.CompanyID, &p.IsDraft, &doc, &p.LastModified,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Proposal{}, ErrNotFound
	}
	if err != nil {
		return Proposal{}, fmt.Errorf("get proposal: %w", err)
	}
	if err := json.Unmarshal(doc, &p.Document); err != nil {
		return Proposal{}, fmt.Errorf("unmarshal document: %w", err)
	}
	return p, nil
}

// Delete removes a proposal by id.
func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM proposals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete proposal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns proposal summaries visible to the principal, most recently
// modified first. Scope mirrors the roles: super admins and owners see
// everything, admins their company, users only what they created.
func (s *Store) List(ctx context.Context, principal common.Principal, page, perPage int) ([]Summary, int64, error) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 20
	}
	where := ""
	args := []any{}
	switch {
	case principal.SeesAllProposals():
	case principal.SeesCompanyProposals():
		where = "WHERE company_id = $1"
		args = append(args, principal.CompanyID)
	default:
		where = "WHERE created_by = $1"
		args = append(args, principal.Email)
	}

	var total int64
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM proposals "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count proposals: %w", err)
	}

	q := fmt.Sprintf(`
		SELECT id, name, customer_name, created_by, company_id, is_draft, last_modified
		FROM proposals
		%s
		ORDER BY last_modified DESC
		LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	args = append(args, perPage, (page-1)*perPage)

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list proposals: %w", err)
	}
	defer rows.Close()

	out := make([]Summary, 0, perPage)
	for rows.Next() {
		var sum Summary
		if err := rows.Scan(&sum.ID, &sum.Name, &sum.CustomerName, &sum.CreatedBy, &sum.CompanyID, &sum.IsDraft, &sum.LastModified); err != nil {
			return nil, 0, fmt.Errorf("scan proposal: %w", err)
		}
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate proposals: %w", err)
	}
	return out, total, nil
}
