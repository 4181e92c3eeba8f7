package common

import (
	"context"
	"net/http"
	"strings"
)

// Role mirrors the access tiers of the proposal workspace. Authentication
// itself happens upstream; the API only consumes the already-verified
// identity headers the gateway forwards.
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleOwner      Role = "owner"
	RoleAdmin      Role = "admin"
	RoleUser       Role = "user"
)

// Principal identifies the caller for scoping proposal access.
type Principal struct {
	Email     string
	Role      Role
	CompanyID string
}

// SeesAllProposals reports whether the principal can list every proposal.
func (p Principal) SeesAllProposals() bool {
	return p.Role == RoleSuperAdmin || p.Role == RoleOwner
}

// SeesCompanyProposals reports whether the principal is scoped to a company.
func (p Principal) SeesCompanyProposals() bool {
	return p.Role == RoleAdmin
}

type principalKey struct{}

// WithPrincipal stores the caller identity on the context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom extracts the caller identity from the context if present.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// PrincipalMiddleware reads the forwarded identity headers and rejects
// requests without one. Unknown roles collapse to the least privileged tier.
func PrincipalMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		email := strings.TrimSpace(r.Header.Get("X-User-Email"))
		if email == "" {
			JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity", nil)
			return
		}
		role := Role(strings.ToLower(strings.TrimSpace(r.Header.Get("X-User-Role"))))
		switch role {
		case RoleSuperAdmin, RoleOwner, RoleAdmin, RoleUser:
		default:
			role = RoleUser
		}
		p := Principal{
			Email:     strings.ToLower(email),
			Role:      role,
			CompanyID: strings.TrimSpace(r.Header.Get("X-Company-ID")),
		}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
	})
}
