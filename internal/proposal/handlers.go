package proposal

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/sitc-travel/backend-proposal/internal/common"
)

// Handler wires the proposal service to HTTP.
type Handler struct {
	Svc          *Service
	Validate     *validator.Validate
	MaxBody      int64
	DefaultLimit int
	MaxLimit     int
}

// List returns proposal summaries visible to the caller.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := common.PrincipalFrom(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity", nil)
		return
	}
	defaultLimit := h.DefaultLimit
	if defaultLimit <= 0 {
		defaultLimit = 20
	}
	page, perPage := common.ParsePagination(r, defaultLimit)
	if h.MaxLimit > 0 && perPage > h.MaxLimit {
		perPage = h.MaxLimit
	}
	items, total, err := h.Svc.List(r.Context(), principal, page, perPage)
	if err != nil {
		common.WriteAppError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": items,
		"meta": common.Pagination{Page: page, PerPage: perPage, TotalItems: int(total)},
	})
}

// Create saves a new proposal document.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, "")
}

// Update saves an existing proposal document.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, chi.URLParam(r, "id"))
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request, id string) {
	principal, ok := common.PrincipalFrom(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity", nil)
		return
	}
	payload, ok := h.decode(w, r)
	if !ok {
		return
	}
	status := http.StatusOK
	if id != "" {
		payload.ID = id
	} else {
		status = http.StatusCreated
	}
	saved, err := h.Svc.Save(r.Context(), principal, payload)
	if err != nil {
		common.WriteAppError(w, err)
		return
	}
	common.JSON(w, status, map[string]any{"data": saved})
}

// Get returns the freshest view of a proposal, draft included.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	principal, ok := common.PrincipalFrom(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity", nil)
		return
	}
	p, err := h.Svc.Get(r.Context(), principal, chi.URLParam(r, "id"))
	if err != nil {
		common.WriteAppError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": p})
}

// Delete removes a proposal.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := common.PrincipalFrom(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity", nil)
		return
	}
	if err := h.Svc.Delete(r.Context(), principal, chi.URLParam(r, "id")); err != nil {
		common.WriteAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Autosave stores a draft snapshot for the proposal.
func (h *Handler) Autosave(w http.ResponseWriter, r *http.Request) {
	principal, ok := common.PrincipalFrom(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity", nil)
		return
	}
	payload, ok := h.decode(w, r)
	if !ok {
		return
	}
	payload.ID = chi.URLParam(r, "id")
	draft, err := h.Svc.Autosave(r.Context(), principal, payload)
	if err != nil {
		common.WriteAppError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{
		"id":           draft.ID,
		"isDraft":      draft.IsDraft,
		"lastModified": draft.LastModified,
	}})
}

// GetDraft returns the autosaved draft only.
func (h *Handler) GetDraft(w http.ResponseWriter, r *http.Request) {
	principal, ok := common.PrincipalFrom(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity", nil)
		return
	}
	draft, err := h.Svc.GetDraft(r.Context(), principal, chi.URLParam(r, "id"))
	if err != nil {
		common.WriteAppError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": draft})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (Proposal, bool) {
	maxBody := h.MaxBody
	if maxBody <= 0 {
		maxBody = 1 << 20
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	var p Proposal
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON payload", nil)
		return Proposal{}, false
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(p); err != nil {
			common.JSONError(w, http.StatusBadRequest, "VALIDATION", "invalid proposal", validationDetails(err))
			return Proposal{}, false
		}
	}
	return p, true
}

func validationDetails(err error) any {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		details[fe.Namespace()] = fe.Tag()
	}
	return details
}
