package quote

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/sitc-travel/backend-proposal/internal/common"
	"github.com/sitc-travel/backend-proposal/internal/proposal"
)

// Handler wires quote computation to HTTP.
type Handler struct {
	Svc      *Service
	Validate *validator.Validate
	MaxBody  int64
}

// ForProposal returns the computed quote for a stored proposal.
func (h *Handler) ForProposal(w http.ResponseWriter, r *http.Request) {
	principal, ok := common.PrincipalFrom(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity", nil)
		return
	}
	q, err := h.Svc.ForProposal(r.Context(), principal, chi.URLParam(r, "id"))
	if err != nil {
		common.WriteAppError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": q})
}

// Preview computes a quote over a posted document without persisting it.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	maxBody := h.MaxBody
	if maxBody <= 0 {
		maxBody = 1 << 20
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	var doc proposal.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON payload", nil)
		return
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(doc); err != nil {
			if verrs, ok := err.(validator.ValidationErrors); ok {
				details := make(map[string]string, len(verrs))
				for _, fe := range verrs {
					details[fe.Namespace()] = fe.Tag()
				}
				common.JSONError(w, http.StatusBadRequest, "VALIDATION", "invalid document", details)
				return
			}
			common.JSONError(w, http.StatusBadRequest, "VALIDATION", "invalid document", nil)
			return
		}
	}
	q, err := h.Svc.Preview(doc)
	if err != nil {
		common.WriteAppError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": q})
}
