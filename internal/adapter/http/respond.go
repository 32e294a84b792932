package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/domain"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondDomainError maps the known sentinel errors onto HTTP statuses;
// anything else is a 500.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrSaleNotFound),
		errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrShiftNotFound),
		errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrTableNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrOrderCompleted),
		errors.Is(err, domain.ErrShiftNotOpen),
		errors.Is(err, domain.ErrShiftClosed),
		errors.Is(err, domain.ErrCashDifference),
		errors.Is(err, domain.ErrTipsUnresolved),
		errors.Is(err, domain.ErrTipsAlreadyResolved):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrNoRecipients),
		errors.Is(err, domain.ErrDecisionMissing):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

// session builds the caller identity from the auth layer's headers.
// Authentication itself happens upstream; the terminal UI forwards the
// resolved identity.
func session(r *http.Request, defaultBranch string) domain.Session {
	sess := domain.Session{
		OrganizationID: r.Header.Get("X-Organization-ID"),
		BranchID:       r.Header.Get("X-Branch-ID"),
		UserID:         r.Header.Get("X-User-ID"),
	}
	if sess.BranchID == "" {
		sess.BranchID = defaultBranch
	}
	return sess
}
