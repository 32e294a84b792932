package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/adapter/logger"
	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/domain"
	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/interfaces"
)

type ShiftHandler struct {
	service       interfaces.ShiftService
	defaultBranch string
	logger        logger.Logger
}

func NewShiftHandler(service interfaces.ShiftService, defaultBranch string, logger logger.Logger) *ShiftHandler {
	return &ShiftHandler{
		service:       service,
		defaultBranch: defaultBranch,
		logger:        logger,
	}
}

type OpenShiftRequest struct {
	InitialCash int64  `json:"initial_cash"`
	TurnType    string `json:"turn_type"`
}

type AddExpenseRequest struct {
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
}

type ResolveTipsRequest struct {
	Recipients []string                      `json:"recipients"`
	Decisions  map[string]domain.TipDecision `json:"decisions"`
}

type CloseShiftRequest struct {
	Count        []domain.DenominationCount `json:"count"`
	External     domain.LedgerTotals        `json:"external"`
	AuthorizedBy *string                    `json:"authorized_by,omitempty"`
}

func (h *ShiftHandler) OpenShift(w http.ResponseWriter, r *http.Request) {
	var req OpenShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	shift, err := h.service.Open(r.Context(), session(r, h.defaultBranch), interfaces.OpenShiftCommand{
		InitialCash: req.InitialCash,
		TurnType:    req.TurnType,
	})
	if err != nil {
		h.respondServiceError(w, "shift_open_rejected", err)
		return
	}
	respondJSON(w, http.StatusCreated, shift)
}

func (h *ShiftHandler) CurrentShift(w http.ResponseWriter, r *http.Request) {
	shift, err := h.service.Current(r.Context(), session(r, h.defaultBranch))
	if err != nil {
		h.respondServiceError(w, "current_shift_failed", err)
		return
	}
	respondJSON(w, http.StatusOK, shift)
}

func (h *ShiftHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summarize(r.Context(), r.PathValue("id"))
	if err != nil {
		h.respondServiceError(w, "shift_summary_failed", err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (h *ShiftHandler) AddExpense(w http.ResponseWriter, r *http.Request) {
	var req AddExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	expense, err := h.service.AddExpense(r.Context(), session(r, h.defaultBranch), interfaces.AddExpenseCommand{
		ShiftID:     r.PathValue("id"),
		Description: req.Description,
		Amount:      req.Amount,
	})
	if err != nil {
		h.respondServiceError(w, "expense_rejected", err)
		return
	}
	respondJSON(w, http.StatusCreated, expense)
}

func (h *ShiftHandler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.service.ListExpenses(r.Context(), r.PathValue("id"))
	if err != nil {
		h.respondServiceError(w, "expense_list_failed", err)
		return
	}
	respondJSON(w, http.StatusOK, expenses)
}

func (h *ShiftHandler) ResolveTips(w http.ResponseWriter, r *http.Request) {
	var req ResolveTipsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resolution, err := h.service.ResolveTips(r.Context(), session(r, h.defaultBranch), interfaces.ResolveTipsCommand{
		ShiftID:    r.PathValue("id"),
		Recipients: req.Recipients,
		Decisions:  req.Decisions,
	})
	if err != nil {
		h.respondServiceError(w, "tips_rejected", err)
		return
	}
	respondJSON(w, http.StatusOK, resolution)
}

func (h *ShiftHandler) CloseShift(w http.ResponseWriter, r *http.Request) {
	var req CloseShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.Close(r.Context(), session(r, h.defaultBranch), interfaces.CloseShiftCommand{
		ShiftID:      r.PathValue("id"),
		Count:        req.Count,
		External:     req.External,
		AuthorizedBy: req.AuthorizedBy,
	})
	if err != nil {
		h.respondServiceError(w, "shift_close_rejected", err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *ShiftHandler) respondServiceError(w http.ResponseWriter, action string, err error) {
	h.logger.Error(action, "Shift request failed", "", nil, err)
	if strings.Contains(err.Error(), "validation failed") {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondDomainError(w, err)
}
