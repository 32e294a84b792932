package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/adapter/logger"
	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/interfaces"
)

type OrderHandler struct {
	service       interfaces.OrderService
	defaultBranch string
	logger        logger.Logger
}

func NewOrderHandler(service interfaces.OrderService, defaultBranch string, logger logger.Logger) *OrderHandler {
	return &OrderHandler{
		service:       service,
		defaultBranch: defaultBranch,
		logger:        logger,
	}
}

type OpenOrderRequest struct {
	TableID *string            `json:"table_id,omitempty"`
	Diners  int                `json:"diners"`
	Items   []OrderItemRequest `json:"items"`
}

type OrderItemRequest struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
	UnitPrice int64  `json:"unit_price"`
}

type CompleteOrderRequest struct {
	ShiftID *string `json:"shift_id,omitempty"`
}

func (h *OrderHandler) OpenOrder(w http.ResponseWriter, r *http.Request) {
	var req OpenOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cmd := interfaces.OpenOrderCommand{TableID: req.TableID, Diners: req.Diners}
	for _, item := range req.Items {
		cmd.Items = append(cmd.Items, interfaces.OrderItemCommand{
			ProductID: item.ProductID,
			Qty:       item.Qty,
			UnitPrice: item.UnitPrice,
		})
	}

	order, err := h.service.OpenOrder(r.Context(), session(r, h.defaultBranch), cmd)
	if err != nil {
		h.respondServiceError(w, "order_open_rejected", err)
		return
	}
	respondJSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req OrderItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	order, err := h.service.AddItem(r.Context(), session(r, h.defaultBranch), r.PathValue("id"), interfaces.OrderItemCommand{
		ProductID: req.ProductID,
		Qty:       req.Qty,
		UnitPrice: req.UnitPrice,
	})
	if err != nil {
		h.respondServiceError(w, "order_item_rejected", err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req OrderItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	order, err := h.service.UpdateItem(r.Context(), session(r, h.defaultBranch), r.PathValue("id"), r.PathValue("itemID"), interfaces.OrderItemCommand{
		ProductID: req.ProductID,
		Qty:       req.Qty,
		UnitPrice: req.UnitPrice,
	})
	if err != nil {
		h.respondServiceError(w, "order_item_rejected", err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.RemoveItem(r.Context(), session(r, h.defaultBranch), r.PathValue("id"), r.PathValue("itemID"))
	if err != nil {
		h.respondServiceError(w, "order_item_rejected", err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) CompleteOrder(w http.ResponseWriter, r *http.Request) {
	var req CompleteOrderRequest
	if r.Body != nil {
		// An empty body completes without binding a shift.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	order, err := h.service.CompleteOrder(r.Context(), session(r, h.defaultBranch), r.PathValue("id"), req.ShiftID)
	if err != nil {
		h.respondServiceError(w, "order_complete_rejected", err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.service.CancelOrder(r.Context(), session(r, h.defaultBranch), r.PathValue("id")); err != nil {
		h.respondServiceError(w, "order_cancel_rejected", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *OrderHandler) Holds(w http.ResponseWriter, r *http.Request) {
	holds, err := h.service.Holds(r.Context(), r.PathValue("id"))
	if err != nil {
		h.respondServiceError(w, "order_holds_failed", err)
		return
	}
	respondJSON(w, http.StatusOK, holds)
}

func (h *OrderHandler) OrdersForTable(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.OrdersForTable(r.Context(), r.PathValue("tableID"))
	if err != nil {
		h.respondServiceError(w, "table_orders_failed", err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) respondServiceError(w http.ResponseWriter, action string, err error) {
	h.logger.Error(action, "Order request failed", "", nil, err)
	if strings.Contains(err.Error(), "validation failed") {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondDomainError(w, err)
}
