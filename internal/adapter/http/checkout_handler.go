package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/adapter/logger"
	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/interfaces"
)

type CheckoutHandler struct {
	service       interfaces.CheckoutService
	defaultBranch string
	logger        logger.Logger
}

func NewCheckoutHandler(service interfaces.CheckoutService, defaultBranch string, logger logger.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service:       service,
		defaultBranch: defaultBranch,
		logger:        logger,
	}
}

type RecordSaleRequest struct {
	ShiftID       string            `json:"shift_id"`
	PaymentMethod string            `json:"payment_method"`
	Tip           int64             `json:"tip"`
	Discount      int64             `json:"discount"`
	OrderID       *string           `json:"order_id,omitempty"`
	Items         []SaleItemRequest `json:"items"`
}

type SaleItemRequest struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
	UnitPrice int64  `json:"unit_price"`
}

func (h *CheckoutHandler) RecordSale(w http.ResponseWriter, r *http.Request) {
	var req RecordSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cmd := interfaces.RecordSaleCommand{
		ShiftID:       req.ShiftID,
		PaymentMethod: req.PaymentMethod,
		Tip:           req.Tip,
		Discount:      req.Discount,
		OrderID:       req.OrderID,
	}
	for _, item := range req.Items {
		cmd.Items = append(cmd.Items, interfaces.SaleItemCommand{
			ProductID: item.ProductID,
			Qty:       item.Qty,
			UnitPrice: item.UnitPrice,
		})
	}

	sale, err := h.service.RecordSale(r.Context(), session(r, h.defaultBranch), cmd)
	if err != nil {
		h.logger.Error("sale_rejected", "Failed to record sale", "", nil, err)
		if strings.Contains(err.Error(), "validation failed") {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, sale)
}
