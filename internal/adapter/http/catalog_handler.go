package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/adapter/logger"
	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/domain"
	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/interfaces"
)

// CatalogHandler serves the read side the terminal UI browses: product
// pages, availability, trend aggregations and the floor plan.
type CatalogHandler struct {
	products      interfaces.ProductRepository
	sales         interfaces.SaleRepository
	tables        interfaces.TableRepository
	reservations  interfaces.ReservationService
	defaultBranch string
	logger        logger.Logger
}

func NewCatalogHandler(
	products interfaces.ProductRepository,
	sales interfaces.SaleRepository,
	tables interfaces.TableRepository,
	reservations interfaces.ReservationService,
	defaultBranch string,
	logger logger.Logger,
) *CatalogHandler {
	return &CatalogHandler{
		products:      products,
		sales:         sales,
		tables:        tables,
		reservations:  reservations,
		defaultBranch: defaultBranch,
		logger:        logger,
	}
}

func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	query := domain.ProductQuery{
		BranchID: session(r, h.defaultBranch).BranchID,
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Page:     page,
		Limit:    limit,
	}

	result, err := h.products.Paginate(r.Context(), query)
	if err != nil {
		h.logger.Error("product_query_failed", "Failed to query products", "", nil, err)
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *CatalogHandler) Availability(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("id")
	available, err := h.reservations.Available(r.Context(), productID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"product_id": productID,
		"available":  available,
	})
}

// ProductTrend aggregates item sales for the branch over [from, to).
// Defaults to the current day.
func (h *CatalogHandler) ProductTrend(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	if v := q.Get("from"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "from must be RFC3339")
			return
		}
		from = parsed
	}
	if v := q.Get("to"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "to must be RFC3339")
			return
		}
		to = parsed
	}

	trend, err := h.sales.ProductTrend(r.Context(), session(r, h.defaultBranch).BranchID, from, to)
	if err != nil {
		h.logger.Error("trend_query_failed", "Failed to aggregate product trend", "", nil, err)
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, trend)
}

func (h *CatalogHandler) ListTables(w http.ResponseWriter, r *http.Request) {
	tables, err := h.tables.List(r.Context(), session(r, h.defaultBranch).BranchID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tables)
}
