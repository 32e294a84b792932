package http

import (
	"net/http"

	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/adapter/logger"
)

// NewRouter wires the local API the terminal UI consumes. Identity
// headers (X-Organization-ID, X-Branch-ID, X-User-ID) come from the
// upstream auth layer.
func NewRouter(
	checkout *CheckoutHandler,
	orders *OrderHandler,
	shifts *ShiftHandler,
	catalog *CatalogHandler,
	logger logger.Logger,
) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/sales", checkout.RecordSale)

	mux.HandleFunc("POST /api/orders", orders.OpenOrder)
	mux.HandleFunc("POST /api/orders/{id}/items", orders.AddItem)
	mux.HandleFunc("PUT /api/orders/{id}/items/{itemID}", orders.UpdateItem)
	mux.HandleFunc("DELETE /api/orders/{id}/items/{itemID}", orders.RemoveItem)
	mux.HandleFunc("POST /api/orders/{id}/complete", orders.CompleteOrder)
	mux.HandleFunc("DELETE /api/orders/{id}", orders.CancelOrder)
	mux.HandleFunc("GET /api/orders/{id}/holds", orders.Holds)
	mux.HandleFunc("GET /api/tables/{tableID}/orders", orders.OrdersForTable)

	mux.HandleFunc("POST /api/shifts", shifts.OpenShift)
	mux.HandleFunc("GET /api/shifts/current", shifts.CurrentShift)
	mux.HandleFunc("GET /api/shifts/{id}/summary", shifts.Summarize)
	mux.HandleFunc("POST /api/shifts/{id}/expenses", shifts.AddExpense)
	mux.HandleFunc("GET /api/shifts/{id}/expenses", shifts.ListExpenses)
	mux.HandleFunc("POST /api/shifts/{id}/tips", shifts.ResolveTips)
	mux.HandleFunc("POST /api/shifts/{id}/close", shifts.CloseShift)

	mux.HandleFunc("GET /api/products", catalog.ListProducts)
	mux.HandleFunc("GET /api/products/{id}/availability", catalog.Availability)
	mux.HandleFunc("GET /api/products/trend", catalog.ProductTrend)
	mux.HandleFunc("GET /api/tables", catalog.ListTables)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	var handler http.Handler = mux
	handler = LoggingMiddleware(logger)(handler)
	handler = RecoveryMiddleware(logger)(handler)
	return handler
}
