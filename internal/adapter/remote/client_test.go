package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/config"
	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/domain"
)

func newTestClient(url string) *Client {
	return NewClient(config.RemoteConfig{
		BaseURL:              url,
		AuthTimeoutSeconds:   2,
		UploadTimeoutSeconds: 2,
	})
}

func TestExchangeToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/token", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "session-abc", body["session_token"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "access-xyz",
			"expires_in":   3600,
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	token, err := client.ExchangeToken(context.Background(), "session-abc")
	require.NoError(t, err)
	assert.Equal(t, "access-xyz", token.AccessToken)
}

func TestExchangeTokenFailurePropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid session", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.ExchangeToken(context.Background(), "bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestUploadSales(t *testing.T) {
	var got uploadRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/token" {
			json.NewEncoder(w).Encode(map[string]interface{}{"access_token": "access-xyz", "expires_in": 3600})
			return
		}
		require.Equal(t, "/sync/sales", r.URL.Path)
		assert.Equal(t, "Bearer access-xyz", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.ExchangeToken(context.Background(), "s")
	require.NoError(t, err)

	sale, err := domain.NewSale("org-1", "branch-1", nil, domain.PaymentCard, 500, 0,
		[]domain.SaleItem{{ProductID: "p1", Qty: 2, UnitPrice: 4000}})
	require.NoError(t, err)

	require.NoError(t, client.UploadSales(context.Background(), "branch-1", []*domain.Sale{sale}))

	assert.Equal(t, "branch-1", got.BranchID)
	require.Len(t, got.Sales, 1)
	assert.Equal(t, sale.ID, got.Sales[0].ID)
	assert.Equal(t, int64(8000), got.Sales[0].Total)
	require.Len(t, got.Sales[0].Items, 1)
	assert.Equal(t, "p1", got.Sales[0].Items[0].ProductID)
}

func TestUploadSalesServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "replica lag", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	sale, err := domain.NewSale("org-1", "branch-1", nil, domain.PaymentCash, 0, 0,
		[]domain.SaleItem{{ProductID: "p1", Qty: 1, UnitPrice: 1000}})
	require.NoError(t, err)

	err = client.UploadSales(context.Background(), "branch-1", []*domain.Sale{sale})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestFetchProducts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/catalog/products", r.URL.Path)
		assert.Equal(t, "branch-1", r.URL.Query().Get("branch_id"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"products": []map[string]interface{}{
				{"id": "p1", "branch_id": "branch-1", "name": "pan", "category": "bakery", "price": 2000, "stock": 12},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	products, err := client.FetchProducts(context.Background(), "branch-1")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "pan", products[0].Name)
	assert.Equal(t, 12, products[0].Stock)
	assert.Equal(t, int64(2000), products[0].Price)
}
