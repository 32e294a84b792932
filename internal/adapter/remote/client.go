// Package remote is the HTTP client to the central system of record:
// token exchange, batched graph upload of sales and catalog pulls.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/config"
	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/domain"
	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/interfaces"
)

type Client struct {
	BaseURL       string
	HTTP          *http.Client
	authTimeout   time.Duration
	uploadTimeout time.Duration

	accessToken string
}

func NewClient(cfg config.RemoteConfig) *Client {
	return &Client{
		BaseURL:       cfg.BaseURL,
		authTimeout:   time.Duration(cfg.AuthTimeoutSeconds) * time.Second,
		uploadTimeout: time.Duration(cfg.UploadTimeoutSeconds) * time.Second,
		HTTP: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        100,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
	}
}

var _ interfaces.RemoteGateway = (*Client)(nil)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// ExchangeToken trades the session token for an access token. Failures
// propagate to the caller for retry; nothing is cached on error.
func (c *Client) ExchangeToken(ctx context.Context, sessionToken string) (*interfaces.Token, error) {
	ctx, cancel := context.WithTimeout(ctx, c.authTimeout)
	defer cancel()

	body, err := json.Marshal(map[string]string{"session_token": sessionToken})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/auth/token", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token exchange failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token exchange returned status %d: %s", resp.StatusCode, readBody(resp.Body))
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}

	c.accessToken = tr.AccessToken
	return &interfaces.Token{
		AccessToken: tr.AccessToken,
		ExpiresAt:   time.Now().UTC().Add(time.Duration(tr.ExpiresIn) * time.Second),
	}, nil
}

type saleItemPayload struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
	UnitPrice int64  `json:"unit_price"`
	Total     int64  `json:"total"`
}

type salePayload struct {
	ID             string            `json:"id"`
	OrganizationID string            `json:"organization_id"`
	BranchID       string            `json:"branch_id"`
	ShiftID        *string           `json:"shift_id"`
	OrderID        *string           `json:"order_id"`
	Total          int64             `json:"total"`
	PaymentMethod  string            `json:"payment_method"`
	Tip            int64             `json:"tip"`
	Discount       int64             `json:"discount"`
	CreatedAt      time.Time         `json:"created_at"`
	Items          []saleItemPayload `json:"items"`
}

type uploadRequest struct {
	BranchID string        `json:"branch_id"`
	Sales    []salePayload `json:"sales"`
}

// UploadSales posts the batch to the graph-sync endpoint. Any non-2xx
// status is an error; the remote upserts by id, so retries converge.
func (c *Client) UploadSales(ctx context.Context, branchID string, sales []*domain.Sale) error {
	ctx, cancel := context.WithTimeout(ctx, c.uploadTimeout)
	defer cancel()

	payload := uploadRequest{BranchID: branchID, Sales: make([]salePayload, 0, len(sales))}
	for _, sale := range sales {
		sp := salePayload{
			ID:             sale.ID,
			OrganizationID: sale.OrganizationID,
			BranchID:       sale.BranchID,
			ShiftID:        sale.ShiftID,
			OrderID:        sale.OrderID,
			Total:          sale.Total,
			PaymentMethod:  string(sale.PaymentMethod),
			Tip:            sale.Tip,
			Discount:       sale.Discount,
			CreatedAt:      sale.CreatedAt,
		}
		for _, item := range sale.Items {
			sp.Items = append(sp.Items, saleItemPayload{
				ID:        item.ID,
				ProductID: item.ProductID,
				Qty:       item.Qty,
				UnitPrice: item.UnitPrice,
				Total:     item.Total,
			})
		}
		payload.Sales = append(payload.Sales, sp)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/sync/sales", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("sales upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("sales upload returned status %d: %s", resp.StatusCode, readBody(resp.Body))
	}
	return nil
}

type productResponse struct {
	Products []struct {
		ID             string    `json:"id"`
		OrganizationID string    `json:"organization_id"`
		BranchID       string    `json:"branch_id"`
		Name           string    `json:"name"`
		Category       string    `json:"category"`
		Price          int64     `json:"price"`
		Stock          int       `json:"stock"`
		UpdatedAt      time.Time `json:"updated_at"`
	} `json:"products"`
}

func (c *Client) FetchProducts(ctx context.Context, branchID string) ([]*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, c.uploadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/catalog/products?branch_id="+branchID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog request: %w", err)
	}
	c.authorize(req)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog pull failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog pull returned status %d: %s", resp.StatusCode, readBody(resp.Body))
	}

	var pr productResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return nil, fmt.Errorf("failed to decode catalog response: %w", err)
	}

	products := make([]*domain.Product, 0, len(pr.Products))
	for _, p := range pr.Products {
		products = append(products, &domain.Product{
			ID:             p.ID,
			OrganizationID: p.OrganizationID,
			BranchID:       p.BranchID,
			Name:           p.Name,
			Category:       p.Category,
			Price:          p.Price,
			Stock:          p.Stock,
			UpdatedAt:      p.UpdatedAt,
		})
	}
	return products, nil
}

func (c *Client) authorize(req *http.Request) {
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}
}

func readBody(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 512))
	return string(bytes.TrimSpace(b))
}
