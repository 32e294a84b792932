package domain

import "time"

// Product is a catalog row pulled back from the remote system of
// record. Stock is the last known server quantity; the terminal never
// decrements it directly, only through reservations.
type Product struct {
	ID             string
	OrganizationID string
	BranchID       string
	Name           string
	Category       string
	Price          int64
	Stock          int
	UpdatedAt      time.Time
	Synced         bool
}

// ProductQuery is a paginated catalog query: offset/limit with
// optional free-text and category filters.
type ProductQuery struct {
	BranchID string
	Search   string
	Category string
	Page     int
	Limit    int
}

func (q *ProductQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 20
	}
}

func (q ProductQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// ProductPage is the pagination envelope product queries return.
type ProductPage struct {
	Data       []*Product `json:"data"`
	Total      int        `json:"total"`
	Page       int        `json:"page"`
	TotalPages int        `json:"totalPages"`
}

// ProductTrend is one line of the day/range sales trend aggregation.
type ProductTrend struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
	Total     int64  `json:"total"`
}
