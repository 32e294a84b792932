// Package memory is an in-process implementation of every repository
// contract. It backs dev/demo terminals that run without a local
// PostgreSQL and doubles as the store the service tests run against.
// All repositories share one Store and its lock, so multi-row writes
// are atomic the same way the pgx transactions are.
package memory

import (
	"sync"

	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/domain"
)

type Store struct {
	mu           sync.RWMutex
	sales        map[string]*domain.Sale
	orders       map[string]*domain.Order
	shifts       map[string]*domain.Shift
	expenses     map[string]*domain.Expense
	tips         map[string]*domain.TipDistribution
	reservations map[string]*domain.StockReservation
	products     map[string]*domain.Product
	tables       map[string]*domain.Table
	userOrgs     map[string]string
}

func NewStore() *Store {
	return &Store{
		sales:        map[string]*domain.Sale{},
		orders:       map[string]*domain.Order{},
		shifts:       map[string]*domain.Shift{},
		expenses:     map[string]*domain.Expense{},
		tips:         map[string]*domain.TipDistribution{},
		reservations: map[string]*domain.StockReservation{},
		products:     map[string]*domain.Product{},
		tables:       map[string]*domain.Table{},
		userOrgs:     map[string]string{},
	}
}

// SeedUser registers a locally mirrored user account.
func (s *Store) SeedUser(userID, organizationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userOrgs[userID] = organizationID
}

func cloneSale(sale *domain.Sale) *domain.Sale {
	c := *sale
	c.Items = append([]domain.SaleItem(nil), sale.Items...)
	return &c
}

func cloneOrder(order *domain.Order) *domain.Order {
	c := *order
	c.Items = append([]domain.OrderItem(nil), order.Items...)
	return &c
}
