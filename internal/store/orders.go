package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/africamarket/companion/internal/models"
)

// HistoryEntry is one committed order joined with its line items, the shape
// the presentation layer renders.
type HistoryEntry struct {
	models.Order
	Items []models.OrderItem `json:"items"`
}

// CommitCart converts the current cart into one order plus its line items
// inside a single transaction, then empties the cart. An empty cart is a
// no-op and returns a nil order. If the transaction fails nothing is written
// and the cart is untouched; if only the final cart clear fails, the order
// stands and the stale mirror is recovered by a later Reload.
func (s *Store) CommitCart() (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items) == 0 {
		return nil, nil
	}

	order := models.Order{
		PaidAt: time.Now().UnixMilli(),
		Total:  s.totalLocked(),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		for _, it := range s.items {
			pid := it.ProductID
			line := models.OrderItem{
				LineID:    newLineID(pid, order.OrderID),
				OrderID:   order.OrderID,
				ProductID: &pid,
				Title:     it.Title,
				UnitPrice: it.UnitPrice,
				Quantity:  it.Quantity,
			}
			if err := tx.Create(&line).Error; err != nil {
				return fmt.Errorf("insert order item %q: %w", pid, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("commit cart: %w", err)
	}

	if err := s.clearLocked(); err != nil {
		// the order is durable either way, the cart just looks stale
		s.log.Warn("clearing cart after commit", "order_id", order.OrderID, "error", err)
	}
	return &order, nil
}

// History returns all committed orders, newest first, each joined with its
// line items. Pure read.
func (s *Store) History() ([]HistoryEntry, error) {
	var orders []models.Order
	if err := s.db.Order("paid_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("read orders: %w", err)
	}

	entries := make([]HistoryEntry, 0, len(orders))
	for _, o := range orders {
		var items []models.OrderItem
		if err := s.db.Where("order_id = ?", o.OrderID).Find(&items).Error; err != nil {
			return nil, fmt.Errorf("read items of order %d: %w", o.OrderID, err)
		}
		entries = append(entries, HistoryEntry{Order: o, Items: items})
	}
	return entries, nil
}

// PurgeHistory deletes all order items and orders in one transaction. The
// legacy history table is migration input and stays untouched.
func (s *Store) PurgeHistory() error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.OrderItem{}).Error; err != nil {
			return fmt.Errorf("delete order items: %w", err)
		}
		if err := tx.Where("1 = 1").Delete(&models.Order{}).Error; err != nil {
			return fmt.Errorf("delete orders: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("purge history: %w", err)
	}
	return nil
}

// newLineID keeps line ids unique across repeated commits of the same
// product: product id + order id + a random suffix.
func newLineID(productID string, orderID int64) string {
	return fmt.Sprintf("%s_%d_%s", productID, orderID, uuid.NewString()[:8])
}
