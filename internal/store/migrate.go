package store

import (
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/africamarket/companion/internal/models"
)

// MigrateLegacyHistory converts legacy flat history rows into normalized
// orders and order items. It runs at most once in the lifetime of the store:
// once any order exists the trigger condition is false and the call is a
// no-op, including after a partial migration (an accepted terminal state).
//
// Rows sharing a paid_at timestamp are treated as one historical order. That
// is the only grouping signal the legacy format carries; two purchases landing
// on the same millisecond would merge, which is preserved as-is.
func (s *Store) MigrateLegacyHistory() error {
	var legacy []models.HistoryRow
	if err := s.db.Find(&legacy).Error; err != nil {
		return fmt.Errorf("read legacy history: %w", err)
	}
	if len(legacy) == 0 {
		return nil
	}

	var orders int64
	if err := s.db.Model(&models.Order{}).Count(&orders).Error; err != nil {
		return fmt.Errorf("count orders: %w", err)
	}
	if orders > 0 {
		return nil
	}

	groups := make(map[int64][]models.HistoryRow)
	for _, row := range legacy {
		groups[row.PaidAt] = append(groups[row.PaidAt], row)
	}
	stamps := make([]int64, 0, len(groups))
	for paidAt := range groups {
		stamps = append(stamps, paidAt)
	}
	sort.Slice(stamps, func(i, j int) bool { return stamps[i] < stamps[j] })

	s.log.Info("migrating legacy history", "rows", len(legacy), "groups", len(stamps))

	for _, paidAt := range stamps {
		if err := s.migrateGroup(paidAt, groups[paidAt]); err != nil {
			// already-committed groups stand, the legacy rows stay for
			// diagnostic replay
			s.log.Error("migrating legacy order group", "paid_at", paidAt, "error", err)
		}
	}
	return nil
}

// migrateGroup inserts one order and its items all-or-nothing.
func (s *Store) migrateGroup(paidAt int64, rows []models.HistoryRow) error {
	var total int64
	for _, r := range rows {
		total += r.UnitPrice * r.Quantity
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		order := models.Order{PaidAt: paidAt, Total: total}
		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		for _, r := range rows {
			pid := legacyProductID(r.ProductID)
			lineKey := r.ProductID
			if pid != nil {
				lineKey = *pid
			}
			line := models.OrderItem{
				LineID:    newLineID(lineKey, order.OrderID),
				OrderID:   order.OrderID,
				ProductID: pid,
				Title:     r.Title,
				UnitPrice: r.UnitPrice,
				Quantity:  r.Quantity,
			}
			if err := tx.Create(&line).Error; err != nil {
				return fmt.Errorf("insert order item: %w", err)
			}
		}
		return nil
	})
}

// legacyProductID recovers a product id from a legacy row key. Older app
// versions wrote either the plain product id or a composite
// "<productID>_<suffix>" key; when neither parses, the item keeps no product
// id, which historical display does not need.
func legacyProductID(key string) *string {
	if key == "" {
		return nil
	}
	if i := strings.IndexByte(key, '_'); i >= 0 {
		if i == 0 {
			return nil
		}
		pid := key[:i]
		return &pid
	}
	pid := key
	return &pid
}
