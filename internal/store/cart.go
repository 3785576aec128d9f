package store

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/africamarket/companion/internal/models"
)

// AddLine adds delta to the stored quantity of productID, inserting the line
// if it is not in the cart yet. For a positive delta the persisted write is a
// single atomic upsert-increment; empty title / zero price never overwrite
// known values, so a bare quantity bump keeps the product info intact. A delta
// that brings the quantity to zero or below removes the line; in that case,
// and when there is nothing to decrement, the returned item is the zero value.
func (s *Store) AddLine(productID, title string, unitPrice, delta int64) (models.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if productID == "" {
		return models.CartItem{}, fmt.Errorf("add line: empty product id")
	}

	idx := s.indexOf(productID)
	if idx < 0 && delta <= 0 {
		// nothing to decrement
		return models.CartItem{}, nil
	}
	if idx >= 0 && s.items[idx].Quantity+delta <= 0 {
		// a line never stays in the cart with quantity <= 0
		return models.CartItem{}, s.removeLocked(productID)
	}

	if delta > 0 {
		row := models.CartItem{ProductID: productID, Title: title, UnitPrice: unitPrice, Quantity: delta}
		err := s.db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity":   gorm.Expr("cart.quantity + excluded.quantity"),
				"title":      gorm.Expr("CASE WHEN excluded.title = '' THEN cart.title ELSE excluded.title END"),
				"unit_price": gorm.Expr("CASE WHEN excluded.unit_price = 0 THEN cart.unit_price ELSE excluded.unit_price END"),
			}),
		}).Create(&row).Error
		if err != nil {
			return models.CartItem{}, fmt.Errorf("upsert cart line %q: %w", productID, err)
		}
	} else {
		// sqlite checks the quantity>0 constraint against the proposed insert
		// row before conflict resolution, so a decrement must not go through
		// the upsert; the line is known to exist and to stay positive here
		assign := map[string]interface{}{
			"quantity": gorm.Expr("quantity + ?", delta),
		}
		if title != "" {
			assign["title"] = title
		}
		if unitPrice != 0 {
			assign["unit_price"] = unitPrice
		}
		res := s.db.Model(&models.CartItem{}).Where("product_id = ?", productID).Updates(assign)
		if res.Error != nil {
			return models.CartItem{}, fmt.Errorf("decrement cart line %q: %w", productID, res.Error)
		}
	}

	var merged models.CartItem
	if err := s.db.Where("product_id = ?", productID).First(&merged).Error; err != nil {
		return models.CartItem{}, fmt.Errorf("read back cart line %q: %w", productID, err)
	}

	if idx >= 0 {
		s.items[idx] = merged
	} else {
		s.items = append(s.items, merged)
	}
	return merged, nil
}

// RemoveLine deletes the line for productID. Removing a line that does not
// exist is a no-op, not an error.
func (s *Store) RemoveLine(productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(productID)
}

// SetQuantity persists an absolute quantity for productID. A quantity of zero
// or less removes the line. Setting quantity on a line that does not exist is
// a no-op.
func (s *Store) SetQuantity(productID string, quantity int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		return s.removeLocked(productID)
	}

	res := s.db.Model(&models.CartItem{}).Where("product_id = ?", productID).Update("quantity", quantity)
	if res.Error != nil {
		return fmt.Errorf("set quantity for %q: %w", productID, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil
	}

	if idx := s.indexOf(productID); idx >= 0 {
		s.items[idx].Quantity = quantity
	}
	return nil
}

// Clear deletes every cart line and empties the mirror.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clearLocked()
}

// TotalPrice sums unit_price*quantity over the in-memory mirror. It never
// touches storage.
func (s *Store) TotalPrice() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalLocked()
}

// Lines returns a copy of the current cart mirror.
func (s *Store) Lines() []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

// Reload replaces the mirror with the persisted cart rows. On failure the
// mirror is left as it was.
func (s *Store) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var items []models.CartItem
	if err := s.db.Find(&items).Error; err != nil {
		return fmt.Errorf("reload cart: %w", err)
	}
	s.items = items
	return nil
}

func (s *Store) removeLocked(productID string) error {
	if err := s.db.Where("product_id = ?", productID).Delete(&models.CartItem{}).Error; err != nil {
		return fmt.Errorf("remove cart line %q: %w", productID, err)
	}
	if idx := s.indexOf(productID); idx >= 0 {
		s.items = append(s.items[:idx], s.items[idx+1:]...)
	}
	return nil
}

func (s *Store) clearLocked() error {
	if err := s.db.Where("1 = 1").Delete(&models.CartItem{}).Error; err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	s.items = nil
	return nil
}

func (s *Store) totalLocked() int64 {
	var total int64
	for _, it := range s.items {
		total += it.UnitPrice * it.Quantity
	}
	return total
}

func (s *Store) indexOf(productID string) int {
	for i := range s.items {
		if s.items[i].ProductID == productID {
			return i
		}
	}
	return -1
}
