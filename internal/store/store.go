package store

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/africamarket/companion/internal/models"
)

// Store owns the single on-device database handle and the in-memory cart
// mirror. All cart mutations are serialized through mu, so no two
// read-then-write sequences can interleave.
type Store struct {
	db  *gorm.DB
	log *slog.Logger

	mu    sync.Mutex
	items []models.CartItem
}

// Open opens (or creates) the database file, ensures all tables exist and
// loads the cart mirror. Safe to call on every process start; the returned
// Store holds the only connection to the file.
func Open(path string, logger *slog.Logger) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open database %q: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap sql.DB: %w", err)
	}
	// one writer, one connection: sqlite gives no useful parallelism and a
	// second connection to the same file only invites SQLITE_BUSY
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.CartItem{},
		&models.HistoryRow{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		return nil, fmt.Errorf("create tables: %w", err)
	}

	s := &Store{db: db, log: logger}
	if err := s.Reload(); err != nil {
		s.log.Error("loading cart from database", "error", err)
	}
	return s, nil
}

// Close releases the database handle. Only meant for process shutdown.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Dump is a diagnostic read of every table, for support and debugging only.
type Dump struct {
	Cart       []models.CartItem   `json:"cart"`
	Legacy     []models.HistoryRow `json:"history"`
	Orders     []models.Order      `json:"orders"`
	OrderItems []models.OrderItem  `json:"order_items"`
}

func (s *Store) DumpAll() (*Dump, error) {
	d := &Dump{}
	if err := s.db.Find(&d.Cart).Error; err != nil {
		return nil, fmt.Errorf("dump cart: %w", err)
	}
	if err := s.db.Find(&d.Legacy).Error; err != nil {
		return nil, fmt.Errorf("dump history: %w", err)
	}
	if err := s.db.Order("paid_at DESC").Find(&d.Orders).Error; err != nil {
		return nil, fmt.Errorf("dump orders: %w", err)
	}
	if err := s.db.Order("order_id DESC").Find(&d.OrderItems).Error; err != nil {
		return nil, fmt.Errorf("dump order items: %w", err)
	}
	return d, nil
}
