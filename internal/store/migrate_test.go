package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/africamarket/companion/internal/models"
)

func seedLegacy(t *testing.T, s *Store, rows ...models.HistoryRow) {
	t.Helper()
	for i := range rows {
		require.NoError(t, s.db.Create(&rows[i]).Error)
	}
}

func TestMigrateLegacyHistoryGroupsByPaidAt(t *testing.T) {
	s := newTestStore(t)

	seedLegacy(t, s,
		models.HistoryRow{ProductID: "A", Title: "Apple", UnitPrice: 100, Quantity: 1, PaidAt: 1000},
		models.HistoryRow{ProductID: "B", Title: "Banana", UnitPrice: 50, Quantity: 2, PaidAt: 1000},
		models.HistoryRow{ProductID: "C", Title: "Cassava", UnitPrice: 75, Quantity: 4, PaidAt: 2000},
	)

	require.NoError(t, s.MigrateLegacyHistory())

	entries, err := s.History()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// newest first: the paid_at=2000 group, then paid_at=1000
	require.Equal(t, int64(2000), entries[0].PaidAt)
	require.Equal(t, int64(300), entries[0].Total)
	require.Len(t, entries[0].Items, 1)

	require.Equal(t, int64(1000), entries[1].PaidAt)
	require.Equal(t, int64(200), entries[1].Total)
	require.Len(t, entries[1].Items, 2)

	// legacy rows stay available for diagnostic replay
	var legacy int64
	require.NoError(t, s.db.Model(&models.HistoryRow{}).Count(&legacy).Error)
	require.Equal(t, int64(3), legacy)
}

func TestMigrateLegacyHistoryRecoversProductID(t *testing.T) {
	s := newTestStore(t)

	seedLegacy(t, s,
		models.HistoryRow{ProductID: "ABC_7_x1y2z3", Title: "Composite", UnitPrice: 10, Quantity: 1, PaidAt: 100},
		models.HistoryRow{ProductID: "PLAIN", Title: "Plain", UnitPrice: 20, Quantity: 1, PaidAt: 100},
		models.HistoryRow{ProductID: "_orphan", Title: "Orphan", UnitPrice: 30, Quantity: 1, PaidAt: 100},
	)

	require.NoError(t, s.MigrateLegacyHistory())

	var items []models.OrderItem
	require.NoError(t, s.db.Find(&items).Error)
	require.Len(t, items, 3)

	byTitle := map[string]models.OrderItem{}
	for _, it := range items {
		byTitle[it.Title] = it
	}

	require.NotNil(t, byTitle["Composite"].ProductID)
	require.Equal(t, "ABC", *byTitle["Composite"].ProductID)
	require.NotNil(t, byTitle["Plain"].ProductID)
	require.Equal(t, "PLAIN", *byTitle["Plain"].ProductID)
	require.Nil(t, byTitle["Orphan"].ProductID)
}

func TestMigrateLegacyHistoryIdempotent(t *testing.T) {
	s := newTestStore(t)

	seedLegacy(t, s,
		models.HistoryRow{ProductID: "A", Title: "Apple", UnitPrice: 100, Quantity: 1, PaidAt: 1000},
	)

	require.NoError(t, s.MigrateLegacyHistory())

	var orders, items int64
	require.NoError(t, s.db.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, s.db.Model(&models.OrderItem{}).Count(&items).Error)
	require.Equal(t, int64(1), orders)
	require.Equal(t, int64(1), items)

	// second run sees orders populated and performs zero writes
	require.NoError(t, s.MigrateLegacyHistory())

	var orders2, items2 int64
	require.NoError(t, s.db.Model(&models.Order{}).Count(&orders2).Error)
	require.NoError(t, s.db.Model(&models.OrderItem{}).Count(&items2).Error)
	require.Equal(t, orders, orders2)
	require.Equal(t, items, items2)
}

func TestMigrateLegacyHistorySkipsWhenOrdersExist(t *testing.T) {
	s := newTestStore(t)

	// a commit already populated the normalized schema
	require.NoError(t, s.db.Create(&models.Order{PaidAt: 9000, Total: 42}).Error)
	seedLegacy(t, s,
		models.HistoryRow{ProductID: "A", Title: "Apple", UnitPrice: 100, Quantity: 1, PaidAt: 1000},
	)

	require.NoError(t, s.MigrateLegacyHistory())

	var orders int64
	require.NoError(t, s.db.Model(&models.Order{}).Count(&orders).Error)
	require.Equal(t, int64(1), orders)
}

func TestMigrateLegacyHistoryNoLegacyRows(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.MigrateLegacyHistory())

	var orders int64
	require.NoError(t, s.db.Model(&models.Order{}).Count(&orders).Error)
	require.Zero(t, orders)
}
