package models

// CartItem is one product currently in the cart, at most one row per product.
type CartItem struct {
	ProductID string `gorm:"primaryKey"                    json:"product_id"`
	Title     string `gorm:"not null"                      json:"title"`
	UnitPrice int64  `gorm:"not null;check:unit_price>=0"  json:"unit_price"`
	Quantity  int64  `gorm:"not null;check:quantity>0"     json:"quantity"`
}

func (CartItem) TableName() string { return "cart" }

// HistoryRow is the legacy flat purchase record. It is only read as migration
// input and never written once the normalized schema is populated.
type HistoryRow struct {
	ProductID string `gorm:"primaryKey" json:"product_id"`
	Title     string `json:"title"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int64  `json:"quantity"`
	PaidAt    int64  `json:"paid_at"`
}

func (HistoryRow) TableName() string { return "history" }

// Order is one immutable completed checkout. Total is in the minor currency
// unit and equals the sum of its items' unit_price*quantity at commit time.
type Order struct {
	OrderID int64 `gorm:"primaryKey;autoIncrement" json:"order_id"`
	PaidAt  int64 `gorm:"index;not null"           json:"paid_at"`
	Total   int64 `gorm:"not null"                 json:"total"`
}

func (Order) TableName() string { return "orders" }

// OrderItem is one product line inside a committed order. ProductID is a
// pointer because migrated legacy rows may not carry a recoverable product id.
type OrderItem struct {
	LineID    string  `gorm:"primaryKey"     json:"line_id"`
	OrderID   int64   `gorm:"index;not null" json:"order_id"`
	ProductID *string `json:"product_id"`
	Title     string  `json:"title"`
	UnitPrice int64   `json:"unit_price"`
	Quantity  int64   `json:"quantity"`
}

func (OrderItem) TableName() string { return "order_items" }
