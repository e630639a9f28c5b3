package catalog

import "time"

type ProductStatus string

const (
	StatusActive   ProductStatus = "active"
	StatusDisabled ProductStatus = "disabled"
)

// Product is a farm good as presented by the catalog. UnitPrice is in
// cents.
type Product struct {
	ID        uint          `json:"id"`
	Name      string        `json:"name"`
	Producer  string        `json:"producer"`
	Unit      string        `json:"unit"`
	UnitPrice int64         `json:"unit_price"`
	Stock     int           `json:"stock"`
	Status    ProductStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
