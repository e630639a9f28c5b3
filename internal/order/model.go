package order

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusPreparing  Status = "preparing"
	StatusDelivering Status = "delivering"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

type PaymentOutcome string

const (
	OutcomePaid   PaymentOutcome = "paid"
	OutcomeFailed PaymentOutcome = "failed"
)

type PaymentMethod string

const (
	// MethodWallet settles against the user's wallet ledger.
	MethodWallet PaymentMethod = "wallet"
	// MethodExternal settles on rails outside the ledger.
	MethodExternal PaymentMethod = "external"
)

// Order is an immutable snapshot of a cart plus its mutable status
// pair. Items never change after checkout.
type Order struct {
	ID            uuid.UUID     `json:"id"`
	UserID        uint          `json:"user_id"`
	Status        Status        `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	TotalAmount   int64         `json:"total_amount"`
	Items         []Item        `json:"items"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Item is one checkout-time snapshot line.
type Item struct {
	ID        uint      `json:"id"`
	OrderID   uuid.UUID `json:"order_id"`
	ProductID uint      `json:"product_id"`
	Name      string    `json:"name"`
	UnitPrice int64     `json:"unit_price"`
	Quantity  int       `json:"quantity"`
	Subtotal  int64     `json:"subtotal"`
}

// Actor is the identity on whose behalf a lifecycle call runs.
type Actor struct {
	ID   uint
	Role string
}
