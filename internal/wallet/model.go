package wallet

import (
	"time"

	"github.com/google/uuid"
)

type TxType string

const (
	TypeCredit TxType = "credit"
	TypeDebit  TxType = "debit"
)

// Causes recorded on ledger entries. Order-scoped causes participate in
// idempotency: one (order_id, cause) pair applies at most once.
const (
	CauseTopup        = "topup"
	CauseOrderPayment = "order_payment"
	CauseOrderRefund  = "order_refund"
)

// Transaction is one immutable ledger entry. Amount is signed in cents:
// positive for credits, negative for debits.
type Transaction struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uint       `json:"user_id"`
	Amount    int64      `json:"amount"`
	Type      TxType     `json:"type"`
	Cause     string     `json:"cause"`
	OrderID   *uuid.UUID `json:"order_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Data is the wallet view returned to callers: cached running balance
// plus one newest-first page of the ledger.
type Data struct {
	Balance      int64         `json:"balance"`
	Transactions []Transaction `json:"transactions"`
}
