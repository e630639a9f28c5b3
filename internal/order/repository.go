package order

import (
	"context"
	"database/sql"
	"errors"

	"paniervert-be/internal/logger"
	"paniervert-be/internal/wallet"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ListOptions struct {
	// UserID restricts the listing to one owner. Nil lists all orders
	// (operator view).
	UserID *uint
	Limit  uint16
	Page   uint16
}

type Repository interface {
	// CreateOrder snapshots the user's cart into a new pending order in
	// one transaction: cart lines are locked and re-checked against the
	// catalog, stock is deducted, the cart is cleared. Nothing is
	// written when any step fails.
	CreateOrder(ctx context.Context, userID uint) (*Order, error)
	GetOrder(ctx context.Context, orderID uuid.UUID) (*Order, error)
	ListOrders(ctx context.Context, opts ListOptions) ([]*Order, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status Status) error
	UpdatePayment(ctx context.Context, orderID uuid.UUID, status Status, payment PaymentStatus) error
	// SettlePayment writes the order's status pair and the wallet entry
	// that funds it in one transaction: the buyer is never debited or
	// refunded without the order reflecting it, and vice versa.
	SettlePayment(ctx context.Context, orderID uuid.UUID, status Status, payment PaymentStatus, entry wallet.ApplyParams) (*wallet.Transaction, error)
}

type repository struct {
	db     *sql.DB
	ledger wallet.Repository
}

func NewRepository(db *sql.DB, ledger wallet.Repository) Repository {
	return &repository{db: db, ledger: ledger}
}

func (r *repository) CreateOrder(ctx context.Context, userID uint) (*Order, error) {
	log := logger.FromCtx(ctx)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// 1. Snapshot the cart. The row locks serialize checkout against
	// concurrent cart mutations for this user.
	rows, err := tx.QueryContext(ctx, `
		SELECT c.product_id, c.name, c.unit_price, c.quantity, p.unit_price, p.stock
		FROM carts c
		JOIN products p ON p.id = c.product_id
		WHERE c.user_id = $1
		ORDER BY c.created_at ASC, c.product_id ASC
		FOR UPDATE
	`, userID)
	if err != nil {
		return nil, err
	}

	var (
		items   []Item
		changes []PriceChange
		total   int64
	)
	for rows.Next() {
		var (
			item         Item
			currentPrice int64
			stock        int
		)
		if err := rows.Scan(&item.ProductID, &item.Name, &item.UnitPrice,
			&item.Quantity, &currentPrice, &stock); err != nil {
			rows.Close()
			return nil, err
		}

		if currentPrice != item.UnitPrice {
			changes = append(changes, PriceChange{
				ProductID: item.ProductID,
				OldPrice:  item.UnitPrice,
				NewPrice:  currentPrice,
			})
			continue
		}
		if stock < item.Quantity {
			rows.Close()
			return nil, ErrOutOfStock
		}

		item.Subtotal = item.UnitPrice * int64(item.Quantity)
		total += item.Subtotal
		items = append(items, item)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(changes) > 0 {
		return nil, &PriceChangedError{Changes: changes}
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	// 2. Create the order head.
	order := &Order{
		ID:            uuid.New(),
		UserID:        userID,
		Status:        StatusPending,
		PaymentStatus: PaymentPending,
		TotalAmount:   total,
	}
	if err := tx.QueryRowContext(ctx, `
		INSERT INTO orders (id, user_id, status, payment_status, total_amount)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`, order.ID, order.UserID, order.Status, order.PaymentStatus, order.TotalAmount).
		Scan(&order.CreatedAt, &order.UpdatedAt); err != nil {
		return nil, err
	}

	// 3. Snapshot lines and deduct stock.
	for i := range items {
		item := &items[i]
		item.OrderID = order.ID

		if err := tx.QueryRowContext(ctx, `
			INSERT INTO order_items (order_id, product_id, name, unit_price, quantity, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`, item.OrderID, item.ProductID, item.Name, item.UnitPrice,
			item.Quantity, item.Subtotal).Scan(&item.ID); err != nil {
			return nil, err
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE products
			SET stock = stock - $1
			WHERE id = $2 AND stock >= $1
		`, item.Quantity, item.ProductID)
		if err != nil {
			return nil, err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		if affected == 0 {
			return nil, ErrOutOfStock
		}
	}

	// 4. Clear the cart inside the same transaction: the cart survives
	// untouched whenever checkout fails.
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM carts WHERE user_id = $1
	`, userID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	order.Items = items
	log.Info("order created",
		zap.String("order_id", order.ID.String()),
		zap.Uint("user_id", userID),
		zap.Int64("total_amount", total),
	)

	return order, nil
}

func (r *repository) GetOrder(ctx context.Context, orderID uuid.UUID) (*Order, error) {
	var o Order
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, status, payment_status, total_amount, created_at, updated_at
		FROM orders
		WHERE id = $1
	`, orderID).
		Scan(&o.ID, &o.UserID, &o.Status, &o.PaymentStatus, &o.TotalAmount,
			&o.CreatedAt, &o.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, name, unit_price, quantity, subtotal
		FROM order_items
		WHERE order_id = $1
		ORDER BY id ASC
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Name,
			&item.UnitPrice, &item.Quantity, &item.Subtotal); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &o, nil
}

func (r *repository) ListOrders(ctx context.Context, opts ListOptions) ([]*Order, error) {
	limit := opts.Limit
	if limit == 0 {
		limit = 20
	}
	page := opts.Page
	if page == 0 {
		page = 1
	}
	// Widened before multiplying: page*limit can exceed uint16.
	offset := (int(page) - 1) * int(limit)

	query := `
		SELECT id, user_id, status, payment_status, total_amount, created_at, updated_at
		FROM orders
	`
	args := []interface{}{}
	if opts.UserID != nil {
		query += ` WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		args = append(args, *opts.UserID, limit, offset)
	} else {
		query += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`
		args = append(args, limit, offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to list orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	orders := make([]*Order, 0)
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Status, &o.PaymentStatus,
			&o.TotalAmount, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, &o)
	}

	return orders, rows.Err()
}

func (r *repository) UpdateStatus(ctx context.Context, orderID uuid.UUID, status Status) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`, status, orderID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderNotFound
	}

	return nil
}

func (r *repository) SettlePayment(ctx context.Context, orderID uuid.UUID, status Status, payment PaymentStatus, entry wallet.ApplyParams) (*wallet.Transaction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	txn, err := r.ledger.ApplyTx(ctx, tx, entry)
	if err != nil {
		return nil, err
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, payment_status = $2, updated_at = NOW()
		WHERE id = $3
	`, status, payment, orderID)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrOrderNotFound
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("payment settled",
		zap.String("order_id", orderID.String()),
		zap.String("status", string(status)),
		zap.String("payment_status", string(payment)),
		zap.Int64("amount", txn.Amount),
	)

	return txn, nil
}

// UpdatePayment moves status and payment_status together so a payment
// outcome and its gated status edge commit as one write.
func (r *repository) UpdatePayment(ctx context.Context, orderID uuid.UUID, status Status, payment PaymentStatus) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, payment_status = $2, updated_at = NOW()
		WHERE id = $3
	`, status, payment, orderID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderNotFound
	}

	return nil
}
