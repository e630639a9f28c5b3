package cart

import (
	"context"
	"database/sql"
	"errors"

	"paniervert-be/internal/logger"

	"go.uber.org/zap"
)

type CreateItemParams struct {
	UserID    uint
	ProductID uint
	Name      string
	UnitPrice int64
	Quantity  int
}

type Repository interface {
	GetItems(ctx context.Context, userID uint) ([]Item, error)
	GetItemByProduct(ctx context.Context, userID, productID uint) (*Item, error)
	CreateItem(ctx context.Context, params CreateItemParams) (*Item, error)
	UpdateQuantity(ctx context.Context, userID, productID uint, quantity int) error
	RemoveItem(ctx context.Context, userID, productID uint) error
	ClearCart(ctx context.Context, userID uint) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetItems(ctx context.Context, userID uint) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id, name, unit_price, quantity, created_at, updated_at
		FROM carts
		WHERE user_id = $1
		ORDER BY created_at ASC, product_id ASC
	`, userID)
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to get cart rows",
			zap.Uint("user_id", userID),
			zap.Error(err),
		)
		return nil, err
	}
	defer rows.Close()

	items := make([]Item, 0)
	for rows.Next() {
		var i Item
		if err := rows.Scan(&i.ProductID, &i.Name, &i.UnitPrice, &i.Quantity,
			&i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}

	return items, rows.Err()
}

// GetItemByProduct returns nil without error when the line does not exist.
func (r *repository) GetItemByProduct(ctx context.Context, userID, productID uint) (*Item, error) {
	var i Item
	err := r.db.QueryRowContext(ctx, `
		SELECT product_id, name, unit_price, quantity, created_at, updated_at
		FROM carts
		WHERE user_id = $1 AND product_id = $2
	`, userID, productID).
		Scan(&i.ProductID, &i.Name, &i.UnitPrice, &i.Quantity, &i.CreatedAt, &i.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *repository) CreateItem(ctx context.Context, params CreateItemParams) (*Item, error) {
	var i Item
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO carts (user_id, product_id, name, unit_price, quantity)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING product_id, name, unit_price, quantity, created_at, updated_at
	`, params.UserID, params.ProductID, params.Name, params.UnitPrice, params.Quantity).
		Scan(&i.ProductID, &i.Name, &i.UnitPrice, &i.Quantity, &i.CreatedAt, &i.UpdatedAt)

	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to create cart item",
			zap.Uint("user_id", params.UserID),
			zap.Uint("product_id", params.ProductID),
			zap.Error(err),
		)
		return nil, err
	}

	return &i, nil
}

func (r *repository) UpdateQuantity(ctx context.Context, userID, productID uint, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE carts
		SET quantity = $1, updated_at = NOW()
		WHERE user_id = $2 AND product_id = $3
	`, quantity, userID, productID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrItemNotFound
	}

	return nil
}

// RemoveItem deletes a cart line. Removing an absent line is a no-op
// success: the observable outcome (line gone) is the same.
func (r *repository) RemoveItem(ctx context.Context, userID, productID uint) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM carts
		WHERE user_id = $1 AND product_id = $2
	`, userID, productID)
	return err
}

func (r *repository) ClearCart(ctx context.Context, userID uint) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM carts
		WHERE user_id = $1
	`, userID)
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to clear cart",
			zap.Uint("user_id", userID),
			zap.Error(err),
		)
	}
	return err
}
