package catalog

import (
	"context"
	"database/sql"
	"errors"

	"paniervert-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	GetProduct(ctx context.Context, productID uint) (*Product, error)
	ListProducts(ctx context.Context, limit, page uint16) ([]*Product, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// GetProduct returns an active product, or ErrProductNotFound when the
// product is absent or disabled.
func (r *repository) GetProduct(ctx context.Context, productID uint) (*Product, error) {
	var p Product
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, producer, unit, unit_price, stock, status, created_at, updated_at
		FROM products
		WHERE id = $1 AND status = $2
	`, productID, StatusActive).
		Scan(&p.ID, &p.Name, &p.Producer, &p.Unit, &p.UnitPrice, &p.Stock,
			&p.Status, &p.CreatedAt, &p.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to get product",
			zap.Uint("product_id", productID),
			zap.Error(err),
		)
		return nil, err
	}

	return &p, nil
}

func (r *repository) ListProducts(ctx context.Context, limit, page uint16) ([]*Product, error) {
	if limit == 0 {
		limit = 20
	}
	if page == 0 {
		page = 1
	}
	offset := (int(page) - 1) * int(limit)

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, producer, unit, unit_price, stock, status, created_at, updated_at
		FROM products
		WHERE status = $1
		ORDER BY name ASC
		LIMIT $2 OFFSET $3
	`, StatusActive, limit, offset)
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to list products", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	products := make([]*Product, 0)
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Producer, &p.Unit, &p.UnitPrice,
			&p.Stock, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, &p)
	}

	return products, rows.Err()
}
