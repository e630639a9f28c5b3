package wallet

import (
	"context"
	"database/sql"
	"errors"

	"paniervert-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ApplyParams struct {
	UserID  uint
	Amount  int64 // positive, sign comes from Type
	Type    TxType
	Cause   string
	OrderID *uuid.UUID
}

type Repository interface {
	// Apply appends one ledger entry and moves the cached balance in a
	// single transaction. When an entry with the same (order_id, cause)
	// already exists for the user, the existing entry is returned and
	// nothing is written.
	Apply(ctx context.Context, params ApplyParams) (*Transaction, error)
	// ApplyTx is Apply running inside the caller's transaction, for
	// writes that must commit together with other tables.
	ApplyTx(ctx context.Context, tx *sql.Tx, params ApplyParams) (*Transaction, error)
	GetBalance(ctx context.Context, userID uint) (int64, error)
	SumTransactions(ctx context.Context, userID uint) (int64, error)
	SetBalance(ctx context.Context, userID uint, balance int64) error
	ListTransactions(ctx context.Context, userID uint, limit uint16, before *uuid.UUID) ([]Transaction, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Apply(ctx context.Context, params ApplyParams) (*Transaction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	entry, err := r.ApplyTx(ctx, tx, params)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *repository) ApplyTx(ctx context.Context, tx *sql.Tx, params ApplyParams) (*Transaction, error) {
	log := logger.FromCtx(ctx)

	// The wallet row is the per-user critical section: every ledger
	// mutation locks it first.
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO wallets (user_id, balance)
		VALUES ($1, 0)
		ON CONFLICT (user_id) DO NOTHING
	`, params.UserID); err != nil {
		return nil, err
	}

	var balance int64
	if err := tx.QueryRowContext(ctx, `
		SELECT balance FROM wallets WHERE user_id = $1 FOR UPDATE
	`, params.UserID).Scan(&balance); err != nil {
		return nil, err
	}

	if params.OrderID != nil {
		existing, err := findByOrderAndCause(ctx, tx, params.UserID, *params.OrderID, params.Cause)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			log.Info("wallet entry already applied",
				zap.Uint("user_id", params.UserID),
				zap.String("order_id", params.OrderID.String()),
				zap.String("cause", params.Cause),
			)
			return existing, nil
		}
	}

	signed := params.Amount
	if params.Type == TypeDebit {
		if balance < params.Amount {
			return nil, ErrInsufficientFunds
		}
		signed = -params.Amount
	}

	entry := Transaction{
		ID:      uuid.New(),
		UserID:  params.UserID,
		Amount:  signed,
		Type:    params.Type,
		Cause:   params.Cause,
		OrderID: params.OrderID,
	}
	if err := tx.QueryRowContext(ctx, `
		INSERT INTO wallet_transactions (id, user_id, amount, type, cause, order_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, entry.ID, entry.UserID, entry.Amount, entry.Type, entry.Cause, entry.OrderID).
		Scan(&entry.CreatedAt); err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE wallets
		SET balance = balance + $1, updated_at = NOW()
		WHERE user_id = $2
	`, signed, params.UserID); err != nil {
		return nil, err
	}

	return &entry, nil
}

func findByOrderAndCause(ctx context.Context, tx *sql.Tx, userID uint, orderID uuid.UUID, cause string) (*Transaction, error) {
	var t Transaction
	err := tx.QueryRowContext(ctx, `
		SELECT id, user_id, amount, type, cause, order_id, created_at
		FROM wallet_transactions
		WHERE user_id = $1 AND order_id = $2 AND cause = $3
	`, userID, orderID, cause).
		Scan(&t.ID, &t.UserID, &t.Amount, &t.Type, &t.Cause, &t.OrderID, &t.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repository) GetBalance(ctx context.Context, userID uint) (int64, error) {
	var balance int64
	err := r.db.QueryRowContext(ctx, `
		SELECT balance FROM wallets WHERE user_id = $1
	`, userID).Scan(&balance)

	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return balance, err
}

func (r *repository) SumTransactions(ctx context.Context, userID uint) (int64, error) {
	var sum int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM wallet_transactions WHERE user_id = $1
	`, userID).Scan(&sum)
	return sum, err
}

func (r *repository) SetBalance(ctx context.Context, userID uint, balance int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO wallets (user_id, balance)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET balance = $2, updated_at = NOW()
	`, userID, balance)
	return err
}

// ListTransactions returns a newest-first page. Paging is keyset on the
// entry id so concurrent appends only ever land ahead of the first page.
func (r *repository) ListTransactions(ctx context.Context, userID uint, limit uint16, before *uuid.UUID) ([]Transaction, error) {
	if limit == 0 {
		limit = 20
	}

	query := `
		SELECT id, user_id, amount, type, cause, order_id, created_at
		FROM wallet_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
	args := []interface{}{userID, limit}

	if before != nil {
		query = `
			SELECT id, user_id, amount, type, cause, order_id, created_at
			FROM wallet_transactions
			WHERE user_id = $1
			  AND (created_at, id) < (SELECT created_at, id FROM wallet_transactions WHERE id = $3)
			ORDER BY created_at DESC, id DESC
			LIMIT $2
		`
		args = append(args, *before)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to list wallet transactions",
			zap.Uint("user_id", userID),
			zap.Error(err),
		)
		return nil, err
	}
	defer rows.Close()

	txs := make([]Transaction, 0, limit)
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Amount, &t.Type, &t.Cause,
			&t.OrderID, &t.CreatedAt); err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}

	return txs, rows.Err()
}
