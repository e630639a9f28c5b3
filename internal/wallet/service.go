package wallet

import (
	"context"

	"paniervert-be/internal/db"
	"paniervert-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the ledger operations. Credits and debits referencing
// an order are idempotent per (order_id, cause): retrying a refund or a
// payment never double-applies.
type Service interface {
	Credit(ctx context.Context, userID uint, amount int64, orderID *uuid.UUID, cause string) (*Transaction, error)
	Debit(ctx context.Context, userID uint, amount int64, orderID *uuid.UUID, cause string) (*Transaction, error)
	GetWallet(ctx context.Context, userID uint, limit uint16, before *uuid.UUID) (Data, error)
	Reconcile(ctx context.Context, userID uint) (int64, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Credit(ctx context.Context, userID uint, amount int64, orderID *uuid.UUID, cause string) (*Transaction, error) {
	return s.apply(ctx, ApplyParams{
		UserID:  userID,
		Amount:  amount,
		Type:    TypeCredit,
		Cause:   cause,
		OrderID: orderID,
	})
}

func (s *service) Debit(ctx context.Context, userID uint, amount int64, orderID *uuid.UUID, cause string) (*Transaction, error) {
	return s.apply(ctx, ApplyParams{
		UserID:  userID,
		Amount:  amount,
		Type:    TypeDebit,
		Cause:   cause,
		OrderID: orderID,
	})
}

func (s *service) apply(ctx context.Context, params ApplyParams) (*Transaction, error) {
	if params.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	// A transient failure is retried once with the same parameters; the
	// (order_id, cause) dedup inside Apply makes the repeat safe.
	var entry *Transaction
	err := db.RetryOnce(ctx, func(ctx context.Context) error {
		var applyErr error
		entry, applyErr = s.repo.Apply(ctx, params)
		return applyErr
	})
	if err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("wallet entry applied",
		zap.Uint("user_id", params.UserID),
		zap.String("type", string(params.Type)),
		zap.String("cause", params.Cause),
		zap.Int64("amount", entry.Amount),
	)

	return entry, nil
}

func (s *service) GetWallet(ctx context.Context, userID uint, limit uint16, before *uuid.UUID) (Data, error) {
	balance, err := s.repo.GetBalance(ctx, userID)
	if err != nil {
		return Data{}, err
	}

	txs, err := s.repo.ListTransactions(ctx, userID, limit, before)
	if err != nil {
		return Data{}, err
	}

	return Data{Balance: balance, Transactions: txs}, nil
}

// Reconcile recomputes the balance from the full ledger and repairs the
// cached value when it has drifted. Returns the authoritative balance.
func (s *service) Reconcile(ctx context.Context, userID uint) (int64, error) {
	cached, err := s.repo.GetBalance(ctx, userID)
	if err != nil {
		return 0, err
	}

	sum, err := s.repo.SumTransactions(ctx, userID)
	if err != nil {
		return 0, err
	}

	if cached != sum {
		logger.FromCtx(ctx).Warn("wallet balance drift detected",
			zap.Uint("user_id", userID),
			zap.Int64("cached", cached),
			zap.Int64("ledger_sum", sum),
		)
		if err := s.repo.SetBalance(ctx, userID, sum); err != nil {
			return 0, err
		}
	}

	return sum, nil
}
