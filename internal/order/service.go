package order

import (
	"context"
	"fmt"

	"paniervert-be/internal/db"
	"paniervert-be/internal/logger"
	"paniervert-be/internal/metrics"
	"paniervert-be/internal/utils"
	"paniervert-be/internal/wallet"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service drives the order lifecycle. All authorization lives here:
// owners may check out, view and cancel their own orders; operators may
// additionally advance fulfilment and see every order.
type Service interface {
	CreateOrder(ctx context.Context, actor Actor) (*Order, error)
	GetOrder(ctx context.Context, actor Actor, orderID uuid.UUID) (*Order, error)
	ListOrders(ctx context.Context, actor Actor, limit, page uint16) ([]*Order, error)
	AdvanceStatus(ctx context.Context, actor Actor, orderID uuid.UUID, target Status) (*Order, error)
	RecordPayment(ctx context.Context, actor Actor, orderID uuid.UUID, outcome PaymentOutcome, method PaymentMethod) (*Order, error)
	Cancel(ctx context.Context, actor Actor, orderID uuid.UUID) (*Order, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (a Actor) operator() bool {
	return a.Role == utils.RoleOperator
}

func (s *service) CreateOrder(ctx context.Context, actor Actor) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateOrder"),
		zap.Uint("user_id", actor.ID),
	)

	order, err := s.repo.CreateOrder(ctx, actor.ID)
	if err != nil {
		log.Warn("checkout rejected", zap.Error(err))
		return nil, err
	}

	metrics.Default.OrdersCreated.Inc()
	return order, nil
}

func (s *service) GetOrder(ctx context.Context, actor Actor, orderID uuid.UUID) (*Order, error) {
	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.UserID != actor.ID && !actor.operator() {
		return nil, ErrForbidden
	}

	return order, nil
}

func (s *service) ListOrders(ctx context.Context, actor Actor, limit, page uint16) ([]*Order, error) {
	opts := ListOptions{Limit: limit, Page: page}
	if !actor.operator() {
		opts.UserID = &actor.ID
	}
	return s.repo.ListOrders(ctx, opts)
}

// AdvanceStatus moves an order along the fulfilment chain. Cancellation
// routes through Cancel so the refund invariant has a single owner. The
// pending -> confirmed edge is payment-gated and never advanced by hand.
func (s *service) AdvanceStatus(ctx context.Context, actor Actor, orderID uuid.UUID, target Status) (*Order, error) {
	if target == StatusCancelled {
		return s.Cancel(ctx, actor, orderID)
	}

	if !actor.operator() {
		return nil, ErrForbidden
	}
	if target == StatusConfirmed {
		return nil, fmt.Errorf("%w: confirmed is reached by payment, not by hand", ErrInvalidTransition)
	}

	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !CanTransition(order.Status, target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, target)
	}
	if target == StatusDelivered && order.PaymentStatus != PaymentPaid {
		return nil, fmt.Errorf("%w: cannot deliver unpaid order", ErrInvalidTransition)
	}

	if err := db.RetryOnce(ctx, func(ctx context.Context) error {
		return s.repo.UpdateStatus(ctx, orderID, target)
	}); err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("order status advanced",
		zap.String("order_id", orderID.String()),
		zap.String("from", string(order.Status)),
		zap.String("to", string(target)),
	)

	order.Status = target
	return order, nil
}

// RecordPayment applies a payment outcome. A successful payment while
// the order is pending auto-advances it to confirmed; this is the only
// system-triggered transition. Wallet-funded payments debit the ledger,
// external rails settle outside it.
func (s *service) RecordPayment(ctx context.Context, actor Actor, orderID uuid.UUID, outcome PaymentOutcome, method PaymentMethod) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "RecordPayment"),
		zap.String("order_id", orderID.String()),
	)

	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.UserID != actor.ID && !actor.operator() {
		return nil, ErrForbidden
	}

	if order.PaymentStatus == PaymentPaid {
		// Payment already settled; recording it again is a no-op.
		return order, nil
	}
	if IsTerminal(order.Status) {
		return nil, fmt.Errorf("%w: order is %s", ErrInvalidTransition, order.Status)
	}

	switch outcome {
	case OutcomePaid:
		status := order.Status
		if status == StatusPending {
			status = StatusConfirmed
		}

		if method == MethodWallet {
			// Only the owner may spend their own wallet balance.
			if actor.ID != order.UserID {
				return nil, ErrForbidden
			}
			// Debit and status write commit together; a failure leaves
			// both the ledger and the order untouched.
			oid := order.ID
			if err := db.RetryOnce(ctx, func(ctx context.Context) error {
				_, err := s.repo.SettlePayment(ctx, orderID, status, PaymentPaid, wallet.ApplyParams{
					UserID:  order.UserID,
					Amount:  order.TotalAmount,
					Type:    wallet.TypeDebit,
					Cause:   wallet.CauseOrderPayment,
					OrderID: &oid,
				})
				return err
			}); err != nil {
				log.Warn("wallet debit failed", zap.Error(err))
				return nil, err
			}
			metrics.Default.WalletEntries.Inc()
		} else {
			if err := db.RetryOnce(ctx, func(ctx context.Context) error {
				return s.repo.UpdatePayment(ctx, orderID, status, PaymentPaid)
			}); err != nil {
				return nil, err
			}
		}
		order.Status = status
		order.PaymentStatus = PaymentPaid

	case OutcomeFailed:
		if err := db.RetryOnce(ctx, func(ctx context.Context) error {
			return s.repo.UpdatePayment(ctx, orderID, order.Status, PaymentFailed)
		}); err != nil {
			return nil, err
		}
		order.PaymentStatus = PaymentFailed

	default:
		return nil, fmt.Errorf("unknown payment outcome: %s", outcome)
	}

	metrics.Default.PaymentsRecorded.Inc()
	log.Info("payment recorded",
		zap.String("outcome", string(outcome)),
		zap.String("status", string(order.Status)),
	)

	return order, nil
}

// Cancel aborts an order still in {pending, confirmed, preparing}. Paid
// orders receive a compensating wallet credit committed in the same
// transaction as the cancellation; if the refund cannot be written the
// order is left untouched.
func (s *service) Cancel(ctx context.Context, actor Actor, orderID uuid.UUID) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Cancel"),
		zap.String("order_id", orderID.String()),
	)

	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.UserID != actor.ID && !actor.operator() {
		return nil, ErrForbidden
	}
	if !IsCancellable(order.Status) {
		return nil, fmt.Errorf("%w: cannot cancel %s order", ErrInvalidTransition, order.Status)
	}

	payment := PaymentFailed
	if order.PaymentStatus == PaymentPaid {
		// Refund credit and cancellation commit together. The
		// (order_id, cause) dedup in the ledger keeps a repeated
		// cancel from issuing a second refund.
		oid := order.ID
		if err := db.RetryOnce(ctx, func(ctx context.Context) error {
			_, err := s.repo.SettlePayment(ctx, orderID, StatusCancelled, PaymentRefunded, wallet.ApplyParams{
				UserID:  order.UserID,
				Amount:  order.TotalAmount,
				Type:    wallet.TypeCredit,
				Cause:   wallet.CauseOrderRefund,
				OrderID: &oid,
			})
			return err
		}); err != nil {
			log.Error("refund credit failed", zap.Error(err))
			return nil, fmt.Errorf("%w: %v", ErrRefundFailed, err)
		}
		payment = PaymentRefunded
		metrics.Default.WalletEntries.Inc()
	} else {
		if err := db.RetryOnce(ctx, func(ctx context.Context) error {
			return s.repo.UpdatePayment(ctx, orderID, StatusCancelled, payment)
		}); err != nil {
			return nil, err
		}
	}

	metrics.Default.OrdersCancelled.Inc()
	log.Info("order cancelled", zap.String("payment_status", string(payment)))

	order.Status = StatusCancelled
	order.PaymentStatus = payment
	return order, nil
}
