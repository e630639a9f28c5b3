package cart

import (
	"context"

	"paniervert-be/internal/catalog"
	"paniervert-be/internal/logger"

	"go.uber.org/zap"
)

// Service defines the business logic for carts. Every mutation persists
// before returning and hands back the recomputed cart state.
type Service interface {
	AddItem(ctx context.Context, userID, productID uint, quantity int) (State, error)
	IncrementItem(ctx context.Context, userID, productID uint) (State, error)
	DecrementItem(ctx context.Context, userID, productID uint) (State, error)
	RemoveItem(ctx context.Context, userID, productID uint) (State, error)
	ClearCart(ctx context.Context, userID uint) (State, error)
	GetState(ctx context.Context, userID uint) (State, error)
}

type service struct {
	repo        Repository
	catalogRepo catalog.Repository
}

// NewService creates a new cart service.
func NewService(repo Repository, catalogRepo catalog.Repository) Service {
	return &service{repo: repo, catalogRepo: catalogRepo}
}

// AddItem adds a product to the user's cart, merging quantities when the
// line already exists. Price and availability come from the catalog at
// add time.
func (s *service) AddItem(ctx context.Context, userID, productID uint, quantity int) (State, error) {
	if quantity < 1 {
		return State{}, ErrInvalidQuantity
	}

	product, err := s.catalogRepo.GetProduct(ctx, productID)
	if err != nil {
		return State{}, err
	}

	if product.Stock <= 0 {
		return State{}, ErrOutOfStock
	}

	existing, err := s.repo.GetItemByProduct(ctx, userID, productID)
	if err != nil {
		return State{}, err
	}

	finalQty := quantity
	if existing != nil {
		finalQty += existing.Quantity
	}

	if finalQty > product.Stock {
		return State{}, ErrStockExceeded
	}

	if existing == nil {
		_, err = s.repo.CreateItem(ctx, CreateItemParams{
			UserID:    userID,
			ProductID: productID,
			Name:      product.Name,
			UnitPrice: product.UnitPrice,
			Quantity:  quantity,
		})
	} else {
		err = s.repo.UpdateQuantity(ctx, userID, productID, finalQty)
	}
	if err != nil {
		return State{}, err
	}

	logger.FromCtx(ctx).Info("cart item added",
		zap.Uint("user_id", userID),
		zap.Uint("product_id", productID),
		zap.Int("quantity", finalQty),
	)

	return s.GetState(ctx, userID)
}

// IncrementItem raises the line quantity by one, re-checking catalog
// stock.
func (s *service) IncrementItem(ctx context.Context, userID, productID uint) (State, error) {
	item, err := s.repo.GetItemByProduct(ctx, userID, productID)
	if err != nil {
		return State{}, err
	}
	if item == nil {
		return State{}, ErrItemNotFound
	}

	product, err := s.catalogRepo.GetProduct(ctx, productID)
	if err != nil {
		return State{}, err
	}
	if item.Quantity+1 > product.Stock {
		return State{}, ErrStockExceeded
	}

	if err := s.repo.UpdateQuantity(ctx, userID, productID, item.Quantity+1); err != nil {
		return State{}, err
	}

	return s.GetState(ctx, userID)
}

// DecrementItem lowers the line quantity by one. Reaching zero removes
// the line and succeeds.
func (s *service) DecrementItem(ctx context.Context, userID, productID uint) (State, error) {
	item, err := s.repo.GetItemByProduct(ctx, userID, productID)
	if err != nil {
		return State{}, err
	}
	if item == nil {
		return State{}, ErrItemNotFound
	}

	if item.Quantity <= 1 {
		if err := s.repo.RemoveItem(ctx, userID, productID); err != nil {
			return State{}, err
		}
		return s.GetState(ctx, userID)
	}

	if err := s.repo.UpdateQuantity(ctx, userID, productID, item.Quantity-1); err != nil {
		return State{}, err
	}

	return s.GetState(ctx, userID)
}

// RemoveItem deletes a line. Removing an absent line is a success.
func (s *service) RemoveItem(ctx context.Context, userID, productID uint) (State, error) {
	if err := s.repo.RemoveItem(ctx, userID, productID); err != nil {
		return State{}, err
	}
	return s.GetState(ctx, userID)
}

func (s *service) ClearCart(ctx context.Context, userID uint) (State, error) {
	if err := s.repo.ClearCart(ctx, userID); err != nil {
		return State{}, err
	}
	return s.GetState(ctx, userID)
}

// GetState returns the current cart with totals recomputed from the
// stored lines.
func (s *service) GetState(ctx context.Context, userID uint) (State, error) {
	items, err := s.repo.GetItems(ctx, userID)
	if err != nil {
		return State{}, err
	}
	return stateOf(items), nil
}
