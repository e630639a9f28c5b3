package catalog

import (
	"context"
)

// Service defines the read-only catalog operations exposed to the rest
// of the application.
type Service interface {
	GetProduct(ctx context.Context, productID uint) (*Product, error)
	ListProducts(ctx context.Context, limit, page uint16) ([]*Product, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetProduct(ctx context.Context, productID uint) (*Product, error) {
	return s.repo.GetProduct(ctx, productID)
}

func (s *service) ListProducts(ctx context.Context, limit, page uint16) ([]*Product, error) {
	return s.repo.ListProducts(ctx, limit, page)
}
