package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"paniervert-be/internal/cart"
	"paniervert-be/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCartService is a mock implementation of the cart.Service interface
type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) AddItem(ctx context.Context, userID, productID uint, quantity int) (cart.State, error) {
	args := m.Called(ctx, userID, productID, quantity)
	return args.Get(0).(cart.State), args.Error(1)
}

func (m *MockCartService) IncrementItem(ctx context.Context, userID, productID uint) (cart.State, error) {
	args := m.Called(ctx, userID, productID)
	return args.Get(0).(cart.State), args.Error(1)
}

func (m *MockCartService) DecrementItem(ctx context.Context, userID, productID uint) (cart.State, error) {
	args := m.Called(ctx, userID, productID)
	return args.Get(0).(cart.State), args.Error(1)
}

func (m *MockCartService) RemoveItem(ctx context.Context, userID, productID uint) (cart.State, error) {
	args := m.Called(ctx, userID, productID)
	return args.Get(0).(cart.State), args.Error(1)
}

func (m *MockCartService) ClearCart(ctx context.Context, userID uint) (cart.State, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(cart.State), args.Error(1)
}

func (m *MockCartService) GetState(ctx context.Context, userID uint) (cart.State, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(cart.State), args.Error(1)
}

// asUser injects an authenticated identity, standing in for the auth
// middleware.
func asUser(id uint, role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := utils.SetUserContext(r.Context(), id, "test@paniervert.fr", role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func cartRouter(h *Handler, middlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(middlewares...)
	r.Get("/cart", h.getCart)
	r.Post("/cart/items", h.addCartItem)
	r.Post("/cart/items/{productID}/increment", h.incrementCartItem)
	return r
}

func TestGetCart(t *testing.T) {
	t.Run("Unauthenticated", func(t *testing.T) {
		h := NewHandler(nil, nil, new(MockCartService), nil, nil)
		router := cartRouter(h)

		req := httptest.NewRequest("GET", "/cart", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Success", func(t *testing.T) {
		cartSvc := new(MockCartService)
		cartSvc.On("GetState", mock.Anything, uint(1)).Return(cart.State{
			Items:       []cart.Item{{ProductID: 7, Name: "Tomates anciennes", UnitPrice: 1000, Quantity: 2}},
			TotalItems:  2,
			TotalAmount: 2000,
		}, nil)

		h := NewHandler(nil, nil, cartSvc, nil, nil)
		router := cartRouter(h, asUser(1, utils.RoleClient))

		req := httptest.NewRequest("GET", "/cart", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var state cart.State
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
		assert.Equal(t, 2, state.TotalItems)
		assert.Equal(t, int64(2000), state.TotalAmount)
	})
}

func TestAddCartItem(t *testing.T) {
	t.Run("InvalidBody", func(t *testing.T) {
		h := NewHandler(nil, nil, new(MockCartService), nil, nil)
		router := cartRouter(h, asUser(1, utils.RoleClient))

		req := httptest.NewRequest("POST", "/cart/items", strings.NewReader("not json"))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("StockConflict", func(t *testing.T) {
		cartSvc := new(MockCartService)
		cartSvc.On("AddItem", mock.Anything, uint(1), uint(7), 3).
			Return(cart.State{}, cart.ErrStockExceeded)

		h := NewHandler(nil, nil, cartSvc, nil, nil)
		router := cartRouter(h, asUser(1, utils.RoleClient))

		req := httptest.NewRequest("POST", "/cart/items", strings.NewReader(`{"product_id":7,"quantity":3}`))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Success", func(t *testing.T) {
		cartSvc := new(MockCartService)
		cartSvc.On("AddItem", mock.Anything, uint(1), uint(7), 2).Return(cart.State{
			Items:       []cart.Item{{ProductID: 7, Quantity: 2}},
			TotalItems:  2,
			TotalAmount: 2000,
		}, nil)

		h := NewHandler(nil, nil, cartSvc, nil, nil)
		router := cartRouter(h, asUser(1, utils.RoleClient))

		req := httptest.NewRequest("POST", "/cart/items", strings.NewReader(`{"product_id":7,"quantity":2}`))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		cartSvc.AssertExpectations(t)
	})
}

func TestIncrementCartItem_BadProductID(t *testing.T) {
	h := NewHandler(nil, nil, new(MockCartService), nil, nil)
	router := cartRouter(h, asUser(1, utils.RoleClient))

	req := httptest.NewRequest("POST", "/cart/items/abc/increment", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
