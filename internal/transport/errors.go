package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"paniervert-be/internal/cart"
	"paniervert-be/internal/catalog"
	"paniervert-be/internal/db"
	"paniervert-be/internal/order"
	"paniervert-be/internal/user"
	"paniervert-be/internal/wallet"
)

// writeError maps a typed domain error to an HTTP status and a JSON
// body. Unknown errors become an opaque 500.
func writeError(w http.ResponseWriter, err error) {
	var priceChanged *order.PriceChangedError
	if errors.As(err, &priceChanged) {
		writeJSON(w, http.StatusConflict, map[string]interface{}{
			"error":   priceChanged.Error(),
			"changes": priceChanged.Changes,
		})
		return
	}

	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, wallet.ErrInvalidAmount),
		errors.Is(err, order.ErrEmptyCart):
		status = http.StatusBadRequest
		message = err.Error()

	case errors.Is(err, user.ErrUnauthenticated),
		errors.Is(err, user.ErrInvalidCredentials):
		status = http.StatusUnauthorized
		message = err.Error()

	case errors.Is(err, order.ErrForbidden):
		status = http.StatusForbidden
		message = err.Error()

	case errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, cart.ErrItemNotFound),
		errors.Is(err, order.ErrOrderNotFound):
		status = http.StatusNotFound
		message = err.Error()

	case errors.Is(err, user.ErrEmailExists),
		errors.Is(err, cart.ErrOutOfStock),
		errors.Is(err, cart.ErrStockExceeded),
		errors.Is(err, order.ErrOutOfStock),
		errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, order.ErrRefundFailed),
		errors.Is(err, wallet.ErrInsufficientFunds):
		status = http.StatusConflict
		message = err.Error()

	case errors.Is(err, db.ErrUnavailable):
		status = http.StatusServiceUnavailable
		message = err.Error()
	}

	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}
