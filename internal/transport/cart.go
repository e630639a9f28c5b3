package transport

import (
	"net/http"

	"paniervert-be/internal/utils"

	"github.com/go-chi/chi/v5"
)

type addItemRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	state, err := h.cartSvc.GetState(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	var req addItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	state, err := h.cartSvc.AddItem(r.Context(), userID, req.ProductID, req.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

func (h *Handler) incrementCartItem(w http.ResponseWriter, r *http.Request) {
	h.adjustCartItem(w, r, true)
}

func (h *Handler) decrementCartItem(w http.ResponseWriter, r *http.Request) {
	h.adjustCartItem(w, r, false)
}

func (h *Handler) adjustCartItem(w http.ResponseWriter, r *http.Request, up bool) {
	userID, _, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	productID, err := utils.ToUint(chi.URLParam(r, "productID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid product id"})
		return
	}

	adjust := h.cartSvc.DecrementItem
	if up {
		adjust = h.cartSvc.IncrementItem
	}

	state, err := adjust(r.Context(), userID, productID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	productID, err := utils.ToUint(chi.URLParam(r, "productID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid product id"})
		return
	}

	state, err := h.cartSvc.RemoveItem(r.Context(), userID, productID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	state, err := h.cartSvc.ClearCart(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, state)
}
