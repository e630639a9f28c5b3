package transport

import (
	"net/http"

	"paniervert-be/internal/order"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type advanceStatusRequest struct {
	Target string `json:"target"`
}

type recordPaymentRequest struct {
	Outcome string `json:"outcome"`
	Method  string `json:"method"`
}

func orderIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order id"})
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	o, err := h.orderSvc.CreateOrder(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toOrderResponse(o))
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	orders, err := h.orderSvc.ListOrders(r.Context(), actor,
		queryUint16(r, "limit", 20), queryUint16(r, "page", 1))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponses(orders))
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	orderID, ok := orderIDParam(w, r)
	if !ok {
		return
	}

	o, err := h.orderSvc.GetOrder(r.Context(), actor, orderID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

func (h *Handler) advanceOrderStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	orderID, ok := orderIDParam(w, r)
	if !ok {
		return
	}

	var req advanceStatusRequest
	if err := decodeJSON(r, &req); err != nil || req.Target == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "target status is required"})
		return
	}

	o, err := h.orderSvc.AdvanceStatus(r.Context(), actor, orderID, order.Status(req.Target))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

func (h *Handler) recordPayment(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	orderID, ok := orderIDParam(w, r)
	if !ok {
		return
	}

	var req recordPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	method := order.PaymentMethod(req.Method)
	if method == "" {
		method = order.MethodExternal
	}

	o, err := h.orderSvc.RecordPayment(r.Context(), actor, orderID,
		order.PaymentOutcome(req.Outcome), method)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	orderID, ok := orderIDParam(w, r)
	if !ok {
		return
	}

	o, err := h.orderSvc.Cancel(r.Context(), actor, orderID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(o))
}
