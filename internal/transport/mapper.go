package transport

import (
	"time"

	"paniervert-be/internal/order"
)

// statusLabels are the customer-facing French labels for order statuses.
var statusLabels = map[order.Status]string{
	order.StatusPending:    "en attente",
	order.StatusConfirmed:  "confirmée",
	order.StatusPreparing:  "en préparation",
	order.StatusDelivering: "en livraison",
	order.StatusDelivered:  "livrée",
	order.StatusCancelled:  "annulée",
}

// StatusLabel returns the display label for an order status; unknown
// statuses fall back to the raw identifier.
func StatusLabel(s order.Status) string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

type orderItemResponse struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	Subtotal  int64  `json:"subtotal"`
}

type orderResponse struct {
	ID            string              `json:"id"`
	UserID        uint                `json:"user_id"`
	Status        string              `json:"status"`
	StatusLabel   string              `json:"status_label"`
	PaymentStatus string              `json:"payment_status"`
	TotalAmount   int64               `json:"total_amount"`
	Items         []orderItemResponse `json:"items,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}

func toOrderResponse(o *order.Order) orderResponse {
	resp := orderResponse{
		ID:            o.ID.String(),
		UserID:        o.UserID,
		Status:        string(o.Status),
		StatusLabel:   StatusLabel(o.Status),
		PaymentStatus: string(o.PaymentStatus),
		TotalAmount:   o.TotalAmount,
		CreatedAt:     o.CreatedAt,
	}
	for _, item := range o.Items {
		resp.Items = append(resp.Items, orderItemResponse{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal,
		})
	}
	return resp
}

func toOrderResponses(orders []*order.Order) []orderResponse {
	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	return out
}
