package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/goldenerp/backend/internal/entity"
)

type errorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// writeError maps domain error kinds to HTTP status codes. Unclassified
// errors are logged and surfaced as a generic internal error.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	var (
		notFound     *entity.NotFoundError
		duplicate    *entity.DuplicateFieldError
		insufficient *entity.InsufficientStockError
		invalidState *entity.InvalidOrderStateError
		invalidInput *entity.InvalidInputError
		lookupFailed *entity.LookupFailedError
		domainErr    *entity.DomainError
	)

	switch {
	case errors.As(err, &notFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.As(err, &duplicate):
		status = http.StatusConflict
		message = err.Error()
	case errors.As(err, &insufficient):
		status = http.StatusUnprocessableEntity
		message = err.Error()
	case errors.As(err, &invalidState):
		status = http.StatusUnprocessableEntity
		message = err.Error()
	case errors.As(err, &invalidInput):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.As(err, &lookupFailed):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.As(err, &domainErr):
		status = http.StatusBadRequest
		message = err.Error()
	default:
		slog.Error("Unexpected error", "err", err)
	}

	writeJSON(w, status, errorResponse{Status: status, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "err", err)
	}
}

type orderItemResponse struct {
	ID            int64            `json:"id"`
	ProductID     int64            `json:"product_id"`
	ProductName   string           `json:"product_name"`
	Quantity      int              `json:"quantity"`
	UnitPrice     decimal.Decimal  `json:"unit_price"`
	Discount      *decimal.Decimal `json:"discount,omitempty"`
	Subtotal      decimal.Decimal  `json:"subtotal"`
	DiscountTotal decimal.Decimal  `json:"discount_total"`
	Total         decimal.Decimal  `json:"total"`
}

type orderResponse struct {
	ID           int64               `json:"id"`
	CustomerID   int64               `json:"customer_id"`
	CustomerName string              `json:"customer_name"`
	Status       entity.Status       `json:"status"`
	Items        []orderItemResponse `json:"items"`
	Subtotal     decimal.Decimal     `json:"subtotal"`
	Discounts    decimal.Decimal     `json:"discounts"`
	Total        decimal.Decimal     `json:"total"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

func toOrderResponse(o *entity.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, orderItemResponse{
			ID:            item.ID,
			ProductID:     item.ProductID,
			ProductName:   item.ProductName,
			Quantity:      item.Quantity,
			UnitPrice:     item.UnitPrice,
			Discount:      item.Discount,
			Subtotal:      item.Subtotal(),
			DiscountTotal: item.DiscountTotal(),
			Total:         item.Total(),
		})
	}
	return orderResponse{
		ID:           o.ID,
		CustomerID:   o.CustomerID,
		CustomerName: o.CustomerName,
		Status:       o.Status,
		Items:        items,
		Subtotal:     o.Subtotal(),
		Discounts:    o.Discounts(),
		Total:        o.Total(),
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}
