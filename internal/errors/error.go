package errors

import (
	"errors"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrEmptyAuth               = errors.New("missing authorization")
	ErrTokenInvalid            = errors.New("invalid token")
	ErrInvalidQuantity         = errors.New("quantity must be a positive integer")
	ErrVariationNotFound       = errors.New("product variation not found")
	ErrCartNotFound            = errors.New("cart not found")
	ErrCartItemNotFound        = errors.New("cart item not found")
	ErrOrderNotFound           = errors.New("order not found")
	ErrProductNotFound         = errors.New("product not found")
	ErrInvalidCart             = errors.New("cart is empty or invalid")
	ErrUnauthorized            = errors.New("resource does not belong to caller")
	ErrInsufficientStock       = errors.New("insufficient stock for requested quantity")
	ErrPaymentFailed           = errors.New("payment was declined")
	ErrInvalidStatusTransition = errors.New("order status transition not allowed")
)

func HandleError(err error, span trace.Span) {
	if err == nil {
		return
	}
	span.AddEvent(err.Error())
	span.SetStatus(codes.Error, err.Error())
	span.RecordError(err)
}
