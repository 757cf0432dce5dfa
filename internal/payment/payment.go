package payment

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	inErrors "github.com/wicaksono/storefront/internal/errors"
	"github.com/wicaksono/storefront/internal/log"
)

// Charger is the payment capability consumed by the order orchestrator. The
// call is synchronous from the orchestrator's perspective; a non-nil error
// aborts the whole order-creation unit of work.
type Charger interface {
	Charge(c context.Context, amount decimal.Decimal, method string) error
}

// Stub simulates a gateway: it accepts any positive amount with a non-empty
// method, unless the method is on its decline list.
type Stub struct {
	declined map[string]bool
}

func NewStub(declinedMethods ...string) *Stub {
	declined := make(map[string]bool, len(declinedMethods))
	for _, method := range declinedMethods {
		declined[method] = true
	}
	return &Stub{declined: declined}
}

func (s *Stub) Charge(c context.Context, amount decimal.Decimal, method string) error {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "PaymentStub Charge").
		Str(log.KeyPaymentMethod, method).
		Str(log.KeyTotalAmount, amount.String()).
		Logger()

	if method == "" || !amount.IsPositive() || s.declined[method] {
		err := fmt.Errorf(
			"charge rejected for method=%s amount=%s with error=%w",
			method,
			amount.String(),
			inErrors.ErrPaymentFailed,
		)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	logger.Info().Msg("charge accepted")
	return nil
}
