package otel

import (
	"go.opentelemetry.io/otel"

	"github.com/wicaksono/storefront/internal/common/constants"
)

var Tracer = otel.Tracer(constants.AppProductService)
