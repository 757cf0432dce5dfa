package repository

import (
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestNumericRoundTrip(t *testing.T) {
	for _, s := range []string{"0", "19.99", "-3.5", "12345678.90"} {
		d := mustDecimal(t, s)
		got := DecimalFromNumeric(NumericFromDecimal(d))
		assert.True(t, d.Equal(got), "expected %s got %s", d, got)
	}
}

func TestDecimalFromInvalidNumeric(t *testing.T) {
	assert.True(t, DecimalFromNumeric(pgtype.Numeric{}).IsZero())
}
