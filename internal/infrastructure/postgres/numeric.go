package postgres

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// Los montos se guardan como NUMERIC(78,0), suficiente para cualquier uint256.
// pgx-shopspring-decimal los escanea a decimal.Decimal y aquí se convierten.

func toNumeric(v *uint256.Int) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(v.ToBig(), 0)
}

func fromNumeric(d decimal.Decimal) (*uint256.Int, error) {
	if d.IsNegative() {
		return nil, fmt.Errorf("numeric negativo: %s", d.String())
	}
	if !d.Equal(d.Truncate(0)) {
		return nil, fmt.Errorf("numeric con decimales: %s", d.String())
	}
	v, overflow := uint256.FromBig(d.BigInt())
	if overflow {
		return nil, fmt.Errorf("numeric fuera de rango uint256: %s", d.String())
	}
	return v, nil
}

// accountKey forma canónica de una cuenta en las columnas TEXT.
func accountKey(a common.Address) string {
	return a.Hex()
}
