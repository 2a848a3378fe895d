package presale

import (
	"fmt"
	"strings"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// Decimals del token y de la moneda nativa (convención de 18 decimales).
const Decimals int32 = 18

// ParseUnits convierte un monto decimal ("1.5") a unidades mínimas con los decimales dados.
// Rechaza negativos, fracciones por debajo de la unidad mínima y valores de más de 256 bits.
func ParseUnits(s string, decimals int32) (*uint256.Int, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("monto inválido %q: %w", s, err)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("monto negativo %q", s)
	}
	scaled := d.Shift(decimals)
	if !scaled.Equal(scaled.Truncate(0)) {
		return nil, fmt.Errorf("monto %q tiene más de %d decimales", s, decimals)
	}
	v, overflow := uint256.FromBig(scaled.BigInt())
	if overflow {
		return nil, fmt.Errorf("monto %q excede 256 bits", s)
	}
	return v, nil
}

// ParseEther atajo de ParseUnits con 18 decimales.
func ParseEther(s string) (*uint256.Int, error) {
	return ParseUnits(s, Decimals)
}

// ParseWei interpreta un entero decimal en unidades mínimas.
func ParseWei(s string) (*uint256.Int, error) {
	v, err := uint256.FromDecimal(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("monto en wei inválido %q: %w", s, err)
	}
	return v, nil
}

// FormatUnits representa v con los decimales dados (para respuestas y logs).
func FormatUnits(v *uint256.Int, decimals int32) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(v.ToBig(), -decimals)
}
