package presale

import (
	"github.com/holiman/uint256"
	"github.com/jhoicas/presale-api/internal/domain"
)

// Rate tokens (unidad mínima) por wei pagado. Entero positivo, inmutable.
type Rate struct {
	v *uint256.Int
}

// NewRate construye la tasa; rate debe ser > 0.
func NewRate(rate uint64) (Rate, error) {
	if rate == 0 {
		return Rate{}, domain.ErrInvalidInput
	}
	return Rate{v: uint256.NewInt(rate)}, nil
}

// Uint64 valor de la tasa.
func (r Rate) Uint64() uint64 {
	if r.v == nil {
		return 0
	}
	return r.v.Uint64()
}

// TokensFor convierte wei a tokens: amount * rate, con detección de desbordamiento.
func (r Rate) TokensFor(amount *uint256.Int) (*uint256.Int, error) {
	if r.v == nil {
		return nil, domain.ErrInvalidInput
	}
	out, overflow := new(uint256.Int).MulOverflow(amount, r.v)
	if overflow {
		return nil, domain.ErrArithmeticOverflow
	}
	return out, nil
}
