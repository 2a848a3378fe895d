package presale

import (
	"fmt"
	"time"
)

// Phase fase de la venta, derivada del reloj; nunca se almacena.
type Phase string

const (
	PhaseNotStarted Phase = "not_started"
	PhaseOpen       Phase = "open"
	PhaseClosed     Phase = "closed"
)

// SaleWindow ventana [Opening, Closing) en la que se aceptan compras.
type SaleWindow struct {
	Opening time.Time
	Closing time.Time
}

// NewSaleWindow valida opening < closing.
func NewSaleWindow(opening, closing time.Time) (SaleWindow, error) {
	if !opening.Before(closing) {
		return SaleWindow{}, fmt.Errorf("ventana inválida: opening %s no es anterior a closing %s",
			opening.UTC().Format(time.RFC3339), closing.UTC().Format(time.RFC3339))
	}
	return SaleWindow{Opening: opening, Closing: closing}, nil
}

// PhaseAt devuelve la fase en el instante now.
func (w SaleWindow) PhaseAt(now time.Time) Phase {
	switch {
	case now.Before(w.Opening):
		return PhaseNotStarted
	case now.Before(w.Closing):
		return PhaseOpen
	default:
		return PhaseClosed
	}
}

// IsOpen opening <= now < closing.
func (w SaleWindow) IsOpen(now time.Time) bool {
	return w.PhaseAt(now) == PhaseOpen
}

// HasClosed now >= closing.
func (w SaleWindow) HasClosed(now time.Time) bool {
	return w.PhaseAt(now) == PhaseClosed
}
