package presale

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jhoicas/presale-api/internal/domain/entity"
)

// Params parámetros de construcción del motor; inmutables después de NewEngine.
type Params struct {
	Rate     Rate
	Wallet   common.Address // beneficiario de los pagos
	Token    common.Address
	Provider common.Address // dueño de los tokens que se venden
	Vault    common.Address // custodia del motor; spender del allowance del provider
	Window   SaleWindow
	LockTime time.Time
	Caps     Caps
}

// Validate comprueba los invariantes de construcción. lockTime >= closing no se exige:
// es responsabilidad de quien despliega (ver LockBeforeClose).
func (p Params) Validate() error {
	if p.Rate.Uint64() == 0 {
		return fmt.Errorf("params: rate debe ser > 0")
	}
	if entity.IsZeroAccount(p.Wallet) {
		return fmt.Errorf("params: wallet beneficiaria vacía")
	}
	if entity.IsZeroAccount(p.Provider) {
		return fmt.Errorf("params: token provider vacío")
	}
	if entity.IsZeroAccount(p.Vault) {
		return fmt.Errorf("params: vault vacío")
	}
	if !p.Window.Opening.Before(p.Window.Closing) {
		return fmt.Errorf("params: opening debe ser anterior a closing")
	}
	if err := p.Caps.Validate(); err != nil {
		return fmt.Errorf("params: caps inválidos (min <= max, max > 0): %w", err)
	}
	return nil
}

// LockBeforeClose indica un despliegue inusual en el que los retiros se habilitan antes del cierre.
func (p Params) LockBeforeClose() bool {
	return p.LockTime.Before(p.Window.Closing)
}
