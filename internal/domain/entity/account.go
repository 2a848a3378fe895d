package entity

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ParseAccount valida una dirección hex (0x + 40 dígitos) y la devuelve como common.Address.
// La dirección cero se rechaza: no identifica a ninguna cuenta.
func ParseAccount(s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("dirección inválida %q", s)
	}
	addr := common.HexToAddress(s)
	if addr == (common.Address{}) {
		return common.Address{}, fmt.Errorf("dirección cero no permitida")
	}
	return addr, nil
}

// IsZeroAccount indica si la dirección es la dirección cero.
func IsZeroAccount(a common.Address) bool {
	return a == (common.Address{})
}
