package auth

import (
	"context"

	"github.com/jhoicas/presale-api/internal/domain/entity"
	"github.com/jhoicas/presale-api/internal/domain/repository"
)

// RoleAccessControl autoriza la administración de la whitelist a operadores activos con rol admin.
// Consulta la DB en cada llamada: un admin desactivado pierde el permiso aunque su token siga vigente.
type RoleAccessControl struct {
	users repository.UserRepository
}

// NewRoleAccessControl construye el colaborador de control de acceso.
func NewRoleAccessControl(users repository.UserRepository) *RoleAccessControl {
	return &RoleAccessControl{users: users}
}

// CanManageWhitelist implementa whitelist.AccessControl.
func (a *RoleAccessControl) CanManageWhitelist(ctx context.Context, principalID string) (bool, error) {
	u, err := a.users.GetByID(ctx, principalID)
	if err != nil {
		return false, err
	}
	if u == nil {
		return false, nil
	}
	return u.Role == entity.RoleAdmin && u.Status == "active", nil
}
