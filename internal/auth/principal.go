package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Leganyst/clinic-booking/internal/model"
)

var (
	ErrUnknownRole = errors.New("unknown role")
	ErrNoPrincipal = errors.New("no principal in context")
)

// Роль пользователя. Определяется один раз при логине и дальше едет в токене.
type Role string

const (
	RolePatient Role = model.RoleCodePatient
	RoleDoctor  Role = model.RoleCodeDoctor
	RoleAdmin   Role = model.RoleCodeAdmin
)

// ParseRole сопоставляет код роли из хранилища с вариантом Role.
func ParseRole(code string) (Role, error) {
	switch Role(code) {
	case RolePatient, RoleDoctor, RoleAdmin:
		return Role(code), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, code)
}

// Principal — аутентифицированный пользователь.
// Для врача ProfileID указывает на запись в doctors, для остальных равен UserID.
type Principal struct {
	UserID    uuid.UUID
	ProfileID uuid.UUID
	Email     string
	Role      Role
}

// Is проверяет, что роль принципала входит в roles.
func (p *Principal) Is(roles ...Role) bool {
	if p == nil {
		return false
	}
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFrom(ctx context.Context) (*Principal, error) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	if !ok || p == nil {
		return nil, ErrNoPrincipal
	}
	return p, nil
}
