// Package auth implementa registro y login de usuarios. El núcleo de
// inventario nunca consulta esta capa: solo recibe el Actor ya resuelto.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/farmadepot/bodega-api/internal/domain"
	"github.com/farmadepot/bodega-api/internal/domain/entity"
	"github.com/farmadepot/bodega-api/internal/domain/repository"
	pkgjwt "github.com/farmadepot/bodega-api/pkg/jwt"
)

// JWTConfig parámetros de emisión de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// UseCase maneja registro y autenticación.
type UseCase struct {
	users repository.UserRepository
	jwt   JWTConfig
}

// NewUseCase construye el caso de uso.
func NewUseCase(users repository.UserRepository, jwt JWTConfig) *UseCase {
	return &UseCase{users: users, jwt: jwt}
}

// RegisterInput entrada de registro de usuario.
type RegisterInput struct {
	Email     string
	Name      string
	Password  string
	Role      string
	ClientIDs []string
}

// Register crea el usuario con hash bcrypt de la contraseña.
func (uc *UseCase) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	if in.Email == "" || len(in.Password) < 8 {
		return nil, domain.ErrInvalidInput
	}
	switch in.Role {
	case entity.RoleAdmin, entity.RoleWarehouse, entity.RoleClient:
	default:
		return nil, domain.ErrInvalidInput
	}
	if in.Role == entity.RoleClient && len(in.ClientIDs) == 0 {
		return nil, domain.ErrInvalidInput
	}

	existing, err := uc.users.GetByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	u := &entity.User{
		ID:           uuid.New().String(),
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: string(hash),
		Role:         in.Role,
		ClientIDs:    in.ClientIDs,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.users.Create(u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login valida credenciales y emite un JWT con rol y clientes en alcance.
func (uc *UseCase) Login(ctx context.Context, email, password string) (string, *entity.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidInput
	}
	u, err := uc.users.GetByEmail(email)
	if err != nil {
		return "", nil, err
	}
	if u == nil {
		return "", nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", nil, domain.ErrUnauthorized
	}
	token, err := pkgjwt.Generate(uc.jwt.Secret, u.ID, u.Role, u.ClientIDs, uc.jwt.Issuer, uc.jwt.ExpMinutes)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}
