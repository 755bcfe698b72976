package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/gestinvlab-api/internal/application/dto"
	"github.com/jhoicas/gestinvlab-api/internal/domain"
	"github.com/jhoicas/gestinvlab-api/internal/domain/entity"
	"github.com/jhoicas/gestinvlab-api/internal/domain/repository"
)

// UserUseCase aplica reglas de negocio para usuarios.
type UserUseCase struct {
	repo repository.UserRepository
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// Create crea un usuario con la contraseña hasheada (bcrypt).
func (uc *UserUseCase) Create(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	username := strings.TrimSpace(in.Username)
	verr := &domain.ValidationError{}
	if username == "" {
		verr.Add(domain.ErrInvalidInput, -1, "username", "username es obligatorio")
	}
	if len(in.Password) < 8 {
		verr.Add(domain.ErrInvalidInput, -1, "password", "mínimo 8 caracteres")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrUsernameExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &entity.User{
		Username:     username,
		FullName:     strings.TrimSpace(in.FullName),
		PasswordHash: string(hash),
		IsStaff:      in.IsStaff,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return entityToUserResponse(user), nil
}

// ListActive lista los usuarios activos (filtro de reportes).
func (uc *UserUseCase) ListActive(ctx context.Context) ([]dto.UserResponse, error) {
	list, err := uc.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, *entityToUserResponse(u))
	}
	return out, nil
}

// EnsureBootstrapAdmin crea un administrador inicial si la tabla de usuarios está vacía.
// Sin username o password configurados no hace nada.
func (uc *UserUseCase) EnsureBootstrapAdmin(ctx context.Context, username, password string, log zerolog.Logger) error {
	if username == "" || password == "" {
		return nil
	}
	n, err := uc.repo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	if _, err := uc.Create(ctx, dto.CreateUserRequest{Username: username, Password: password, FullName: "Administrador", IsStaff: true}); err != nil {
		return err
	}
	log.Info().Str("username", username).Msg("administrador inicial creado")
	return nil
}

func entityToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		FullName:  u.FullName,
		IsStaff:   u.IsStaff,
		Role:      u.Role(),
		CreatedAt: u.CreatedAt,
	}
}
