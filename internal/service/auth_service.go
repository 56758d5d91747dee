package service

import (
	"context"
	"errors"
	"time"

	"oficialia/internal/apierror"
	"oficialia/internal/dto"
	"oficialia/internal/middleware"
	"oficialia/internal/model"
	"oficialia/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var ErrCredenciales = errors.New("credenciales inválidas")

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	// Refresh reemite un token para una sesión todavía válida.
	Refresh(ctx context.Context, userID uuid.UUID) (*dto.LoginResponse, error)
	CrearUsuario(ctx context.Context, req dto.CrearUsuarioRequest) (*model.Usuario, error)
	ActualizarUsuario(ctx context.Context, id uuid.UUID, req dto.ActualizarUsuarioRequest) (*model.Usuario, error)
	ListarUsuarios(ctx context.Context) ([]model.Usuario, error)
	ObtenerUsuario(ctx context.Context, id uuid.UUID) (*model.Usuario, error)
}

type authService struct {
	repo      repository.UsuarioRepository
	jwtSecret string
	jwtExpiry time.Duration
}

func NewAuthService(repo repository.UsuarioRepository, jwtSecret string, jwtExpiry time.Duration) AuthService {
	return &authService{repo: repo, jwtSecret: jwtSecret, jwtExpiry: jwtExpiry}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	u, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apierror.ErrNoEncontrado) {
			return nil, ErrCredenciales
		}
		return nil, err
	}
	if !u.Activo {
		return nil, ErrCredenciales
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrCredenciales
	}

	token, expira, err := middleware.GenerateToken(u, s.jwtSecret, s.jwtExpiry)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: expira,
		Usuario:   dto.NewUsuarioResponse(u),
	}, nil
}

func (s *authService) Refresh(ctx context.Context, userID uuid.UUID) (*dto.LoginResponse, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, ErrCredenciales
	}
	if !u.Activo {
		return nil, ErrCredenciales
	}
	token, expira, err := middleware.GenerateToken(u, s.jwtSecret, s.jwtExpiry)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: expira,
		Usuario:   dto.NewUsuarioResponse(u),
	}, nil
}

func (s *authService) CrearUsuario(ctx context.Context, req dto.CrearUsuarioRequest) (*model.Usuario, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &model.Usuario{
		ID:           uuid.New(),
		Email:        req.Email,
		Nombre:       req.Nombre,
		Telefono:     req.Telefono,
		Area:         req.Area,
		Organo:       req.Organo,
		PasswordHash: string(hash),
		Rol:          req.Rol,
		Activo:       true,
	}
	if err := s.repo.Crear(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *authService) ActualizarUsuario(ctx context.Context, id uuid.UUID, req dto.ActualizarUsuarioRequest) (*model.Usuario, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Nombre = req.Nombre
	u.Telefono = req.Telefono
	u.Area = req.Area
	u.Organo = req.Organo
	if req.Rol != nil {
		u.Rol = *req.Rol
	}
	if req.Activo != nil {
		u.Activo = *req.Activo
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = string(hash)
	}
	if err := s.repo.Actualizar(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *authService) ListarUsuarios(ctx context.Context) ([]model.Usuario, error) {
	return s.repo.ListTodos(ctx)
}

func (s *authService) ObtenerUsuario(ctx context.Context, id uuid.UUID) (*model.Usuario, error) {
	return s.repo.FindByID(ctx, id)
}
