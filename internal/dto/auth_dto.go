package dto

import (
	"time"

	"oficialia/internal/model"

	"github.com/google/uuid"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
	Usuario   UsuarioResponse `json:"usuario"`
}

type CrearUsuarioRequest struct {
	Email    string    `json:"email" validate:"required,email"`
	Nombre   string    `json:"nombre" validate:"required"`
	Password string    `json:"password" validate:"required,min=8"`
	Telefono string    `json:"telefono"`
	Area     string    `json:"area"`
	Organo   string    `json:"organo"`
	Rol      model.Rol `json:"rol" validate:"required,oneof=admin solicitud revision autorizacion direccion almacen"`
}

type ActualizarUsuarioRequest struct {
	Nombre   string     `json:"nombre" validate:"required"`
	Telefono string     `json:"telefono"`
	Area     string     `json:"area"`
	Organo   string     `json:"organo"`
	Rol      *model.Rol `json:"rol" validate:"omitempty,oneof=admin solicitud revision autorizacion direccion almacen"`
	Activo   *bool      `json:"activo"`
	Password string     `json:"password" validate:"omitempty,min=8"`
}

type UsuarioResponse struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Nombre   string    `json:"nombre"`
	Telefono string    `json:"telefono,omitempty"`
	Area     string    `json:"area,omitempty"`
	Organo   string    `json:"organo,omitempty"`
	Rol      model.Rol `json:"rol"`
	Activo   bool      `json:"activo"`
}

func NewUsuarioResponse(u *model.Usuario) UsuarioResponse {
	return UsuarioResponse{
		ID: u.ID, Email: u.Email, Nombre: u.Nombre, Telefono: u.Telefono,
		Area: u.Area, Organo: u.Organo, Rol: u.Rol, Activo: u.Activo,
	}
}
