package handler

import (
	"errors"
	"net/http"

	"oficialia/internal/apierror"
	"oficialia/internal/dto"
	"oficialia/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthHandler struct {
	svc service.AuthService
}

func NewAuthHandler(svc service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Login godoc
// @Summary Autentica con email y contraseña
// @Tags auth
// @Success 200 {object} dto.LoginResponse
// @Router /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrCredenciales) {
			c.JSON(http.StatusUnauthorized, apierror.Envelope("credenciales inválidas"))
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Refresh reemite el token de la sesión autenticada.
func (h *AuthHandler) Refresh(c *gin.Context) {
	id, err := uuid.Parse(actorDe(c).UID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.Envelope("token inválido"))
		return
	}
	resp, err := h.svc.Refresh(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.Envelope("sesión no renovable"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Me devuelve el perfil del usuario autenticado.
func (h *AuthHandler) Me(c *gin.Context) {
	actor := actorDe(c)
	c.JSON(http.StatusOK, gin.H{
		"uid":    actor.UID,
		"email":  actor.Email,
		"nombre": actor.Nombre,
		"rol":    actor.Rol,
	})
}
