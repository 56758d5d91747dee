package handler

import (
	"net/http"

	"oficialia/internal/dto"
	"oficialia/internal/service"

	"github.com/gin-gonic/gin"
)

// UsuarioHandler expone la administración de usuarios, solo para admin.
type UsuarioHandler struct {
	svc service.AuthService
}

func NewUsuarioHandler(svc service.AuthService) *UsuarioHandler {
	return &UsuarioHandler{svc: svc}
}

func (h *UsuarioHandler) Crear(c *gin.Context) {
	var req dto.CrearUsuarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	u, err := h.svc.CrearUsuario(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewUsuarioResponse(u))
}

func (h *UsuarioHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.ActualizarUsuarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	u, err := h.svc.ActualizarUsuario(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUsuarioResponse(u))
}

func (h *UsuarioHandler) Listar(c *gin.Context) {
	usuarios, err := h.svc.ListarUsuarios(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]dto.UsuarioResponse, 0, len(usuarios))
	for i := range usuarios {
		out = append(out, dto.NewUsuarioResponse(&usuarios[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *UsuarioHandler) Obtener(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	u, err := h.svc.ObtenerUsuario(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUsuarioResponse(u))
}
