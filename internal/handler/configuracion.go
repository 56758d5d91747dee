package handler

import (
	"net/http"

	"oficialia/internal/dto"
	"oficialia/internal/model"
	"oficialia/internal/service"

	"github.com/gin-gonic/gin"
)

// ConfiguracionHandler administra la ventana de envío mensual.
type ConfiguracionHandler struct {
	svc service.ConfiguracionService
}

func NewConfiguracionHandler(svc service.ConfiguracionService) *ConfiguracionHandler {
	return &ConfiguracionHandler{svc: svc}
}

func respuestaConfiguracion(cfg *model.ConfiguracionEnvio, abierta bool) dto.ConfiguracionEnvioResponse {
	resp := dto.ConfiguracionEnvioResponse{
		DiasFestivos:        cfg.DiasFestivos,
		ExcepcionGlobal:     cfg.ExcepcionGlobal,
		ExcepcionesUsuarios: cfg.ExcepcionesUsuarios,
		VentanaAbierta:      abierta,
	}
	if resp.DiasFestivos == nil {
		resp.DiasFestivos = []string{}
	}
	if resp.ExcepcionesUsuarios == nil {
		resp.ExcepcionesUsuarios = []model.ExcepcionUsuario{}
	}
	return resp
}

func (h *ConfiguracionHandler) Obtener(c *gin.Context) {
	cfg, abierta, err := h.svc.Obtener(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, respuestaConfiguracion(cfg, abierta))
}

func (h *ConfiguracionHandler) Guardar(c *gin.Context) {
	var req dto.ConfiguracionEnvioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	cfg, err := h.svc.Guardar(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	_, abierta, err := h.svc.Obtener(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, respuestaConfiguracion(cfg, abierta))
}
