package handler

import (
	"fmt"
	"io"
	"net/http"

	"oficialia/internal/bandeja"
	"oficialia/internal/dto"
	"oficialia/internal/infra"
	"oficialia/internal/model"
	"oficialia/internal/repository"
	"oficialia/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type RequisicionHandler struct {
	svc    service.RequisicionService
	repo   repository.RequisicionRepository
	fuente bandeja.Fuente
}

func NewRequisicionHandler(svc service.RequisicionService, repo repository.RequisicionRepository, fuente bandeja.Fuente) *RequisicionHandler {
	return &RequisicionHandler{svc: svc, repo: repo, fuente: fuente}
}

func (h *RequisicionHandler) respuesta(r *model.Requisicion) dto.RequisicionResponse {
	return dto.NewRequisicionResponse(r, h.svc.EntregaFisica(r))
}

// Crear godoc
// @Summary Crea una requisición (borrador o envío directo)
// @Tags requisiciones
// @Security BearerAuth
// @Success 201 {object} dto.RequisicionResponse
// @Router /v1/requisiciones [post]
func (h *RequisicionHandler) Crear(c *gin.Context) {
	var req dto.CrearRequisicionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	r, err := h.svc.Crear(c.Request.Context(), actorDe(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.respuesta(r))
}

// Listar devuelve la bandeja fusionada del usuario en una sola consulta.
func (h *RequisicionHandler) Listar(c *gin.Context) {
	actor := actorDe(c)
	docs, err := bandeja.Listar(c.Request.Context(), h.repo, actor.UID, actor.Rol)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]dto.RequisicionResponse, 0, len(docs))
	for i := range docs {
		out = append(out, h.respuesta(&docs[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *RequisicionHandler) Obtener(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	r, err := h.svc.Obtener(c.Request.Context(), actorDe(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.respuesta(r))
}

func (h *RequisicionHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.ActualizarRequisicionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	r, err := h.svc.ActualizarBorrador(c.Request.Context(), actorDe(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.respuesta(r))
}

func (h *RequisicionHandler) Eliminar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.EliminarBorrador(c.Request.Context(), actorDe(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Enviar somete el borrador al circuito de revisión.
func (h *RequisicionHandler) Enviar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	r, err := h.svc.Enviar(c.Request.Context(), actorDe(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.respuesta(r))
}

// Reclamar toma la revisión exclusiva.
func (h *RequisicionHandler) Reclamar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	r, err := h.svc.Reclamar(c.Request.Context(), actorDe(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.respuesta(r))
}

func (h *RequisicionHandler) Transicion(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.TransicionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	r, err := h.svc.Transicion(c.Request.Context(), actorDe(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.respuesta(r))
}

func (h *RequisicionHandler) ActualizarLineas(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.ActualizarLineasRequest
	if !bindAndValidate(c, &req) {
		return
	}
	r, err := h.svc.ActualizarLineas(c.Request.Context(), actorDe(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.respuesta(r))
}

// PDF devuelve el formato imprimible de la requisición.
func (h *RequisicionHandler) PDF(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	r, err := h.svc.Obtener(c.Request.Context(), actorDe(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	buf, err := infra.GenerarPDFRequisicion(r)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.pdf"`, r.Folio))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// Stream mantiene la bandeja viva sobre server-sent events. Cada conexión
// abre su propio sincronizador y lo cierra al desconectar.
func (h *RequisicionHandler) Stream(c *gin.Context) {
	actor := actorDe(c)
	ctx := c.Request.Context()

	sinc, err := bandeja.NewSincronizador(ctx, h.repo, h.fuente, actor.UID, actor.Rol)
	if err != nil {
		respondError(c, err)
		return
	}
	defer sinc.Close()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	emitir := func() bool {
		docs := sinc.Snapshot()
		out := make([]dto.RequisicionResponse, 0, len(docs))
		for i := range docs {
			out = append(out, h.respuesta(&docs[i]))
		}
		c.SSEvent("bandeja", out)
		return c.Writer.Status() < http.StatusBadRequest
	}

	// Snapshot inicial seguido de un reenvío por cada cambio.
	emitir()
	c.Writer.Flush()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case <-sinc.Cambios:
			return emitir()
		}
	})
	log.Debug().Str("uid", actor.UID).Msg("stream de bandeja cerrado")
}
