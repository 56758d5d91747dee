package handler

import (
	"net/http"

	"oficialia/internal/dto"
	"oficialia/internal/service"

	"github.com/gin-gonic/gin"
)

type NotificacionHandler struct {
	svc service.NotificacionService
}

func NewNotificacionHandler(svc service.NotificacionService) *NotificacionHandler {
	return &NotificacionHandler{svc: svc}
}

func (h *NotificacionHandler) Inbox(c *gin.Context) {
	ns, err := h.svc.Inbox(c.Request.Context(), actorDe(c))
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]dto.NotificacionResponse, 0, len(ns))
	for i := range ns {
		out = append(out, dto.NewNotificacionResponse(&ns[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *NotificacionHandler) MarcarLeida(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.MarcarLeida(c.Request.Context(), actorDe(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *NotificacionHandler) MarcarTodasLeidas(c *gin.Context) {
	if err := h.svc.MarcarTodasLeidas(c.Request.Context(), actorDe(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
