package handler

import (
	"net/http"

	"oficialia/internal/apierror"
	"oficialia/internal/dto"
	"oficialia/internal/infra"
	"oficialia/internal/model"
	"oficialia/internal/service"

	"github.com/gin-gonic/gin"
)

// maxAdjuntoBytes acota el tamaño de cada archivo adjunto.
const maxAdjuntoBytes = 10 << 20

type AdjuntoHandler struct {
	svc     service.RequisicionService
	storage *infra.Storage
}

func NewAdjuntoHandler(svc service.RequisicionService, storage *infra.Storage) *AdjuntoHandler {
	return &AdjuntoHandler{svc: svc, storage: storage}
}

// Subir recibe un multipart con el campo "archivo", lo guarda en el storage y
// lo anexa al documento.
func (h *AdjuntoHandler) Subir(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	fh, err := c.FormFile("archivo")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.Envelope("falta el campo archivo"))
		return
	}
	if fh.Size > maxAdjuntoBytes {
		c.JSON(http.StatusRequestEntityTooLarge, apierror.Envelope("el archivo excede 10 MB"))
		return
	}

	f, err := fh.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	ctx := c.Request.Context()
	contentType := fh.Header.Get("Content-Type")
	path, url, err := h.storage.Subir(ctx, id.String(), fh.Filename, contentType, f, fh.Size)
	if err != nil {
		respondError(c, err)
		return
	}

	r, err := h.svc.AgregarAdjunto(ctx, actorDe(c), id, model.ArchivoAdjunto{
		Nombre:      fh.Filename,
		URL:         url,
		StoragePath: path,
		Tipo:        contentType,
	})
	if err != nil {
		// El documento rechazó el adjunto; el objeto queda huérfano y se
		// limpia de inmediato.
		_ = h.storage.Eliminar(ctx, path)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewRequisicionResponse(r, h.svc.EntregaFisica(r)))
}

func (h *AdjuntoHandler) Eliminar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	path := c.Query("path")
	if path == "" {
		c.JSON(http.StatusBadRequest, apierror.Envelope("falta el parámetro path"))
		return
	}
	r, err := h.svc.EliminarAdjunto(c.Request.Context(), actorDe(c), id, path)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewRequisicionResponse(r, h.svc.EntregaFisica(r)))
}
