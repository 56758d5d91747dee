package handler

import (
	"fmt"
	"net/http"
	"time"

	"oficialia/internal/apierror"
	"oficialia/internal/service"

	"github.com/gin-gonic/gin"
)

type ReporteHandler struct {
	svc service.ReporteService
}

func NewReporteHandler(svc service.ReporteService) *ReporteHandler {
	return &ReporteHandler{svc: svc}
}

// Excel descarga el reporte de requisiciones del rango ?desde=YYYY-MM-DD&hasta=YYYY-MM-DD.
// El límite superior es inclusivo a nivel de día.
func (h *ReporteHandler) Excel(c *gin.Context) {
	desde, err := time.Parse("2006-01-02", c.Query("desde"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.Envelope("parámetro desde inválido"))
		return
	}
	hasta, err := time.Parse("2006-01-02", c.Query("hasta"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.Envelope("parámetro hasta inválido"))
		return
	}

	buf, err := h.svc.ExcelRequisiciones(c.Request.Context(), desde, hasta.AddDate(0, 0, 1))
	if err != nil {
		respondError(c, err)
		return
	}
	nombre := fmt.Sprintf("requisiciones_%s_%s.xlsx",
		desde.Format("20060102"), hasta.Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, nombre))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
