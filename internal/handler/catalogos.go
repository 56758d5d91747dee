package handler

import (
	"net/http"

	"oficialia/internal/catalogo"

	"github.com/gin-gonic/gin"
)

// CatalogoHandler sirve los catálogos estáticos que consume el formulario.
type CatalogoHandler struct{}

func NewCatalogoHandler() *CatalogoHandler { return &CatalogoHandler{} }

func (h *CatalogoHandler) Unidades(c *gin.Context) {
	c.JSON(http.StatusOK, catalogo.UnidadesMedida)
}

func (h *CatalogoHandler) Categorias(c *gin.Context) {
	c.JSON(http.StatusOK, catalogo.Categorias)
}

func (h *CatalogoHandler) Organos(c *gin.Context) {
	c.JSON(http.StatusOK, catalogo.OrganosRequirentes)
}

// EntregaFisica evalúa la regla de ruteo a almacén para una combinación de
// categoría y subcategoría, útil para previsualizar en el formulario.
func (h *CatalogoHandler) EntregaFisica(c *gin.Context) {
	categoria := c.Query("categoria")
	sub := c.Query("subCategoria")
	c.JSON(http.StatusOK, gin.H{
		"categoria":     categoria,
		"subCategoria":  sub,
		"entregaFisica": catalogo.RequiereEntregaFisica(categoria, sub),
	})
}
