package handler

import (
	"errors"
	"net/http"

	"oficialia/internal/apierror"
	"oficialia/internal/middleware"
	"oficialia/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

// bindAndValidate decodifica el JSON y aplica las reglas `validate` del DTO.
// Responde 400/422 por su cuenta; el handler solo continúa cuando devuelve true.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.Envelope("cuerpo de la petición inválido"))
		return false
	}
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Tag()
			}
			c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
			return false
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.Envelope(err.Error()))
		return false
	}
	return true
}

// respondError traduce un error de dominio a su status y envoltura JSON.
func respondError(c *gin.Context, err error) {
	c.JSON(apierror.Status(err), apierror.Envelope(err.Error()))
}

// actorDe arma el Actor de servicio desde los claims del token.
func actorDe(c *gin.Context) service.Actor {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return service.Actor{}
	}
	return service.Actor{
		UID:    claims.UserID,
		Email:  claims.Email,
		Nombre: claims.Nombre,
		Rol:    claims.Rol,
	}
}

// parseID lee el parámetro :id como UUID o responde 400.
func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.Envelope("id inválido"))
		return uuid.Nil, false
	}
	return id, true
}
