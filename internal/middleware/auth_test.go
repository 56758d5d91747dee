package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"oficialia/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secretoPrueba = "secreto-de-prueba"

func usuarioPrueba(rol model.Rol) *model.Usuario {
	return &model.Usuario{
		ID:     uuid.New(),
		Email:  "prueba@mun.gob.mx",
		Nombre: "Usuario Prueba",
		Rol:    rol,
		Activo: true,
	}
}

func servidorProtegido(roles ...model.Rol) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	grupo := r.Group("/", JWTAuth(secretoPrueba))
	if len(roles) > 0 {
		grupo.Use(RequireRole(roles...))
	}
	grupo.GET("/recurso", func(c *gin.Context) {
		claims := GetClaims(c)
		c.JSON(http.StatusOK, gin.H{"uid": claims.UserID, "rol": claims.Rol})
	})
	return r
}

func TestJWTAuthAceptaTokenValido(t *testing.T) {
	u := usuarioPrueba(model.RolRevision)
	token, expira, err := GenerateToken(u, secretoPrueba, time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expira, time.Minute)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/recurso", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	servidorProtegido().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), u.ID.String())
}

func TestJWTAuthRechazaTokenAusenteOInvalido(t *testing.T) {
	srv := servidorProtegido()

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/recurso", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/recurso", nil)
	req.Header.Set("Authorization", "Bearer basura")
	srv.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Token firmado con otro secreto.
	token, _, err := GenerateToken(usuarioPrueba(model.RolAdmin), "otro-secreto", time.Hour)
	require.NoError(t, err)
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/recurso", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	srv.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthRechazaTokenExpirado(t *testing.T) {
	token, _, err := GenerateToken(usuarioPrueba(model.RolRevision), secretoPrueba, -time.Minute)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/recurso", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	servidorProtegido().ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	srv := servidorProtegido(model.RolAdmin, model.RolDireccion)

	almacen, _, err := GenerateToken(usuarioPrueba(model.RolAlmacen), secretoPrueba, time.Hour)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/recurso", nil)
	req.Header.Set("Authorization", "Bearer "+almacen)
	srv.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	admin, _, err := GenerateToken(usuarioPrueba(model.RolAdmin), secretoPrueba, time.Hour)
	require.NoError(t, err)
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/recurso", nil)
	req.Header.Set("Authorization", "Bearer "+admin)
	srv.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
