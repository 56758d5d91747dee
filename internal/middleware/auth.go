package middleware

import (
	"net/http"
	"strings"
	"time"

	"oficialia/internal/apierror"
	"oficialia/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const claimsKey = "claims"

// JWTClaims viaja en el token de acceso y alimenta el Actor de los servicios.
type JWTClaims struct {
	UserID string    `json:"uid"`
	Email  string    `json:"email"`
	Nombre string    `json:"nombre"`
	Rol    model.Rol `json:"rol"`
	jwt.RegisteredClaims
}

// GenerateToken firma un token de acceso para el usuario.
func GenerateToken(u *model.Usuario, secret string, expiry time.Duration) (string, time.Time, error) {
	expira := time.Now().Add(expiry)
	claims := JWTClaims{
		UserID: u.ID.String(),
		Email:  u.Email,
		Nombre: u.Nombre,
		Rol:    u.Rol,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			ExpiresAt: jwt.NewNumericDate(expira),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "oficialia",
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	return token, expira, err
}

// JWTAuth valida el encabezado Authorization y deja los claims en el contexto.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.Envelope("token requerido"))
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")

		claims := &JWTClaims{}
		token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.Envelope("token inválido o expirado"))
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireRole corta con 403 cuando el rol autenticado no está en la lista.
func RequireRole(roles ...model.Rol) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.Envelope("token requerido"))
			return
		}
		for _, r := range roles {
			if claims.Rol == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, apierror.Envelope("rol sin acceso a este recurso"))
	}
}

// GetClaims recupera los claims dejados por JWTAuth, o nil fuera de rutas
// autenticadas.
func GetClaims(c *gin.Context) *JWTClaims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*JWTClaims)
	return claims
}
