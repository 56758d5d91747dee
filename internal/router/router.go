package router

import (
	"time"

	"oficialia/internal/config"
	"oficialia/internal/handler"
	"oficialia/internal/infra"
	"oficialia/internal/middleware"
	"oficialia/internal/model"
	"oficialia/internal/repository"
	"oficialia/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// Deps agrupa la infraestructura ya inicializada por cmd/server.
type Deps struct {
	Config  *config.Config
	DB      *gorm.DB
	Redis   *redis.Client
	Storage *infra.Storage
	Bus     *infra.EventBus
	// Despacho encola el trabajo asíncrono de notificaciones y limpieza.
	Despacho service.Despachador
}

// New arma el árbol completo de repositorios, servicios y rutas.
func New(d Deps) *gin.Engine {
	if d.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	reqRepo := repository.NewRequisicionRepository(d.DB)
	usuarioRepo := repository.NewUsuarioRepository(d.DB)
	notifRepo := repository.NewNotificacionRepository(d.DB)
	configRepo := repository.NewConfiguracionRepository(d.DB)

	reqSvc := service.NewRequisicionService(reqRepo, configRepo, d.Despacho, d.Bus)
	authSvc := service.NewAuthService(usuarioRepo, d.Config.JWTSecret,
		time.Duration(d.Config.JWTExpirationHours)*time.Hour)
	notifSvc := service.NewNotificacionService(notifRepo)
	configSvc := service.NewConfiguracionService(configRepo)
	reporteSvc := service.NewReporteService(reqRepo, reqSvc.EntregaFisica)

	reqHandler := handler.NewRequisicionHandler(reqSvc, reqRepo, d.Bus)
	authHandler := handler.NewAuthHandler(authSvc)
	usuarioHandler := handler.NewUsuarioHandler(authSvc)
	notifHandler := handler.NewNotificacionHandler(notifSvc)
	configHandler := handler.NewConfiguracionHandler(configSvc)
	adjuntoHandler := handler.NewAdjuntoHandler(reqSvc, d.Storage)
	reporteHandler := handler.NewReporteHandler(reporteSvc)
	catalogoHandler := handler.NewCatalogoHandler()
	healthHandler := handler.NewHealthHandler(d.DB, d.Redis)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), middleware.Recovery())
	r.Use(middleware.CORS(d.Config.CORSOrigins))

	r.GET("/health", healthHandler.Health)
	if d.Config.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/v1")

	auth := v1.Group("/auth")
	auth.POST("/login", middleware.RateLimiter(10, time.Minute), authHandler.Login)

	jwt := middleware.JWTAuth(d.Config.JWTSecret)
	auth.POST("/refresh", jwt, authHandler.Refresh)
	auth.GET("/me", jwt, authHandler.Me)

	// Catálogos estáticos del formulario, con sesión para no exponerlos.
	catalogos := v1.Group("/catalogos", jwt)
	catalogos.GET("/unidades", catalogoHandler.Unidades)
	catalogos.GET("/categorias", catalogoHandler.Categorias)
	catalogos.GET("/organos", catalogoHandler.Organos)
	catalogos.GET("/entrega-fisica", catalogoHandler.EntregaFisica)

	reqs := v1.Group("/requisiciones", jwt)
	reqs.POST("", reqHandler.Crear)
	reqs.GET("", reqHandler.Listar)
	reqs.GET("/stream", reqHandler.Stream)
	reqs.GET("/:id", reqHandler.Obtener)
	reqs.PUT("/:id", reqHandler.Actualizar)
	reqs.DELETE("/:id", reqHandler.Eliminar)
	reqs.POST("/:id/enviar", reqHandler.Enviar)
	reqs.POST("/:id/reclamar", reqHandler.Reclamar)
	reqs.POST("/:id/transicion", reqHandler.Transicion)
	reqs.PUT("/:id/lineas", reqHandler.ActualizarLineas)
	reqs.GET("/:id/pdf", reqHandler.PDF)
	reqs.POST("/:id/adjuntos", adjuntoHandler.Subir)
	reqs.DELETE("/:id/adjuntos", adjuntoHandler.Eliminar)

	notifs := v1.Group("/notificaciones", jwt)
	notifs.GET("", notifHandler.Inbox)
	notifs.POST("/:id/leida", notifHandler.MarcarLeida)
	notifs.POST("/leidas", notifHandler.MarcarTodasLeidas)

	// Configuración de la ventana de envío: lectura para cualquier sesión,
	// escritura solo para dirección y admin.
	cfg := v1.Group("/configuracion", jwt)
	cfg.GET("/envios", configHandler.Obtener)
	cfg.PUT("/envios",
		middleware.RequireRole(model.RolDireccion, model.RolAdmin),
		configHandler.Guardar)

	reportes := v1.Group("/reportes", jwt,
		middleware.RequireRole(model.RolRevision, model.RolAutorizacion, model.RolDireccion, model.RolAdmin))
	reportes.GET("/requisiciones.xlsx", reporteHandler.Excel)

	usuarios := v1.Group("/usuarios", jwt, middleware.RequireRole(model.RolAdmin))
	usuarios.POST("", usuarioHandler.Crear)
	usuarios.GET("", usuarioHandler.Listar)
	usuarios.GET("/:id", usuarioHandler.Obtener)
	usuarios.PUT("/:id", usuarioHandler.Actualizar)

	return r
}
