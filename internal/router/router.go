package router

import (
	"time"

	"github.com/pozi78/Casino-Management-System-sub000/internal/config"
	"github.com/pozi78/Casino-Management-System-sub000/internal/handler"
	"github.com/pozi78/Casino-Management-System-sub000/internal/infra"
	"github.com/pozi78/Casino-Management-System-sub000/internal/middleware"
	"github.com/pozi78/Casino-Management-System-sub000/internal/repository"
	"github.com/pozi78/Casino-Management-System-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps is everything the engine is built from. DB and Redis are only used
// by the health check; a nil value means the in-memory fallback is active.
type Deps struct {
	Config *config.Config
	DB     *gorm.DB
	Redis  *redis.Client

	Recaudaciones repository.RecaudacionRepository
	Ficheros      repository.FicheroRepository
	Catalogo      repository.CatalogoRepository
	Usuarios      repository.UsuarioRepository
	Tickets       infra.TicketStore

	// LoginLimiter guards the token endpoint. Nil disables limiting.
	LoginLimiter *middleware.RateLimiter
}

// PostgresDeps backs the engine with GORM repositories. A nil rdb keeps
// download tickets in memory.
func PostgresDeps(cfg *config.Config, db *gorm.DB, rdb *redis.Client) Deps {
	return Deps{
		Config:        cfg,
		DB:            db,
		Redis:         rdb,
		Recaudaciones: repository.NewRecaudacionRepository(db),
		Ficheros:      repository.NewFicheroRepository(db),
		Catalogo:      repository.NewCatalogoRepository(db),
		Usuarios:      repository.NewUsuarioRepository(db),
		Tickets:       ticketStore(rdb),
	}
}

// MemoryDeps backs the engine with the in-memory store.
func MemoryDeps(cfg *config.Config, mem *repository.Memoria, rdb *redis.Client) Deps {
	return Deps{
		Config:        cfg,
		Redis:         rdb,
		Recaudaciones: mem.Recaudaciones(),
		Ficheros:      mem.Ficheros(),
		Catalogo:      mem.Catalogo(),
		Usuarios:      mem.Usuarios(),
		Tickets:       ticketStore(rdb),
	}
}

func ticketStore(rdb *redis.Client) infra.TicketStore {
	if rdb == nil {
		return infra.NewMemoryTicketStore()
	}
	return infra.NewRedisTicketStore(rdb)
}

// New wires services and handlers and returns the configured engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(d Deps) *gin.Engine {
	cfg := d.Config
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.MaxMultipartMemory = int64(cfg.MaxUploadMB+1) << 20

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.AllowedOrigins()...))
	r.Use(middleware.ErrorHandler())

	maxBytes := int64(cfg.MaxUploadMB) << 20

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(d.Usuarios, cfg)
	recaudacionSvc := service.NewRecaudacionService(d.Recaudaciones, d.Catalogo)
	ficheroSvc := service.NewFicheroService(d.Ficheros, d.Recaudaciones, d.Tickets, maxBytes, cfg.TicketTTL())
	importacionSvc := service.NewImportacionService(d.Recaudaciones, d.Ficheros, d.Catalogo)
	catalogoSvc := service.NewCatalogoService(d.Catalogo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	recaudacionesH := handler.NewRecaudacionesHandler(recaudacionSvc)
	ficherosH := handler.NewFicherosHandler(ficheroSvc, maxBytes)
	importacionH := handler.NewImportacionHandler(importacionSvc, maxBytes)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	salonesH := handler.NewSalonesHandler(catalogoSvc)
	maquinasH := handler.NewMaquinasHandler(catalogoSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(d.DB, d.Redis))

	v1 := r.Group("/api/v1")

	login := []gin.HandlerFunc{authH.Login}
	if d.LoginLimiter != nil {
		login = append([]gin.HandlerFunc{d.LoginLimiter.Handler("Demasiados intentos de login. Intente en 1 minuto.")}, login...)
	}
	v1.POST("/login/access-token", login...)

	// Attachment links opened outside the client carry a ticket instead of a
	// bearer token.
	v1.GET("/recaudaciones/:id/files/:file_id/content", middleware.AuthOTicket(authSvc), ficherosH.Contenido)

	auth := v1.Group("", middleware.Auth(authSvc))
	{
		auth.GET("/users/me", authH.Me)
		usuarios := auth.Group("/users", middleware.RequireAdmin())
		{
			usuarios.GET("/", usuariosH.Listar)
			usuarios.POST("/", usuariosH.Crear)
		}

		// Writes are checked against the admin role in the service.
		salones := auth.Group("/salones")
		{
			salones.GET("/", salonesH.Listar)
			salones.POST("/", salonesH.Crear)
			salones.GET("/:id", salonesH.Obtener)
			salones.PUT("/:id", salonesH.Actualizar)
			salones.DELETE("/:id", salonesH.Desactivar)
		}

		maquinas := auth.Group("/machines")
		{
			maquinas.GET("/types", maquinasH.ListarTipos)
			maquinas.POST("/types", maquinasH.CrearTipo)
			maquinas.GET("/", maquinasH.Listar)
			maquinas.POST("/", maquinasH.Crear)
			maquinas.GET("/:id", maquinasH.Obtener)
			maquinas.PUT("/:id", maquinasH.Actualizar)
			maquinas.DELETE("/:id", maquinasH.Desactivar)
		}

		rec := auth.Group("/recaudaciones")
		{
			rec.GET("/", recaudacionesH.Listar)
			rec.GET("/last", recaudacionesH.Ultima)
			rec.POST("/", recaudacionesH.Crear)
			rec.PUT("/details/:detail_id", recaudacionesH.ActualizarDetalle)
			rec.GET("/:id", recaudacionesH.Obtener)
			rec.PUT("/:id", recaudacionesH.Actualizar)
			rec.DELETE("/:id", recaudacionesH.Eliminar)

			rec.POST("/:id/files", ficherosH.Subir)
			rec.DELETE("/:id/files/:file_id", ficherosH.Eliminar)
			rec.POST("/:id/files/:file_id/ticket", ficherosH.Ticket)

			rec.POST("/:id/analyze-excel", importacionH.AnalizarExcel)
			rec.POST("/:id/import-excel", importacionH.ImportarExcel)
			rec.POST("/:id/files/:file_id/analyze", importacionH.AnalizarAdjunto)
			rec.POST("/:id/files/:file_id/import", importacionH.ImportarAdjunto)
			rec.GET("/:id/export", importacionH.Exportar)
		}
	}

	return r
}

// DefaultLoginLimiter allows 20 login attempts per minute per IP.
func DefaultLoginLimiter() *middleware.RateLimiter {
	return middleware.NewRateLimiter(20, time.Minute)
}
