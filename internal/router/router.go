package router

import (
	"time"

	"restopos/internal/config"
	"restopos/internal/handler"
	"restopos/internal/infra"
	"restopos/internal/middleware"
	"restopos/internal/model"
	"restopos/internal/realtime"
	"restopos/internal/repository"
	"restopos/internal/service"
	"restopos/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, push *infra.WebPushSender, hub *realtime.Hub, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	cajaRepo := repository.NewCajaRepository(db)
	arqueoRepo := repository.NewArqueoRepository(db)
	cashFlowRepo := repository.NewCashFlowRepository(db)
	transaccionRepo := repository.NewTransaccionRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	menuRepo := repository.NewMenuRepository(db)
	categoriaRepo := repository.NewCategoriaRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	mesaRepo := repository.NewMesaRepository(db)
	pedidoRepo := repository.NewPedidoRepository(db)
	proveedorRepo := repository.NewProveedorRepository(db)
	suscripcionRepo := repository.NewSuscripcionRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	cajaSvc := service.NewCajaService(cajaRepo)
	arqueoSvc := service.NewArqueoService(arqueoRepo, dispatcher, cfg.AdminEmail)
	cashFlowSvc := service.NewCashFlowService(cashFlowRepo, arqueoSvc)
	transaccionSvc := service.NewTransaccionService(transaccionRepo, arqueoRepo, clienteRepo)
	clienteSvc := service.NewClienteService(clienteRepo)
	menuSvc := service.NewMenuService(menuRepo)
	categoriaSvc := service.NewCategoriaService(categoriaRepo, productoRepo, rdb)
	productoSvc := service.NewProductoService(productoRepo, rdb)
	mesaSvc := service.NewMesaService(mesaRepo, hub)
	pedidoSvc := service.NewPedidoService(pedidoRepo, mesaRepo, productoRepo, arqueoRepo, hub, dispatcher)
	proveedorSvc := service.NewProveedorService(proveedorRepo, arqueoRepo)
	notificacionSvc := service.NewNotificacionService(suscripcionRepo, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	cajaH := handler.NewCajaHandler(cajaSvc)
	arqueoH := handler.NewArqueoHandler(arqueoSvc)
	cashFlowH := handler.NewCashFlowHandler(cashFlowSvc)
	transaccionH := handler.NewTransaccionHandler(transaccionSvc)
	clienteH := handler.NewClienteHandler(clienteSvc)
	catalogoH := handler.NewCatalogoHandler(menuSvc, categoriaSvc, productoSvc)
	mesaH := handler.NewMesaHandler(mesaSvc)
	pedidoH := handler.NewPedidoHandler(pedidoSvc)
	proveedorH := handler.NewProveedorHandler(proveedorSvc)
	notificacionH := handler.NewNotificacionHandler(notificacionSvc, cfg.VAPIDPublicKey)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, push))
	r.GET("/v1/notificaciones/clave-publica", notificacionH.VAPIDPublicKey)

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)

	// Realtime relay — staff browsers subscribe after logging in.
	r.GET("/v1/ws", jwtMW, func(c *gin.Context) {
		hub.ServeWS(c.Writer, c.Request)
	})

	cajeros := middleware.RequireRole(model.RolCajero, model.RolSupervisor, model.RolAdministrador)
	supervisores := middleware.RequireRole(model.RolSupervisor, model.RolAdministrador)
	admins := middleware.RequireRole(model.RolAdministrador)
	personal := middleware.RequireRole(model.RolMozo, model.RolCajero, model.RolSupervisor, model.RolAdministrador)

	v1 := r.Group("/v1", jwtMW)
	{
		arqueos := v1.Group("/arqueos")
		{
			arqueos.POST("", cajeros, arqueoH.Abrir)
			arqueos.POST("/cerrar", cajeros, arqueoH.Cerrar)
			arqueos.GET("", supervisores, arqueoH.Listar)
			arqueos.GET("/:id", cajeros, arqueoH.ObtenerReporte)
			arqueos.GET("/caja/:cajaId/abierto", cajeros, arqueoH.GetAbiertoPorCaja)
			arqueos.DELETE("/:id", supervisores, arqueoH.Eliminar)
		}

		cashflows := v1.Group("/cashflows", cajeros)
		{
			cashflows.POST("", cashFlowH.Guardar)
			cashflows.GET("", cashFlowH.Listar)
			cashflows.GET("/:id", cashFlowH.ObtenerPorID)
			cashflows.GET("/caja/:cajaId", cashFlowH.ListarPorCaja)
			cashflows.GET("/caja/:cajaId/primero", cashFlowH.PrimeroPorCaja)
			cashflows.PATCH("/:id", cashFlowH.Actualizar)
			cashflows.DELETE("/:id", cashFlowH.Eliminar)
		}

		transacciones := v1.Group("/transacciones", cajeros)
		{
			transacciones.POST("", transaccionH.Guardar)
			transacciones.GET("", transaccionH.Listar)
			transacciones.GET("/clientes", transaccionH.ClientesConTransacciones)
			transacciones.GET("/:id", transaccionH.ObtenerPorID)
			transacciones.GET("/caja/:cajaId/primera", transaccionH.PrimeraPorCaja)
			transacciones.DELETE("/:id", transaccionH.Eliminar)
		}

		clientes := v1.Group("/clientes", cajeros)
		{
			clientes.POST("", clienteH.Crear)
			clientes.GET("", clienteH.Listar)
			clientes.GET("/:id", clienteH.ObtenerPorID)
			clientes.PUT("/:id", clienteH.Actualizar)
			clientes.DELETE("/:id", supervisores, clienteH.Desactivar)
		}

		cajas := v1.Group("/cajas", supervisores)
		{
			cajas.POST("", cajaH.CrearCaja)
			cajas.GET("", cajaH.ListarCajas)
			cajas.PATCH("/:id/disponibilidad", cajaH.CambiarDisponibilidad)
		}
		v1.POST("/usuarios", admins, authH.CrearUsuario)

		v1.POST("/metodos-pago", admins, cajaH.CrearMetodoPago)
		v1.GET("/metodos-pago", personal, cajaH.ListarMetodosPago)

		// Catalogo — reads for all staff, writes for administrators
		v1.GET("/menus", personal, catalogoH.ListarMenus)
		v1.GET("/menus/:menuId/categorias", personal, catalogoH.ListarCategorias)
		v1.GET("/categorias/:categoriaId/productos", personal, catalogoH.ListarProductosPorCategoria)
		v1.GET("/productos/:id", personal, catalogoH.ObtenerProducto)
		catalogo := v1.Group("", admins)
		{
			catalogo.POST("/menus", catalogoH.CrearMenu)
			catalogo.PATCH("/menus/:menuId/disponibilidad", catalogoH.CambiarDisponibilidadMenu)
			catalogo.POST("/categorias", catalogoH.CrearCategoria)
			catalogo.DELETE("/categorias/:categoriaId", catalogoH.DeshabilitarCategoria)
			catalogo.PATCH("/categorias/:categoriaId/habilitar", catalogoH.HabilitarCategoria)
			catalogo.POST("/productos", catalogoH.CrearProducto)
			catalogo.PUT("/productos/:id", catalogoH.ActualizarProducto)
		}

		mesas := v1.Group("")
		{
			mesas.GET("/sectores", personal, mesaH.ListarSectores)
			mesas.GET("/sectores/:sectorId/mesas", personal, mesaH.ListarMesasPorSector)
			mesas.POST("/sectores", admins, mesaH.CrearSector)
			mesas.POST("/mesas", admins, mesaH.CrearMesa)
			mesas.PATCH("/mesas/:id/estado", supervisores, mesaH.CambiarEstado)
		}

		pedidos := v1.Group("/pedidos", personal)
		{
			pedidos.POST("", pedidoH.Abrir)
			pedidos.GET("", pedidoH.ListarAbiertos)
			pedidos.GET("/:id", pedidoH.ObtenerPorID)
			pedidos.GET("/mesa/:mesaId", pedidoH.AbiertoPorMesa)
			pedidos.POST("/:id/items", pedidoH.AgregarItems)
			pedidos.POST("/:id/cobrar", cajeros, pedidoH.Cobrar)
			pedidos.DELETE("/:id", supervisores, pedidoH.Anular)
		}

		proveedores := v1.Group("/proveedores", supervisores)
		{
			proveedores.POST("", proveedorH.Crear)
			proveedores.GET("", proveedorH.Listar)
			proveedores.GET("/:id", proveedorH.ObtenerPorID)
			proveedores.GET("/:id/pagos", proveedorH.ListarPagos)
			proveedores.POST("/pagos", proveedorH.RegistrarPago)
			proveedores.DELETE("/:id", admins, proveedorH.Desactivar)
		}

		notificaciones := v1.Group("/notificaciones", personal)
		{
			notificaciones.POST("/suscripciones", notificacionH.Suscribir)
			notificaciones.DELETE("/suscripciones", notificacionH.Desuscribir)
			notificaciones.POST("/enviar", supervisores, notificacionH.Enviar)
		}
	}

	return r
}
