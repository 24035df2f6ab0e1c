package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/WeroML/back-bd-tattoo2/internal/handler/appointment"
	"github.com/WeroML/back-bd-tattoo2/internal/handler/client"
	"github.com/WeroML/back-bd-tattoo2/internal/handler/design"
	"github.com/WeroML/back-bd-tattoo2/internal/handler/health"
	"github.com/WeroML/back-bd-tattoo2/internal/handler/material"
	"github.com/WeroML/back-bd-tattoo2/internal/handler/purchase"
	"github.com/WeroML/back-bd-tattoo2/internal/handler/report"
	"github.com/WeroML/back-bd-tattoo2/internal/handler/session"
	"github.com/WeroML/back-bd-tattoo2/internal/handler/supplier"
	"github.com/WeroML/back-bd-tattoo2/internal/handler/user"
	"github.com/WeroML/back-bd-tattoo2/internal/middleware"
	"github.com/WeroML/back-bd-tattoo2/internal/model"
)

type Handlers struct {
	Appointment *appointment.Handler
	Session     *session.Handler
	Material    *material.Handler
	Client      *client.Handler
	User        *user.Handler
	Design      *design.Handler
	Supplier    *supplier.Handler
	Purchase    *purchase.Handler
	Report      *report.Handler
	Health      *health.Handler
}

type Config struct {
	RateLimitRPS   float64
	RateLimitBurst int
	RequestTimeout time.Duration
	CORS           middleware.CORSConfig
	AuthEnabled    bool
}

type Router struct {
	engine   *gin.Engine
	auth     *middleware.AuthMiddleware
	handlers Handlers
	config   Config
	metrics  *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
}

func newRouterMetrics() *routerMetrics {
	return &routerMetrics{
		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		requestTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
	}
}

func New(auth *middleware.AuthMiddleware, handlers Handlers, config Config) *Router {
	gin.SetMode(gin.ReleaseMode)

	r := &Router{
		engine:   gin.New(),
		auth:     auth,
		handlers: handlers,
		config:   config,
		metrics:  newRouterMetrics(),
	}
	r.setup()
	return r
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) instrument() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		r.metrics.requestDuration.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, route, status).Inc()
	}
}

func (r *Router) setup() {
	limiter := middleware.NewRateLimiter(r.config.RateLimitRPS, r.config.RateLimitBurst)

	r.engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(r.config.CORS),
		middleware.Timeout(r.config.RequestTimeout),
		limiter.RateLimit(),
		r.instrument(),
	)

	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	root := r.engine.Group("")
	r.handlers.Health.RegisterRoutes(root)

	v1 := r.engine.Group("/api/v1")

	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/register", r.handlers.User.Register)
		authGroup.POST("/login", r.handlers.User.Login)
	}

	api := v1.Group("")
	if r.config.AuthEnabled {
		api.Use(r.auth.Authenticate())
	}

	clients := api.Group("/clients")
	{
		clients.POST("", r.handlers.Client.Create)
		clients.GET("", r.handlers.Client.List)
		clients.GET("/:id", r.handlers.Client.Get)
		clients.PATCH("/:id", r.handlers.Client.Update)
		clients.DELETE("/:id", r.handlers.Client.Delete)
	}

	artists := api.Group("/artists")
	{
		artists.GET("", r.handlers.User.ListArtists)
		artists.GET("/:id", r.handlers.User.GetArtist)
	}

	designs := api.Group("/designs")
	{
		designs.GET("", r.handlers.Design.List)
		designs.GET("/:id", r.handlers.Design.Get)
		designs.GET("/assignments", r.handlers.Design.ListAssignments)
	}

	appointments := api.Group("/appointments")
	{
		appointments.POST("", r.handlers.Appointment.Create)
		appointments.GET("", r.handlers.Appointment.List)
		appointments.GET("/:id", r.handlers.Appointment.Get)
		appointments.PUT("/:id", r.handlers.Appointment.Update)
		appointments.PATCH("/:id", r.handlers.Appointment.Update)
		appointments.GET("/:id/history", r.handlers.Appointment.History)
		appointments.GET("/:id/materials", r.handlers.Appointment.Materials)
		appointments.POST("/:id/design", r.handlers.Appointment.AssignDesign)
		appointments.POST("/:id/start", r.handlers.Appointment.Start)
		appointments.POST("/:id/complete", r.handlers.Appointment.Complete)
		appointments.POST("/:id/cancel", r.handlers.Appointment.Cancel)
	}

	sessions := api.Group("/sessions")
	{
		sessions.POST("", r.handlers.Session.Append)
		sessions.GET("", r.handlers.Session.List)
		sessions.GET("/:id", r.handlers.Session.Get)
		sessions.POST("/:id/materials", r.handlers.Session.RecordMaterial)
		sessions.GET("/:id/materials", r.handlers.Session.ListMaterials)
	}

	materials := api.Group("/materials")
	{
		materials.POST("", r.handlers.Material.Create)
		materials.GET("", r.handlers.Material.List)
		materials.GET("/low-stock", r.handlers.Material.LowStock)
		materials.GET("/code/:code", r.handlers.Material.GetByCode)
		materials.GET("/:id", r.handlers.Material.Get)
		materials.PATCH("/:id", r.handlers.Material.Update)
		materials.DELETE("/:id", r.handlers.Material.Deactivate)
		materials.POST("/:id/adjustments", r.handlers.Material.Adjust)
		materials.GET("/:id/ledger", r.handlers.Material.VerifyLedger)
	}
	api.GET("/movements", r.handlers.Material.Movements)

	suppliers := api.Group("/suppliers")
	{
		suppliers.POST("", r.handlers.Supplier.Create)
		suppliers.GET("", r.handlers.Supplier.List)
		suppliers.GET("/:id", r.handlers.Supplier.Get)
		suppliers.PATCH("/:id", r.handlers.Supplier.Update)
		suppliers.DELETE("/:id", r.handlers.Supplier.Deactivate)
	}

	purchases := api.Group("/purchases")
	{
		purchases.POST("", r.handlers.Purchase.Create)
		purchases.GET("", r.handlers.Purchase.List)
		purchases.GET("/:id", r.handlers.Purchase.Get)
		purchases.POST("/:id/receive", r.handlers.Purchase.Receive)
	}

	api.POST("/payments", r.handlers.Appointment.CreatePayment)
	api.GET("/payments", r.handlers.Appointment.ListPayments)

	reports := api.Group("/reports")
	{
		reports.GET("/appointments/:id", r.handlers.Report.AppointmentSummary)
		reports.GET("/suppliers", r.handlers.Report.Suppliers)
	}

	users := api.Group("/users")
	if r.config.AuthEnabled {
		users.Use(r.auth.RequireRole(model.RoleAdmin))
	}
	{
		users.GET("", r.handlers.User.List)
	}
}
