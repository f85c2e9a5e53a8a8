package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/oficiosya/hires-api/internal/api/handler"
	"github.com/oficiosya/hires-api/internal/api/middleware"
	"github.com/oficiosya/hires-api/internal/core/domain"
	"github.com/oficiosya/hires-api/internal/core/ports"
)

// RouterDeps carries everything the HTTP layer needs. Services are built by
// the caller so the router stays free of storage concerns.
type RouterDeps struct {
	Logger    zerolog.Logger
	JWTSecret string

	Auth      ports.AuthService
	Hires     ports.HireService
	Guests    ports.GuestService
	Reviews   ports.ReviewService
	Directory ports.DirectoryService
	Inbox     ports.InboxService
	Events    ports.EventPublisher
	Clock     ports.Clock

	Probes map[string]handler.Probe

	// Registry receives the HTTP metrics. Nil means the default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps RouterDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "hires_http",
		Registerer: registerer,
	}))

	authHandler := handler.NewAuthHandler(deps.Auth)
	hireHandler := handler.NewHireHandler(deps.Hires)
	guestHandler := handler.NewGuestHandler(deps.Guests)
	reviewHandler := handler.NewReviewHandler(deps.Reviews)
	proHandler := handler.NewProfessionalHandler(deps.Directory)
	convHandler := handler.NewConversationHandler(deps.Events, deps.Clock)
	notifHandler := handler.NewNotificationHandler(deps.Inbox)
	healthHandler := handler.NewHealthHandler(deps.Probes)

	// --- Ops (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	v1 := e.Group("/v1")

	// --- Public directory and guest flow ---
	v1.GET("/professionals", proHandler.Search)
	v1.GET("/professionals/:id/reviews", reviewHandler.ListByProfessional)

	guest := v1.Group("/guest")
	guest.GET("/professionals", guestHandler.Professionals)
	guest.POST("/contact", guestHandler.Contact)
	guest.POST("/hires/:id/confirm-completion", hireHandler.GuestConfirmCompletion)
	guest.POST("/hires/:id/review", reviewHandler.SubmitGuest)

	// --- Authenticated ---
	authed := v1.Group("", middleware.Auth(deps.JWTSecret))

	clientOnly := middleware.RBAC(domain.RoleClient)
	proOnly := middleware.RBAC(domain.RoleProfessional)

	authed.POST("/guest/drafts/publish", guestHandler.PublishDraft, clientOnly)

	authed.POST("/hires", hireHandler.Create, clientOnly)
	authed.GET("/hires", hireHandler.ListMine, clientOnly)
	authed.GET("/hires/open", hireHandler.ListOpen, proOnly)
	authed.GET("/hires/assigned", hireHandler.ListAssigned, proOnly)
	authed.GET("/hires/:id", hireHandler.Get)
	authed.POST("/hires/:id/review", reviewHandler.Submit, clientOnly)
	authed.POST("/hires/:id/:action", hireHandler.Action)

	authed.POST("/conversations/:id/message-events", convHandler.MessageCreated)
	authed.GET("/notifications", notifHandler.List)

	return e
}
