package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/claireundgeorge/accessible-site/internal/clients/cms"
	httpH "github.com/claireundgeorge/accessible-site/internal/http/handlers"
	httpMW "github.com/claireundgeorge/accessible-site/internal/http/middleware"
	"github.com/claireundgeorge/accessible-site/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowOrigins   []string
	SecureCookies  bool
	AuthMiddleware *httpMW.AuthMiddleware

	AuthHandler    *httpH.AuthHandler
	PersonaHandler *httpH.PersonaHandler
	SiteHandler    *httpH.SiteHandler
	CMSHandler     *httpH.CMSHandler
	HealthHandler  *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.AllowOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")

	// Public site, keyed by the visitor cookie
	public := api.Group("/")
	public.Use(httpMW.AttachVisitor(cfg.SecureCookies))
	{
		if cfg.PersonaHandler != nil {
			public.GET("/persona", cfg.PersonaHandler.GetState)
			public.GET("/persona/categories", cfg.PersonaHandler.ListCategories)
			public.POST("/persona/assessment", cfg.PersonaHandler.Answer)
			public.POST("/persona/back", cfg.PersonaHandler.Back)
			public.POST("/persona/category", cfg.PersonaHandler.SelectCategory)
			public.POST("/persona/reset", cfg.PersonaHandler.Reset)
			public.GET("/persona/stream", cfg.PersonaHandler.Stream)
		}
		if cfg.SiteHandler != nil {
			public.GET("/site/home", cfg.SiteHandler.Home)
			public.GET("/site/hotels", cfg.SiteHandler.Hotels)
			public.GET("/site/tours", cfg.SiteHandler.Tours)
			public.GET("/site/care-services", cfg.SiteHandler.CareServices)
		}
	}

	// CMS auth (public)
	if cfg.AuthHandler != nil {
		api.POST("/cms/login", cfg.AuthHandler.Login)
	}

	protected := api.Group("/cms")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}
		if cfg.CMSHandler != nil {
			h := cfg.CMSHandler
			protected.GET("/dashboard", h.Dashboard)
			protected.GET("/categories", h.Categories)
			protected.GET("/content-models", h.ContentModels)

			protected.GET("/hotels", h.List(cms.ContentHotel))
			protected.POST("/hotels", h.CreateHotel)
			protected.GET("/hotels/:id", h.Get(cms.ContentHotel))

			protected.GET("/tours", h.List(cms.ContentTour))
			protected.POST("/tours", h.CreateTour)
			protected.GET("/tours/:id", h.Get(cms.ContentTour))

			protected.GET("/care-services", h.List(cms.ContentCareService))
			protected.POST("/care-services", h.CreateCareService)
			protected.GET("/care-services/:id", h.Get(cms.ContentCareService))

			protected.POST("/validate/:type", h.Validate)
			protected.POST("/regenerate/:type/:id", h.Regenerate)
		}
	}

	return r
}
