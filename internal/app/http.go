package app

import (
	httpserver "github.com/claireundgeorge/accessible-site/internal/http"
	httpH "github.com/claireundgeorge/accessible-site/internal/http/handlers"
	httpMW "github.com/claireundgeorge/accessible-site/internal/http/middleware"
	"github.com/claireundgeorge/accessible-site/internal/platform/logger"
)

const serviceName = "accessible-site"

func wireServer(log *logger.Logger, cfg Config, svc Services, rt Realtime) *httpserver.Server {
	log.Info("Wiring handlers...")
	return httpserver.NewServer(httpserver.RouterConfig{
		Log:            log,
		ServiceName:    serviceName,
		AllowOrigins:   cfg.AllowOrigins,
		SecureCookies:  cfg.SecureCookies,
		AuthMiddleware: httpMW.NewAuthMiddleware(log, svc.Auth),

		AuthHandler:    httpH.NewAuthHandler(svc.Auth),
		PersonaHandler: httpH.NewPersonaHandler(log, svc.Persona, rt.Hub),
		SiteHandler:    httpH.NewSiteHandler(svc.Site),
		CMSHandler:     httpH.NewCMSHandler(svc.CMS),
		HealthHandler:  httpH.NewHealthHandler(),
	})
}
