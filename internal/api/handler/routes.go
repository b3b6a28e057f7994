package handler

import (
	"net/http"

	"github.com/vfg2006/ad-gateway-api/internal/api/handler/router"
	"github.com/vfg2006/ad-gateway-api/internal/usecases/advertising"
	"github.com/vfg2006/ad-gateway-api/internal/usecases/authenticating"
	"github.com/vfg2006/ad-gateway-api/pkg/middleware"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

// Ads monta as rotas de operação de anúncios por plataforma e as rotas
// multi-plataforma
func Ads(service advertising.Advertiser) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/platforms",
			Method:      http.MethodGet,
			Handler:     ListPlatforms(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/platforms/:platform/ads",
			Method:      http.MethodPost,
			Handler:     CreateAd(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrSupervisor()},
		},
		{
			Path:        "/v1/platforms/:platform/ads/:id",
			Method:      http.MethodPut,
			Handler:     UpdateAd(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrSupervisor()},
		},
		{
			Path:        "/v1/platforms/:platform/ads/:id",
			Method:      http.MethodDelete,
			Handler:     DeleteAd(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrSupervisor()},
		},
		{
			Path:        "/v1/platforms/:platform/ads/:id/status",
			Method:      http.MethodGet,
			Handler:     GetAdStatus(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/platforms/:platform/ads/:id/performance",
			Method:      http.MethodGet,
			Handler:     GetAdPerformance(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/ads/multi-platform",
			Method:      http.MethodPost,
			Handler:     CreateMultiPlatformAd(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrSupervisor()},
		},
		{
			Path:        "/v1/ads/multi-platform/performance",
			Method:      http.MethodPost,
			Handler:     GetMultiPlatformPerformance(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

// PlatformAuth monta as rotas do ciclo de vida de autenticação das plataformas
func PlatformAuth(authenticator *PlatformAuthenticator) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/platforms/auth/status",
			Method:      http.MethodGet,
			Handler:     authenticator.Status(),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrSupervisor()},
		},
		{
			Path:        "/v1/platforms/:platform/auth",
			Method:      http.MethodPost,
			Handler:     authenticator.Authenticate(),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/platforms/:platform/auth/refresh",
			Method:      http.MethodPost,
			Handler:     authenticator.Refresh(),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/platforms/:platform/auth",
			Method:      http.MethodDelete,
			Handler:     authenticator.Logout(),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}

func Authentication(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/login",
			Method:  http.MethodPost,
			Handler: Login(service),
		},
		{
			Path:    "/v1/register",
			Method:  http.MethodPost,
			Handler: CreateUser(service),
		},
		{
			Path:        "/v1/users/:id/generate-password",
			Method:      http.MethodPost,
			Handler:     GeneratePassword(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/users/:id/change-password",
			Method:      http.MethodPost,
			Handler:     ChangePassword(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/me",
			Method:      http.MethodGet,
			Handler:     GetMe(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func User(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/users",
			Method:      http.MethodGet,
			Handler:     ListUsers(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/users",
			Method:      http.MethodPost,
			Handler:     CreateUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/users/:id",
			Method:      http.MethodGet,
			Handler:     GetUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/users/:id",
			Method:      http.MethodPut,
			Handler:     UpdateUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}
