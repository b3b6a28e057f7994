package handler

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ad-gateway-api/infrastructure/integrator/auth"
	"github.com/vfg2006/ad-gateway-api/internal/domain"
	"github.com/vfg2006/ad-gateway-api/pkg/apiErrors"
)

// PlatformAuthenticator expõe o ciclo de vida de autenticação das
// plataformas pela API HTTP
type PlatformAuthenticator struct {
	manager     *auth.Manager
	credentials map[domain.Platform]domain.Credentials
}

// NewPlatformAuthenticator monta o handler de autenticação de plataformas
// com as credenciais configuradas
func NewPlatformAuthenticator(manager *auth.Manager, credentials map[domain.Platform]domain.Credentials) *PlatformAuthenticator {
	return &PlatformAuthenticator{
		manager:     manager,
		credentials: credentials,
	}
}

// Authenticate força a autenticação da plataforma com as credenciais
// configuradas no gateway
func (p *PlatformAuthenticator) Authenticate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		platform, ok := parsePlatformParam(r)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Plataforma desconhecida", nil)
			return
		}

		creds, ok := p.credentials[platform]
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Plataforma sem credenciais configuradas: "+platform.String(), nil)
			return
		}

		state, err := p.manager.Authenticate(r.Context(), creds)
		if err != nil {
			logrus.WithError(err).WithField("platform", platform.String()).Error("Falha na autenticação da plataforma")
			apiErrors.WriteError(w, apiErrors.ErrExternalService, err.Error(), nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(state); err != nil {
			logrus.Error(err)
		}
	}
}

// Refresh renova o token da plataforma imediatamente
func (p *PlatformAuthenticator) Refresh() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		platform, ok := parsePlatformParam(r)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Plataforma desconhecida", nil)
			return
		}

		state, err := p.manager.Refresh(r.Context(), platform)
		if err != nil {
			var detail *domain.ApiErrorDetail
			if errors.As(err, &detail) {
				writeApiResponse(w, domain.Fail(detail))
				return
			}

			logrus.WithError(err).WithField("platform", platform.String()).Error("Falha no refresh da plataforma")
			apiErrors.WriteError(w, apiErrors.ErrExternalService, err.Error(), nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(state); err != nil {
			logrus.Error(err)
		}
	}
}

// Logout descarta o token da plataforma e cancela o refresh agendado
func (p *PlatformAuthenticator) Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		platform, ok := parsePlatformParam(r)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Plataforma desconhecida", nil)
			return
		}

		if err := p.manager.Logout(r.Context(), platform); err != nil {
			logrus.WithError(err).WithField("platform", platform.String()).Error("Falha no logout da plataforma")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, err.Error(), nil)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// Status devolve o estado de autenticação corrente de todas as plataformas
// com credenciais configuradas
func (p *PlatformAuthenticator) Status() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		statuses := make(map[string]interface{}, len(p.credentials))
		for platform := range p.credentials {
			state, err := p.manager.State(r.Context(), platform)
			if err != nil {
				statuses[platform.String()] = map[string]interface{}{
					"is_authenticated": false,
				}
				continue
			}
			statuses[platform.String()] = state
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(statuses); err != nil {
			logrus.Error(err)
		}
	}
}
