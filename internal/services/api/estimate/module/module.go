// Package module wires the estimate endpoint into the API
package module

import (
	"net/http"
	"time"

	"taxintake/internal/modkit"
	"taxintake/internal/modkit/httpkit"
	"taxintake/internal/services/api/estimate/domain"
	esthttp "taxintake/internal/services/api/estimate/http"
	estsvc "taxintake/internal/services/api/estimate/service"
)

// Ports is what other modules may pull from estimate
type Ports struct {
	Estimator domain.Estimator
}

// Module implements modkit.Module
type Module struct {
	name   string
	prefix string
	mws    []func(http.Handler) http.Handler
	svc    estsvc.Service
}

// New builds the module. results are cached in deps.Cache for
// SERVICE_REDIS_TTL (24h default) when Redis is enabled
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build("estimate", opts...)

	var cache domain.Cache
	if deps.Cache != nil {
		cache = deps.Cache
	}
	ttl := deps.Cfg.Prefix("SERVICE_REDIS_").MayDuration("TTL", 24*time.Hour)

	return &Module{
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
		svc:    estsvc.New(cache, ttl),
	}
}

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	httpkit.MountUnder(r, m.prefix, m.mws, func(rr httpkit.Router) {
		esthttp.Register(rr, m.svc)
	})
}

// Name implements modkit.Module
func (m *Module) Name() string { return m.name }

// Ports implements modkit.Module
func (m *Module) Ports() any { return Ports{Estimator: m.svc} }
