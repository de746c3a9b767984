// Package module wires meta endpoints into the API
package module

import (
	"net/http"
	"time"

	"taxintake/internal/modkit"
	"taxintake/internal/modkit/httpkit"
	metahttp "taxintake/internal/services/api/meta/http"
)

// Module implements modkit.Module
type Module struct {
	name   string
	prefix string
	mws    []func(http.Handler) http.Handler
	deps   metahttp.Deps
}

// New builds the meta module. every backend in deps is checked by /ready
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build("meta", opts...)
	return &Module{
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
		deps: metahttp.Deps{
			ServiceName: "taxintake-api",
			StartedAt:   time.Now(),
			Checks: []metahttp.NamedCheck{
				{Name: "pg", P: pinger(deps.PG)},
				{Name: "redis", P: pinger(deps.Cache)},
				{Name: "ch", P: pinger(deps.CH)},
			},
		},
	}
}

// pinger keeps a nil backend a nil interface, so /ready reports it skipped
func pinger(v any) metahttp.Pinger {
	if p, ok := v.(metahttp.Pinger); ok {
		return p
	}
	return nil
}

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	httpkit.MountUnder(r, m.prefix, m.mws, func(rr httpkit.Router) {
		metahttp.Register(rr, m.deps)
	})
}

// Name implements modkit.Module
func (m *Module) Name() string { return m.name }

// Ports implements modkit.Module
func (m *Module) Ports() any { return nil }
