// Package module wires the intake wizard into the API
package module

import (
	"context"
	"net/http"
	"time"

	"taxintake/internal/adapters/relay"
	"taxintake/internal/modkit"
	"taxintake/internal/modkit/httpkit"
	"taxintake/internal/platform/config"
	"taxintake/internal/platform/net/middleware"
	estmod "taxintake/internal/services/api/estimate/module"
	"taxintake/internal/services/api/intake/domain"
	intakehttp "taxintake/internal/services/api/intake/http"
	"taxintake/internal/services/api/intake/repo"
	"taxintake/internal/services/api/intake/service"
)

// Ports is what other modules may pull from intake
type Ports struct {
	Service service.Service
}

// Module implements modkit.Module
type Module struct {
	name   string
	prefix string
	mws    []func(http.Handler) http.Handler
	svc    service.Service
	create *middleware.RateLimiter
	submit *middleware.RateLimiter
}

// RelayFromConfig reads RELAY_* into relay options
func RelayFromConfig(c config.Conf) relay.Options {
	rc := c.Prefix("RELAY_")
	return relay.Options{
		URL:        rc.MayString("URL", ""),
		AccessKey:  rc.MayString("ACCESS_KEY", ""),
		UserAgent:  rc.MayString("UA", ""),
		Subject:    rc.MayString("SUBJECT", "New tax intake"),
		Timeout:    rc.MayDuration("TIMEOUT", 15*time.Second),
		MaxRetries: rc.MayInt("MAX_RETRIES", 3),
		RetryBase:  rc.MayDuration("RETRY_BASE", 500*time.Millisecond),
	}
}

// New builds the module. Sessions go to Postgres when deps.PG is set and to
// process memory otherwise. The estimate module's Ports must be handed in
// with modkit.WithPorts
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build("intake", opts...)
	log := deps.Log.With().Str("module", b.Name).Logger()

	est, ok := modkit.Port[estmod.Ports](b)
	if !ok || est.Estimator == nil {
		panic("intake module requires the estimate ports")
	}

	ro := RelayFromConfig(deps.Cfg)
	if ro.AccessKey == "" {
		log.Warn().Msg("RELAY_ACCESS_KEY is empty, the relay will reject submissions")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	ic := deps.Cfg.Prefix("INTAKE_")

	var st repo.Store
	if deps.PG != nil {
		if err := repo.Migrate(ctx, deps.PG); err != nil {
			log.Panic().Err(err).Msg("intake schema migration failed")
		}
		st = repo.NewPGStore(deps.PG)
	} else {
		log.Info().Msg("postgres disabled, intake sessions kept in memory")
		st = repo.NewMemory(ic.MayDuration("MEMORY_TTL", 24*time.Hour))
	}

	var rec domain.Recorder
	if deps.CH != nil {
		chr := service.NewCHRecorder(deps.CH)
		if err := chr.Migrate(ctx); err != nil {
			log.Warn().Err(err).Msg("intake_submissions table not ensured, analytics disabled")
		} else {
			rec = chr
		}
	}

	return &Module{
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
		svc: service.New(service.Deps{
			Store:          st,
			Relay:          relay.New(ro),
			Estimator:      est.Estimator,
			Renderer:       service.NewPDFRenderer(),
			Recorder:       rec,
			SendingTimeout: ic.MayDuration("SENDING_TIMEOUT", service.DefaultSendingTimeout),
		}),
		create: middleware.NewRateLimiter(ic.MayInt("CREATE_RATE", 20), ic.MayDuration("CREATE_WINDOW", time.Minute)),
		submit: middleware.NewRateLimiter(ic.MayInt("SUBMIT_RATE", 5), ic.MayDuration("SUBMIT_WINDOW", time.Minute)),
	}
}

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	httpkit.MountUnder(r, m.prefix, m.mws, func(rr httpkit.Router) {
		intakehttp.Register(rr, m.svc, intakehttp.Middlewares{
			Create: []func(http.Handler) http.Handler{middleware.RateLimit(m.create)},
			Submit: []func(http.Handler) http.Handler{middleware.RateLimit(m.submit)},
		})
	})
}

// Name implements modkit.Module
func (m *Module) Name() string { return m.name }

// Ports implements modkit.Module
func (m *Module) Ports() any { return Ports{Service: m.svc} }

// Close stops the limiters' sweepers
func (m *Module) Close() {
	m.create.Stop()
	m.submit.Stop()
}
