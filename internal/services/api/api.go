// Package api provides the HTTP API for the application
package api

import (
	"taxintake/internal/platform/config"
	"taxintake/internal/platform/logger"
	phttp "taxintake/internal/platform/net/http"
	"taxintake/internal/platform/store"

	"taxintake/internal/modkit"
	"taxintake/internal/modkit/httpkit"
	"taxintake/internal/modkit/module"
	"taxintake/internal/modkit/swaggerkit"

	estmod "taxintake/internal/services/api/estimate/module"
	intakemod "taxintake/internal/services/api/intake/module"
	metamod "taxintake/internal/services/api/meta/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
	CORSOrigins    []string
}

// Mount mounts the API service onto the given router. the returned func
// releases module resources and should run after the server stops
func Mount(r phttp.Router, opt Options) (closeFn func()) {
	log := logger.Get()
	if opt.Logger != nil {
		log = opt.Logger
	}

	// shared deps for modules
	deps := modkit.FromStore(opt.Config, *log, opt.Store)

	// estimate owns the Estimator port that intake consumes
	estimate := estmod.New(deps)
	intake := intakemod.New(deps, modkit.WithPorts(module.MustPortsOf[estmod.Ports](estimate)))

	mods := []module.Module{
		metamod.New(deps),
		estimate,
		intake,
	}

	// Swagger + profiler live outside the versioned stack
	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	// versioned API with a common middleware stack
	stack := httpkit.CommonStack(httpkit.StackOptions{CORSOrigins: opt.CORSOrigins})
	httpkit.MountAPIV1(r, stack, func(api httpkit.Router) {
		for _, m := range mods {
			log.Debug().Str("module", m.Name()).Msg("mounting module")
			m.MountRoutes(api)
		}
	})

	return func() {
		for _, m := range mods {
			if c, ok := m.(interface{ Close() }); ok {
				c.Close()
			}
		}
	}
}
