// Package module holds the Module contract on its own so modules that export
// port types do not import modkit back
package module

import phttp "taxintake/internal/platform/net/http"

// Module mounts routes and exposes a port set for cross wiring
type Module interface {
	Name() string
	MountRoutes(r phttp.Router)
	Ports() any
}
