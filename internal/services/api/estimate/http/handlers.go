// Package http provides the estimate endpoint
package http

import (
	stdhttp "net/http"

	"taxintake/internal/modkit/httpkit"
	"taxintake/internal/services/api/estimate/domain"
)

// Register mounts POST / on r
func Register(r httpkit.Router, est domain.Estimator) {
	h := &handlers{est: est}
	httpkit.PostJSON(r, "/", h.estimate)
}

type handlers struct{ est domain.Estimator }

func (h *handlers) estimate(r *stdhttp.Request, in domain.Input) (any, error) {
	return h.est.Estimate(r.Context(), in.EstimateInput())
}
