// Package http exposes the intake wizard
package http

import (
	stdhttp "net/http"

	"taxintake/internal/core/intake"
	"taxintake/internal/modkit/httpkit"
	"taxintake/internal/services/api/intake/service"
)

// Middlewares wrap single routes. both are usually rate limiters
type Middlewares struct {
	Create []func(stdhttp.Handler) stdhttp.Handler
	Submit []func(stdhttp.Handler) stdhttp.Handler
}

// Register mounts the wizard routes on r
func Register(r httpkit.Router, svc service.Service, mw Middlewares) {
	h := &handlers{svc: svc}

	r.Group(func(g httpkit.Router) {
		if len(mw.Create) > 0 {
			g.Use(mw.Create...)
		}
		httpkit.Post(g, "/", h.create)
	})
	httpkit.Get(r, "/{id}", h.get)

	httpkit.PutJSON(r, "/{id}/personal", h.personal)
	httpkit.PutJSON(r, "/{id}/income", h.income)
	httpkit.PutJSON(r, "/{id}/expenses", h.expenses)
	httpkit.PutJSON(r, "/{id}/salary", h.salary)

	httpkit.Post(r, "/{id}/next", h.next)
	httpkit.Post(r, "/{id}/back", h.back)
	httpkit.Get(r, "/{id}/estimate", h.estimate)
	r.Get("/{id}/summary.pdf", httpkit.Handle(h.summary))

	r.Group(func(g httpkit.Router) {
		if len(mw.Submit) > 0 {
			g.Use(mw.Submit...)
		}
		httpkit.Post(g, "/{id}/submit", h.submit)
	})
}

type handlers struct{ svc service.Service }

func id(r *stdhttp.Request) string { return httpkit.Param(r, "id") }

func (h *handlers) create(r *stdhttp.Request) (any, error) {
	v, err := h.svc.Create(r.Context())
	if err != nil {
		return nil, err
	}
	return httpkit.Created(v), nil
}

func (h *handlers) get(r *stdhttp.Request) (any, error) {
	return h.svc.Get(r.Context(), id(r))
}

func (h *handlers) personal(r *stdhttp.Request, in intake.PersonalInfo) (any, error) {
	return h.svc.SavePersonal(r.Context(), id(r), in)
}

func (h *handlers) income(r *stdhttp.Request, in intake.IncomeData) (any, error) {
	return h.svc.SaveIncome(r.Context(), id(r), in)
}

func (h *handlers) expenses(r *stdhttp.Request, in intake.ExpenseData) (any, error) {
	return h.svc.SaveExpenses(r.Context(), id(r), in)
}

func (h *handlers) salary(r *stdhttp.Request, in intake.SalaryData) (any, error) {
	return h.svc.SaveSalary(r.Context(), id(r), in)
}

func (h *handlers) next(r *stdhttp.Request) (any, error) {
	return h.svc.Next(r.Context(), id(r))
}

func (h *handlers) back(r *stdhttp.Request) (any, error) {
	return h.svc.Back(r.Context(), id(r))
}

func (h *handlers) estimate(r *stdhttp.Request) (any, error) {
	return h.svc.Estimate(r.Context(), id(r))
}

func (h *handlers) submit(r *stdhttp.Request) (any, error) {
	return h.svc.Submit(r.Context(), id(r))
}

func (h *handlers) summary(r *stdhttp.Request) httpkit.Response {
	b, err := h.svc.Summary(r.Context(), id(r))
	if err != nil {
		return httpkit.Error(err)
	}
	return httpkit.Attachment("application/pdf", "intake-"+id(r)+".pdf", b)
}
