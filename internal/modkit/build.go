package modkit

import (
	"net/http"
	"strings"

	pstrings "taxintake/internal/platform/strings"
)

// Built is the resolved option set a module reads from
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler
	Ports  []any
}

// Build applies opts. def is used when no WithName/WithPrefix was given
func Build(def string, opts ...Option) Built {
	c := buildCfg{name: def, prefix: "/" + def}
	for _, o := range opts {
		o(&c)
	}
	// a blank or "/" prefix mounts at the parent's root
	prefix := ""
	if strings.Trim(c.prefix, " /") != "" {
		prefix = pstrings.MustPrefix(c.prefix)
	}
	return Built{
		Name:   c.name,
		Prefix: prefix,
		Mw:     append([]func(http.Handler) http.Handler(nil), c.mw...),
		Ports:  append([]any(nil), c.ports...),
	}
}

// Port returns the first port set handed in via WithPorts that implements T
func Port[T any](b Built) (T, bool) {
	for _, p := range b.Ports {
		if v, ok := p.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}
