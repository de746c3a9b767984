// Package net holds request scoped helpers shared by handlers and middleware
package net

import (
	"context"
	stdnet "net"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// WithRequestID stores reqID where chi's RequestID middleware would
func WithRequestID(ctx context.Context, reqID string) context.Context {
	if reqID == "" {
		return ctx
	}
	return context.WithValue(ctx, chimw.RequestIDKey, reqID)
}

// RequestID returns the request id on ctx, "" when absent
func RequestID(ctx context.Context) string { return chimw.GetReqID(ctx) }

// ClientIP returns the host part of RemoteAddr. behind RealIP this is the
// forwarded client address
func ClientIP(r *http.Request) string {
	host, _, err := stdnet.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
