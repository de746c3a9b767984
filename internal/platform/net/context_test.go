package net_test

import (
	"context"
	"net/http/httptest"
	"testing"

	pnet "taxintake/internal/platform/net"
)

func TestRequestID(t *testing.T) {
	ctx := pnet.WithRequestID(context.Background(), "req-42")
	if got := pnet.RequestID(ctx); got != "req-42" {
		t.Fatalf("RequestID = %q", got)
	}
	if got := pnet.RequestID(pnet.WithRequestID(context.Background(), "")); got != "" {
		t.Fatalf("empty id should not be stored, got %q", got)
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "203.0.113.9:5555"
	if got := pnet.ClientIP(r); got != "203.0.113.9" {
		t.Fatalf("ClientIP = %q", got)
	}
	r.RemoteAddr = "203.0.113.10"
	if got := pnet.ClientIP(r); got != "203.0.113.10" {
		t.Fatalf("ClientIP without port = %q", got)
	}
	r.RemoteAddr = "[2001:db8::1]:443"
	if got := pnet.ClientIP(r); got != "2001:db8::1" {
		t.Fatalf("ClientIP v6 = %q", got)
	}
}
