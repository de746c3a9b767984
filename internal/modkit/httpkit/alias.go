// Package httpkit is the HTTP surface modules code against, re-exported from
// the platform http package so modules never import it directly
package httpkit

import (
	"net/http"

	phttp "taxintake/internal/platform/net/http"
)

type (
	// Envelope is the JSON wrapper every response uses
	Envelope = phttp.Envelope

	// Response is what return-style handlers produce
	Response = phttp.Response

	// Handler is the route handler type
	Handler = phttp.Handler

	// Router is the routing seam
	Router = phttp.Router
)

// OK returns a 200 response
func OK(data any) Response { return phttp.OK(data) }

// Created returns a 201 response
func Created(data any) Response { return phttp.Created(data) }

// NoContent returns a 204 response
func NoContent() Response { return phttp.NoContent() }

// Error maps err to its status and envelope
func Error(err error) Response { return phttp.Error(err) }

// Blob returns raw bytes with contentType
func Blob(contentType string, b []byte) Response { return phttp.Blob(contentType, b) }

// Attachment is Blob plus a Content-Disposition naming the download
func Attachment(contentType, filename string, b []byte) Response {
	resp := phttp.Blob(contentType, b)
	resp.Header = http.Header{"Content-Disposition": {`attachment; filename="` + filename + `"`}}
	return resp
}

// JSON decodes and validates a T body before calling fn
func JSON[T any](fn func(*http.Request, T) (any, error)) Handler {
	return phttp.JSONHandler(fn)
}

// Handle adapts a Response-returning function
func Handle(fn func(*http.Request) Response) Handler { return phttp.Handle(fn) }

// Call adapts a handler that reads no body
func Call(fn func(*http.Request) (any, error)) Handler {
	return phttp.NoBodyHandler(fn)
}

// Param returns a chi path parameter
func Param(r *http.Request, name string) string { return phttp.Param(r, name) }
