// Package modkit is the wiring kit API modules are built with: shared deps,
// build options and the Module contract
package modkit

import "taxintake/internal/modkit/module"

// Module is what api.Mount composes
type Module = module.Module

// Builder constructs a Module from shared deps and options
type Builder func(Deps, ...Option) Module
