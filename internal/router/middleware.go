package router

import (
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	wishlogging "github.com/charmbracelet/wish/logging"
	"github.com/samber/lo"

	"devportal/internal/logging"
)

// Descriptor names one middleware in the terminal chain.
type Descriptor struct {
	Name       string
	Middleware wish.Middleware
}

// DefaultChain wires the terminal middleware chain, outermost first:
// rate limiting, access logging, and active terminal enforcement.
func DefaultChain(limitPerMinute, burst int, logger *log.Logger) []Descriptor {
	if logger == nil {
		logger = logging.Discard()
	}
	return []Descriptor{
		{Name: "rate-limit", Middleware: RateLimitMiddleware(limitPerMinute, burst, logger)},
		{Name: "access-log", Middleware: wishlogging.MiddlewareWithLogger(logger)},
		{Name: "active-term", Middleware: activeterm.Middleware()},
	}
}

// MiddlewareFromDescriptors returns the middleware in chain order.
func MiddlewareFromDescriptors(chain []Descriptor) []wish.Middleware {
	return lo.Map(chain, func(d Descriptor, _ int) wish.Middleware { return d.Middleware })
}

// Names returns the descriptor names in chain order.
func Names(chain []Descriptor) []string {
	return lo.Map(chain, func(d Descriptor, _ int) string { return d.Name })
}
