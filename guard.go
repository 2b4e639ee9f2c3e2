package bankgate

import (
	"context"
	"strings"

	"github.com/goliatone/go-router"
)

// PrincipalResolver is the slice of the Resolver the guard depends on.
type PrincipalResolver interface {
	PrincipalFromToken(ctx context.Context, token string) (*Principal, error)
}

// AccessGuard is the request-scoped gate: it turns a bearer token into a
// Principal and checks it against the account types a route accepts.
type AccessGuard struct {
	resolver     PrincipalResolver
	screener     TokenScreener
	logger       Logger
	metrics      MetricsCollector
	errorHandler ErrorHandler
}

// NewAccessGuard returns a guard over the given resolver.
func NewAccessGuard(resolver PrincipalResolver) *AccessGuard {
	return &AccessGuard{
		resolver:     resolver,
		logger:       defLogger{},
		metrics:      noopMetrics{},
		errorHandler: NewJSONErrorHandler(nil),
	}
}

// WithScreener installs an optional local token pre-check (for example JWKS
// signature and expiry validation) that runs before the provider round trip.
func (g *AccessGuard) WithScreener(screener TokenScreener) *AccessGuard {
	g.screener = screener
	return g
}

func (g *AccessGuard) WithLogger(logger Logger) *AccessGuard {
	if logger != nil {
		g.logger = logger
	}
	return g
}

func (g *AccessGuard) WithMetrics(metrics MetricsCollector) *AccessGuard {
	if metrics != nil {
		g.metrics = metrics
	}
	return g
}

// WithErrorHandler installs the renderer used for guard rejections, so a
// middleware failure produces the same response shape as a handler failure.
func (g *AccessGuard) WithErrorHandler(handler ErrorHandler) *AccessGuard {
	if handler != nil {
		g.errorHandler = handler
	}
	return g
}

// RequireAccountTypes builds the route middleware. An empty accepted set
// declares a public route: every request is admitted untouched. Otherwise the
// request must carry a bearer token that resolves to a principal of one of
// the accepted types; the token and principal are published to router locals
// and the request context so downstream handlers never re-resolve.
// Rejections never propagate as raw errors: they render through the error
// handler with the sentinel's status code and JSON body.
func (g *AccessGuard) RequireAccountTypes(accepted ...AccountType) router.MiddlewareFunc {
	acceptedSet := make(map[AccountType]struct{}, len(accepted))
	for _, t := range accepted {
		acceptedSet[t] = struct{}{}
	}

	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			if len(acceptedSet) == 0 {
				g.metrics.RecordGuardDecision(GuardAdmittedPublic)
				return c.Next()
			}

			token := bearerToken(c)
			if token == "" {
				g.metrics.RecordGuardDecision(GuardUnauthenticated)
				return g.errorHandler(c, ErrUnauthenticated)
			}

			if g.screener != nil {
				if err := g.screener.Screen(token); err != nil {
					g.logger.Debug("token failed local screening", "error", err)
					g.metrics.RecordGuardDecision(GuardUnauthenticated)
					return g.errorHandler(c, ErrUnauthenticated)
				}
			}

			principal, err := g.resolver.PrincipalFromToken(c.Context(), token)
			if err != nil || principal == nil {
				g.metrics.RecordGuardDecision(GuardUnauthenticated)
				return g.errorHandler(c, ErrUnauthenticated)
			}

			if _, ok := acceptedSet[principal.Type]; !ok {
				g.metrics.RecordGuardDecision(GuardForbidden)
				return g.errorHandler(c, ErrGuardForbidden)
			}

			c.Locals(TokenLocalsKey, token)
			c.Locals(PrincipalLocalsKey, principal)
			c.SetContext(WithPrincipal(WithToken(c.Context(), token), principal))

			g.metrics.RecordGuardDecision(GuardAdmitted)
			return c.Next()
		}
	}
}

func bearerToken(c router.Context) string {
	header := c.GetString(router.HeaderAuthorization, "")
	if header == "" {
		return ""
	}

	const scheme = "bearer "
	if len(header) > len(scheme) && strings.EqualFold(header[:len(scheme)], scheme) {
		return strings.TrimSpace(header[len(scheme):])
	}

	return strings.TrimSpace(header)
}
