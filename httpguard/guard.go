package httpguard

import (
	"context"
	"errors"
	"time"

	"github.com/universal-connector/guard/auth"
	"github.com/universal-connector/guard/observe"
	"github.com/universal-connector/guard/ratelimit"
)

// ErrRateLimited reports that a client exceeded its request budget.
var ErrRateLimited = errors.New("httpguard: rate limit exceeded")

// Guard admits or rejects requests. Rate limiting runs before
// authentication so that a flooding client cannot force signature
// checks.
type Guard struct {
	Auth    *auth.Service
	Limiter *ratelimit.Limiter

	tracer  observe.Tracer
	metrics observe.Metrics
	logger  observe.Logger
}

// NewGuard wires the admission pipeline. obs may be nil, in which case
// tracing, metrics and logging are no-ops.
func NewGuard(authSvc *auth.Service, limiter *ratelimit.Limiter, obs observe.Observer) (*Guard, error) {
	g := &Guard{
		Auth:    authSvc,
		Limiter: limiter,
		tracer:  observe.NopTracer(),
		metrics: observe.NopMetrics(),
		logger:  observe.NopLogger(),
	}

	if obs != nil {
		g.tracer = observe.NewTracer(obs.Tracer())
		g.logger = obs.Logger().WithComponent("httpguard")

		metrics, err := observe.NewMetrics(obs.Meter())
		if err != nil {
			return nil, err
		}
		g.metrics = metrics
	}

	return g, nil
}

// Admit runs the full admission check for one request. The returned
// Status always reflects the client's current budget, including on
// rejection, so callers can surface rate-limit headers either way.
func (g *Guard) Admit(ctx context.Context, clientID, token, endpoint string) (*auth.Claims, ratelimit.Status, error) {
	ctx, span := g.tracer.StartSpan(ctx, observe.RequestMeta{
		Endpoint: endpoint,
		ClientID: clientID,
		Protocol: "http",
	})

	allowed := g.Limiter.Allow(clientID)
	status := g.Limiter.Status(clientID)
	g.metrics.RecordRateLimit(ctx, endpoint, allowed)
	if !allowed {
		g.tracer.EndSpan(span, ErrRateLimited)
		g.logger.Warn(ctx, "rate limit exceeded",
			observe.Field{Key: "client_id", Value: clientID},
			observe.Field{Key: "endpoint", Value: endpoint},
		)
		return nil, status, ErrRateLimited
	}

	start := time.Now()
	claims, err := g.Auth.Authorize(ctx, token, endpoint)
	g.metrics.RecordAuth(ctx, endpoint, time.Since(start), err)
	g.tracer.EndSpan(span, err)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidSignature) {
			// Forged or cross-issuer tokens are worth flagging louder
			// than routine expiry.
			g.logger.Warn(ctx, "token signature rejected",
				observe.Field{Key: "client_id", Value: clientID},
				observe.Field{Key: "endpoint", Value: endpoint},
			)
		} else {
			g.logger.Info(ctx, "request rejected",
				observe.Field{Key: "client_id", Value: clientID},
				observe.Field{Key: "endpoint", Value: endpoint},
				observe.Field{Key: "reason", Value: err.Error()},
			)
		}
		return nil, status, err
	}

	g.logger.Debug(ctx, "request admitted",
		observe.Field{Key: "client_id", Value: clientID},
		observe.Field{Key: "endpoint", Value: endpoint},
		observe.Field{Key: "subject", Value: claims.Subject},
	)
	return claims, status, nil
}

// AdmitFunc is the transport-agnostic admission check, for transports
// that are neither plain HTTP nor WebSocket (an RPC channel, a message
// consumer).
type AdmitFunc func(ctx context.Context, clientID, token, endpoint string) (*auth.Claims, error)

// Interceptor exposes Admit as an AdmitFunc, discarding the budget
// report transports without headers cannot carry.
func (g *Guard) Interceptor() AdmitFunc {
	return func(ctx context.Context, clientID, token, endpoint string) (*auth.Claims, error) {
		claims, _, err := g.Admit(ctx, clientID, token, endpoint)
		return claims, err
	}
}
