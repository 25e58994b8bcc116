package authz

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/coffeeshop/pkg/jwtx"
	"github.com/aussiebroadwan/coffeeshop/pkg/slogx"
)

// TokenVerifier is satisfied by *jwtx.Verifier.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*jwtx.Claims, error)
}

// Decision is the outcome of a guard check. Exactly one of Claims and Err is
// set.
type Decision struct {
	Claims *jwtx.Claims
	Err    *Error
}

func (d Decision) Allowed() bool { return d.Err == nil }

// Stages of a check, used as the "stage" log attribute.
const (
	stageExtract = "extract"
	stageVerify  = "verify"
	stageEnforce = "enforce"
)

// Guard authorizes requests for a required permission. It holds no per
// request state and is safe for concurrent use.
type Guard struct {
	verifier TokenVerifier
	metrics  *Metrics
	logger   *slog.Logger
}

type GuardOption func(*Guard)

// WithMetrics counts every decision.
func WithMetrics(m *Metrics) GuardOption {
	return func(g *Guard) { g.metrics = m }
}

// WithLogger sets the logger used when the request context carries none.
func WithLogger(l *slog.Logger) GuardOption {
	return func(g *Guard) { g.logger = l }
}

func NewGuard(v TokenVerifier, opts ...GuardOption) *Guard {
	g := &Guard{verifier: v, logger: slog.Default()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Authorize runs extract, verify and enforce in order and stops at the first
// failure. A non-nil error is always an *Error.
func (g *Guard) Authorize(ctx context.Context, header, permission string) (*jwtx.Claims, error) {
	d := g.Check(ctx, header, permission)
	if d.Err != nil {
		return nil, d.Err
	}
	return d.Claims, nil
}

// AuthorizeRequest is Authorize reading the header from r.
func (g *Guard) AuthorizeRequest(r *http.Request, permission string) (*jwtx.Claims, error) {
	d := g.CheckRequest(r, permission)
	if d.Err != nil {
		return nil, d.Err
	}
	return d.Claims, nil
}

// Check is Authorize returning a Decision.
func (g *Guard) Check(ctx context.Context, header, permission string) Decision {
	token, err := ExtractBearer(header)
	return g.decide(ctx, token, err, permission)
}

// CheckRequest is Check reading the header from r.
func (g *Guard) CheckRequest(r *http.Request, permission string) Decision {
	token, err := BearerFromRequest(r)
	return g.decide(r.Context(), token, err, permission)
}

func (g *Guard) decide(ctx context.Context, token string, extractErr error, permission string) Decision {
	if extractErr != nil {
		return g.deny(ctx, stageExtract, permission, Classify(extractErr))
	}

	claims, err := g.verifier.Verify(ctx, token)
	if err != nil {
		return g.deny(ctx, stageVerify, permission, Classify(err))
	}

	if err := RequirePermission(claims, permission); err != nil {
		return g.deny(ctx, stageEnforce, permission, Classify(err))
	}

	slogx.FromContextOr(ctx, g.logger).Debug("authz allowed",
		"permission", permission,
		"sub", claims.Subject,
	)
	g.metrics.observeDecision(permission, "allowed")
	return Decision{Claims: claims}
}

func (g *Guard) deny(ctx context.Context, stage, permission string, e *Error) Decision {
	log := slogx.FromContextOr(ctx, g.logger)

	attrs := []any{
		"stage", stage,
		"permission", permission,
		"code", e.Code,
		"status", e.Status,
	}
	if e.Err != nil {
		attrs = append(attrs, "error", e.Err)
	}

	switch e.Kind {
	case KindKeySourceUnavailable:
		log.Error("authz denied", attrs...)
	default:
		log.Info("authz denied", attrs...)
	}

	g.metrics.observeDecision(permission, e.Code)
	return Decision{Err: e}
}
