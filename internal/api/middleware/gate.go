package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gigindia/marketplace/internal/api/metrics"
	"github.com/gigindia/marketplace/internal/core/domain"
	"github.com/gigindia/marketplace/internal/core/ports"
)

// SessionKey is the echo context key holding the *domain.VerifiedSession of
// a request the gate let through with a credential.
const SessionKey = "session"

// Decision is the outcome of running a request through the gate.
type Decision int

const (
	DecisionPublic Decision = iota
	DecisionBypassed
	DecisionVerified
	DecisionUnauthenticated
	DecisionForbidden
)

func (d Decision) String() string {
	switch d {
	case DecisionPublic:
		return "public"
	case DecisionBypassed:
		return "bypassed"
	case DecisionVerified:
		return "verified"
	case DecisionUnauthenticated:
		return "unauthenticated"
	case DecisionForbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// GateConfig holds the paths and flags the gate is built from.
type GateConfig struct {
	CookieName  string
	LoginPath   string
	LandingPath string
	AdminPrefix string
	// DevBypass lets every request under DevBypassPrefix through without a
	// credential. Never enable outside local development.
	DevBypass       bool
	DevBypassPrefix string
	// PublicPaths replaces DefaultPublicPaths when non-empty. OperationalPaths
	// are added either way.
	PublicPaths []string
}

func (c GateConfig) withDefaults() GateConfig {
	if c.CookieName == "" {
		c.CookieName = "auth_token"
	}
	if c.LoginPath == "" {
		c.LoginPath = "/auth/login"
	}
	if c.LandingPath == "" {
		c.LandingPath = "/dashboard"
	}
	if c.AdminPrefix == "" {
		c.AdminPrefix = "/admin"
	}
	if c.DevBypassPrefix == "" {
		c.DevBypassPrefix = "/dashboard"
	}
	pages := c.PublicPaths
	if len(pages) == 0 {
		pages = DefaultPublicPaths
	}
	c.PublicPaths = append(append(make([]string, 0, len(pages)+len(OperationalPaths)), pages...), OperationalPaths...)
	return c
}

// Gate decides for every request whether it is forwarded, sent to the login
// page or sent to the landing page.
type Gate struct {
	cfg         GateConfig
	public      *PathMatcher
	codec       ports.SessionCodec
	revocations ports.SessionRevocations
	log         zerolog.Logger
}

// NewGate builds a gate. revocations may be nil, in which case revoked
// credentials are honoured until they expire.
func NewGate(cfg GateConfig, codec ports.SessionCodec, revocations ports.SessionRevocations, log zerolog.Logger) *Gate {
	cfg = cfg.withDefaults()
	if cfg.DevBypass {
		log.Warn().
			Str("prefix", cfg.DevBypassPrefix).
			Msg("development bypass enabled: requests under this prefix skip authentication")
	}
	return &Gate{
		cfg:         cfg,
		public:      NewPathMatcher(cfg.PublicPaths),
		codec:       codec,
		revocations: revocations,
		log:         log,
	}
}

// Decide classifies a request by its path and session token. The returned
// session is set only for DecisionVerified and DecisionForbidden.
func (g *Gate) Decide(ctx context.Context, path, token string) (Decision, *domain.VerifiedSession) {
	if g.public.Match(path) {
		return DecisionPublic, nil
	}
	if g.cfg.DevBypass && strings.HasPrefix(path, g.cfg.DevBypassPrefix) {
		g.log.Warn().Str("path", path).Msg("request let through by development bypass")
		return DecisionBypassed, nil
	}

	if token == "" {
		metrics.SessionVerifyFailuresTotal.WithLabelValues("missing").Inc()
		return DecisionUnauthenticated, nil
	}

	session, err := g.codec.Verify(token)
	if err != nil {
		reason := domain.VerifyReason(err)
		metrics.SessionVerifyFailuresTotal.WithLabelValues(reason).Inc()
		g.log.Debug().Str("path", path).Str("reason", reason).Msg("session rejected")
		return DecisionUnauthenticated, nil
	}

	if g.revocations != nil && session.TokenID != "" {
		revoked, err := g.revocations.IsRevoked(ctx, session.TokenID)
		if err != nil {
			metrics.SessionVerifyFailuresTotal.WithLabelValues("error").Inc()
			g.log.Error().Err(err).Str("path", path).Msg("revocation lookup failed, rejecting session")
			return DecisionUnauthenticated, nil
		}
		if revoked {
			metrics.SessionVerifyFailuresTotal.WithLabelValues(domain.VerifyReason(domain.ErrSessionRevoked)).Inc()
			return DecisionUnauthenticated, nil
		}
	}

	if strings.HasPrefix(path, g.cfg.AdminPrefix) && session.Role != domain.RoleAdmin {
		g.log.Info().Str("path", path).Str("user_id", session.ID).Str("role", session.Role).Msg("admin path denied")
		return DecisionForbidden, session
	}
	return DecisionVerified, session
}

// Middleware runs Decide on every request. Unauthenticated requests are
// redirected to the login page with the original URL as callbackUrl;
// forbidden ones to the landing page. Verified sessions are stored on the
// context under SessionKey.
func (g *Gate) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			var token string
			if cookie, err := c.Cookie(g.cfg.CookieName); err == nil {
				token = cookie.Value
			}

			decision, session := g.Decide(req.Context(), req.URL.Path, token)
			metrics.GateDecisionsTotal.WithLabelValues(decision.String()).Inc()

			switch decision {
			case DecisionUnauthenticated:
				return c.Redirect(http.StatusTemporaryRedirect, g.loginURL(c))
			case DecisionForbidden:
				return c.Redirect(http.StatusTemporaryRedirect, g.cfg.LandingPath)
			case DecisionVerified:
				c.Set(SessionKey, session)
			}
			return next(c)
		}
	}
}

func (g *Gate) loginURL(c echo.Context) string {
	req := c.Request()
	original := c.Scheme() + "://" + req.Host + req.URL.RequestURI()
	return g.cfg.LoginPath + "?callbackUrl=" + url.QueryEscape(original)
}
