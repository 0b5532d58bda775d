package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"unires/config"
	"unires/infras/jwt"
	"unires/infras/otel"
	"unires/permissions"
	"unires/shared/constant"
	"unires/shared/failure"
	"unires/transport/http/response"
)

// trustedKey marks a request already authenticated by API key.
type trustedKey struct{}

type Auth interface {
	Auth(http.Handler) http.Handler
	APIKey(http.Handler) http.Handler
}

type Role interface {
	RBAC(http.Handler) http.Handler
}

// AuthRole is mounted as APIKey, then Auth, then RBAC.
type AuthRole interface {
	Auth
	Role
}

type authRoleImpl struct {
	jwtService jwt.JWT
	otel       otel.Otel
	permission *permissions.PermissionData
	cfg        *config.Config
}

func NewAuthRoleMiddleware(jwtService jwt.JWT, otel otel.Otel, permissions *permissions.PermissionData, cfg *config.Config) AuthRole {
	return &authRoleImpl{
		jwtService: jwtService,
		otel:       otel,
		permission: permissions,
		cfg:        cfg,
	}
}

func trusted(r *http.Request) bool {
	ok, _ := r.Context().Value(trustedKey{}).(bool)

	return ok
}

func deny(w http.ResponseWriter, scope otel.Scope, err error) {
	scope.TraceError(err)
	response.WithError(w, err)
}

// Auth turns a bearer token into caller identity on the request context.
// Public routes and API-key callers pass straight through.
func (m *authRoleImpl) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, scope := m.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, "auth.middleware")
		defer scope.End()

		path := routePattern(r)

		if trusted(r) || (m.permission != nil && m.permission.FindPermissions(path, r.Method).Skip) {
			next.ServeHTTP(w, r)

			return
		}

		scope.SetAttributes(map[string]any{
			"middleware.type": "auth",
			"http.route":      path,
			"http.method":     r.Method,
		})

		header := r.Header.Get(constant.RequestHeaderAuthorization)
		if header == constant.Empty {
			deny(w, scope, failure.Unauthorized("Missing authorization header"))

			return
		}

		raw, err := jwt.ExtractTokenFromHeader(header)
		if err != nil {
			deny(w, scope, failure.Unauthorized("Invalid authorization header format"))

			return
		}

		claims, err := m.jwtService.ValidateToken(raw)
		if err != nil {
			deny(w, scope, failure.Unauthorized(tokenErrorMessage(err)))

			return
		}

		if claims.UserID == constant.Empty || claims.Role == constant.Empty {
			log.Warn().Str("token_id", claims.TokenID).Msg("token carries no user id or role")
			deny(w, scope, failure.Unauthorized("Invalid token claims"))

			return
		}

		ctx = context.WithValue(ctx, constant.ContextKeyUserID, claims.UserID)
		ctx = context.WithValue(ctx, constant.ContextKeyUserEmail, claims.Email)
		ctx = context.WithValue(ctx, constant.ContextKeyUserRole, claims.Role)
		ctx = context.WithValue(ctx, constant.ContextKeyTokenID, claims.TokenID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func tokenErrorMessage(err error) string {
	switch {
	case errors.Is(err, jwt.ErrExpiredToken):
		return "Token has expired"
	case errors.Is(err, jwt.ErrInvalidClaim):
		return "Invalid token claims"
	case errors.Is(err, jwt.ErrInvalidToken):
		return "Invalid token"
	default:
		return "Token validation failed"
	}
}

// RBAC checks the caller's role against the roles listed for the route.
// Routes without an entry, or with an empty role list, only need a caller.
func (m *authRoleImpl) RBAC(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, scope := m.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, "rbac.middleware")
		defer scope.End()

		if m.permission == nil {
			deny(w, scope, failure.ForbiddenError)

			return
		}

		if trusted(r) || m.permission.Skip {
			next.ServeHTTP(w, r)

			return
		}

		rule := m.permission.FindPermissions(routePattern(r), r.Method)
		role, _ := r.Context().Value(constant.ContextKeyUserRole).(string)

		if !rule.Skip && len(rule.Permissions) > 0 && !slices.Contains(rule.Permissions, role) {
			scope.SetAttributes(map[string]any{
				"user_role":     role,
				"allowed_roles": rule.Permissions,
			})
			deny(w, scope, failure.ForbiddenError)

			return
		}

		next.ServeHTTP(w, r)
	})
}

// APIKey admits internal callers presenting the shared key. They act as the
// system user with the admin role. Requests without the header fall through
// to token auth.
func (m *authRoleImpl) APIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, scope := m.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, "api_key.middleware")
		defer scope.End()

		key := r.Header.Get(constant.RequestHeaderAPIKey)
		if key == constant.Empty {
			scope.SetAttribute("http.source", "client")
			next.ServeHTTP(w, r)

			return
		}

		scope.SetAttribute("http.source", "internal")

		expected := m.cfg.App.APIKey
		if expected == constant.Empty || subtle.ConstantTimeCompare([]byte(key), []byte(expected)) != 1 {
			deny(w, scope, failure.ForbiddenError)

			return
		}

		ctx = context.WithValue(ctx, trustedKey{}, true)
		ctx = context.WithValue(ctx, constant.ContextKeyUserID, constant.ActorSystem)
		ctx = context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleAdmin)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// routePattern resolves the registered chi pattern, e.g. /v1/reservations/{id}.
func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil || rctx.Routes == nil {
		return r.URL.Path
	}

	if pattern := rctx.Routes.Find(chi.NewRouteContext(), r.Method, r.URL.Path); pattern != constant.Empty {
		return pattern
	}

	return r.URL.Path
}
