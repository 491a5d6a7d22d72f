package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/daygram-app/daygram-api/internal/domain"
	jwt_internal "github.com/daygram-app/daygram-api/internal/jwt"
	"github.com/daygram-app/daygram-api/internal/utils"
)

// Key to store the user in the request context
type key int

const UserKey key = 0

// UserLoader resolves the token's subject to a full user record, so
// downstream code always sees the current profile, not stale claims.
type UserLoader interface {
	UserById(id domain.UserId) (domain.User, error)
}

// Auth holds dependencies for authentication middleware
type Auth struct {
	jwtService jwt_internal.JwtService
	users      UserLoader
}

func NewAuth(jwtService jwt_internal.JwtService, users UserLoader) *Auth {
	return &Auth{jwtService: jwtService, users: users}
}

// NeedAuth returns middleware that requires authentication
func (a *Auth) NeedAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := a.extractUser(r)
			if err != nil {
				switch err {
				case errNoToken:
					http.Error(w, "Please sign-in", http.StatusUnauthorized)
				case errInvalidClaims:
					zap.S().Error("invalid jwt claims")
					http.Error(w, "Invalid token", http.StatusUnauthorized)
				default:
					utils.WriteErrorAndStatusCode(w, err)
				}
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth populates the user context if the token is valid, but lets
// anonymous requests through
func (a *Auth) OptionalAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, _ := a.extractUser(r)
			if user != nil {
				ctx := context.WithValue(r.Context(), UserKey, user)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractUser extracts and validates the user from the JWT token in the
// request. Cookie first for browser clients, Authorization header for
// API/mobile clients.
func (a *Auth) extractUser(r *http.Request) (*domain.User, error) {
	var tokenString string
	accessCookie, err := r.Cookie("accessToken")
	if err == nil {
		tokenString = accessCookie.Value
	} else if token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); found {
		tokenString = token
	}

	if tokenString == "" {
		return nil, errNoToken
	}

	token, err := a.jwtService.DecodeToken(tokenString)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errInvalidClaims
	}
	uidFloat, ok := claims["uid"].(float64)
	if !ok {
		return nil, errInvalidClaims
	}

	user, err := a.users.UserById(int64(uidFloat))
	if err != nil {
		// deleted account with a live token
		return nil, errInvalidClaims
	}
	return &user, nil
}

// Sentinel errors for extractUser
var (
	errNoToken       = errorString("no token")
	errInvalidClaims = errorString("invalid claims")
)

type errorString string

func (e errorString) Error() string { return string(e) }

// GetUserFromContext retrieves the user from the context
func GetUserFromContext(r *http.Request) *domain.User {
	user, ok := r.Context().Value(UserKey).(*domain.User)
	if !ok {
		return nil
	}
	return user
}
