package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"family-ledger-go/internal/config"
	"family-ledger-go/pkg/logger"
	"github.com/golang-jwt/jwt/v5"
)

// User is the authenticated identity attached to the request context.
// FamilyID carries the token's active-family claim when present; handlers
// fall back to the stored current-family pointer when it is empty.
type User struct {
	ID       string
	Name     string
	Email    string
	FamilyID string
}

type contextKey int

const (
	userIDKey contextKey = iota
	userKey
)

// UserSaver records the authenticated identity so that membership rows can
// reference a user record even on the very first request.
type UserSaver interface {
	UpsertUser(ctx context.Context, userID, name, email string) error
}

type JWTAuth struct {
	secret   []byte
	users    UserSaver
	log      logger.Logger
	skipAuth bool
	mockUser User
}

type claims struct {
	jwt.RegisteredClaims
	FamilyID string `json:"fam,omitempty"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
}

func NewJWTAuth(cfg config.AuthConfig, users UserSaver, log logger.Logger) *JWTAuth {
	return &JWTAuth{
		secret:   []byte(cfg.JWTSecret),
		users:    users,
		log:      log,
		skipAuth: cfg.SkipAuth,
		mockUser: User{
			ID:       strings.TrimSpace(cfg.MockUserID),
			Name:     strings.TrimSpace(cfg.MockUserName),
			Email:    strings.TrimSpace(cfg.MockUserEmail),
			FamilyID: strings.TrimSpace(cfg.MockFamilyID),
		},
	}
}

func (a *JWTAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.skipAuth {
			user := a.mockUser
			if user.ID == "" {
				writeError(w, http.StatusInternalServerError, "auth_not_configured", "auth mock user id not configured")
				return
			}
			a.saveUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
			return
		}

		if len(a.secret) == 0 {
			writeError(w, http.StatusInternalServerError, "auth_not_configured", "auth not configured")
			return
		}

		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			unauthorized(w)
			return
		}

		var parsed claims
		_, err := jwt.ParseWithClaims(token, &parsed, func(t *jwt.Token) (any, error) {
			return a.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			unauthorized(w)
			return
		}

		if parsed.Subject == "" {
			unauthorized(w)
			return
		}

		user := User{
			ID:       parsed.Subject,
			Name:     parsed.Name,
			Email:    parsed.Email,
			FamilyID: parsed.FamilyID,
		}

		a.saveUser(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

func (a *JWTAuth) saveUser(ctx context.Context, user User) {
	if a.users == nil {
		return
	}
	if err := a.users.UpsertUser(ctx, user.ID, user.Name, user.Email); err != nil {
		a.log.InternalError("auth: upsert user failed", err, "user_id", user.ID)
	}
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
}

func WithUser(ctx context.Context, user User) context.Context {
	ctx = context.WithValue(ctx, userKey, user)
	return context.WithValue(ctx, userIDKey, user.ID)
}

func UserFromContext(ctx context.Context) (User, bool) {
	value := ctx.Value(userKey)
	user, ok := value.(User)
	if !ok || user.ID == "" {
		return User{}, false
	}
	return user, true
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	value := ctx.Value(userIDKey)
	userID, ok := value.(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
