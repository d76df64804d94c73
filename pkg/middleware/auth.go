package middleware

import (
	"context"
	"net/http"
	"strings"

	"movie-theater/internal/data/entity"
	"movie-theater/internal/data/repository"
	"movie-theater/pkg/utils"

	"go.uber.org/zap"
)

// bearerToken extracts <token> from "Bearer <token>"
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

type authResult int

const (
	authOK authResult = iota
	authInvalid
	authInactive
	authFailed
)

// authenticate resolves token to the session's account and stores the
// user id, role and token in ctx.
func authenticate(ctx context.Context, sessions repository.SessionRepository, accounts repository.AccountRepository, token string, logger *zap.Logger) (context.Context, authResult) {
	session, err := sessions.FindValidSession(ctx, token)
	if err != nil {
		logger.Error("Failed to validate session", zap.Error(err))
		return ctx, authFailed
	}
	if session == nil {
		return ctx, authInvalid
	}

	account, err := accounts.FindByID(ctx, session.UserID)
	if err != nil {
		logger.Error("Failed to load session account",
			zap.Error(err),
			zap.String("user_id", session.UserID.String()))
		return ctx, authFailed
	}
	if account == nil {
		return ctx, authInvalid
	}
	if !account.IsActive {
		return ctx, authInactive
	}

	ctx = utils.SetUserContext(ctx, account.ID, string(account.Role))
	ctx = utils.SetTokenContext(ctx, token)
	return ctx, authOK
}

// AuthSession middleware untuk validasi session token UUID
func AuthSession(sessions repository.SessionRepository, accounts repository.AccountRepository, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.ResponseUnauthorized(w, "Missing authorization token")
				return
			}

			token, ok := bearerToken(authHeader)
			if !ok {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}

			ctx, result := authenticate(r.Context(), sessions, accounts, token, logger)
			switch result {
			case authFailed:
				utils.ResponseInternalError(w, "Internal server error")
				return
			case authInvalid:
				logger.Warn("Invalid or expired session", zap.String("path", r.URL.Path))
				utils.ResponseUnauthorized(w, "Invalid or expired session")
				return
			case authInactive:
				utils.ResponseForbidden(w, "Account is inactive")
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth identifies the caller when a valid token is sent and lets
// anonymous requests through otherwise.
func OptionalAuth(sessions repository.SessionRepository, accounts repository.AccountRepository, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			ctx, result := authenticate(r.Context(), sessions, accounts, token, logger)
			if result != authOK {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Admin - middleware cek role admin. Must run after AuthSession.
func Admin(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := utils.GetUserIDFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			role, _ := utils.GetRoleFromContext(r.Context())
			if entity.Role(role) != entity.RoleAdmin {
				logger.Warn("Admin check: non-admin access attempt",
					zap.String("user_id", userID.String()),
					zap.String("path", r.URL.Path))
				utils.ResponseForbidden(w, "Admin access required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
