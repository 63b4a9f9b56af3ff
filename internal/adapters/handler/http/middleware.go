package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/vncsmyrnk/rabbitfarm/internal/core/domain"
	"github.com/vncsmyrnk/rabbitfarm/internal/core/ports"
	"go.uber.org/zap"
)

// Authenticator resolves "Authorization: Bearer <token>" to a user id stored
// under UserIDKey, and guards farm-scoped routes by ownership.
type Authenticator struct {
	auth   ports.AuthService
	farms  ports.FarmService
	logger *zap.Logger
}

func NewAuthenticator(auth ports.AuthService, farms ports.FarmService, logger *zap.Logger) *Authenticator {
	return &Authenticator{
		auth:   auth,
		farms:  farms,
		logger: logger,
	}
}

func (a *Authenticator) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeError(w, a.logger, domain.ErrUnauthenticated)
			return
		}

		userID, err := a.auth.Authenticate(r.Context(), token)
		if err != nil {
			a.logger.Debug("session rejected", zap.Error(err))
			writeError(w, a.logger, err)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		ctx = context.WithValue(ctx, sessionKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireFarm must run after RequireUser on routes carrying {farmId}.
func (a *Authenticator) RequireFarm(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		farmID, err := urlID(r, farmIDParam, "farm")
		if err != nil {
			writeError(w, a.logger, err)
			return
		}

		if err := a.farms.CheckAccess(r.Context(), farmID, userIDFrom(r.Context())); err != nil {
			writeError(w, a.logger, err)
			return
		}

		ctx := context.WithValue(r.Context(), FarmIDKey, farmID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
