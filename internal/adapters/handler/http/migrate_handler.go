package http

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/vncsmyrnk/rabbitfarm/internal/core/domain"
	"go.uber.org/zap"
)

// MigrateFunc applies pending schema migrations and returns their names.
type MigrateFunc func(ctx context.Context) ([]string, error)

type MigrateHandler struct {
	migrate MigrateFunc
	token   string
	logger  *zap.Logger
}

// NewMigrateHandler returns a handler guarded by the X-Migrate-Token header.
// An empty token disables the endpoint.
func NewMigrateHandler(migrate MigrateFunc, token string, logger *zap.Logger) *MigrateHandler {
	return &MigrateHandler{
		migrate: migrate,
		token:   token,
		logger:  logger,
	}
}

func (h *MigrateHandler) Migrate(w http.ResponseWriter, r *http.Request) {
	given := r.Header.Get("X-Migrate-Token")
	if h.token == "" || subtle.ConstantTimeCompare([]byte(given), []byte(h.token)) != 1 {
		writeError(w, h.logger, domain.Forbidden("Invalid migration token"))
		return
	}

	applied, err := h.migrate(r.Context())
	if err != nil {
		writeError(w, h.logger, domain.Internal("failed to apply migrations", err))
		return
	}

	h.logger.Info("migrations applied", zap.Strings("files", applied))
	writeData(w, http.StatusOK, "Migrations applied successfully", map[string][]string{"applied": applied})
}
