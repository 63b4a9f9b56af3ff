package http

import (
	"net/http"

	"github.com/vncsmyrnk/rabbitfarm/internal/core/ports"
	"go.uber.org/zap"
)

type AlertHandler struct {
	service ports.AlertService
	logger  *zap.Logger
}

func NewAlertHandler(service ports.AlertService, logger *zap.Logger) *AlertHandler {
	return &AlertHandler{
		service: service,
		logger:  logger,
	}
}

func (h *AlertHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.service.GetAll(r.Context(), farmIDFrom(r.Context()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, "", alerts)
}
