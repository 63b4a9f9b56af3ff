package http

import (
	"net/http"

	"github.com/vncsmyrnk/rabbitfarm/internal/core/ports"
	"go.uber.org/zap"
)

type FarmHandler struct {
	service ports.FarmService
	logger  *zap.Logger
}

func NewFarmHandler(service ports.FarmService, logger *zap.Logger) *FarmHandler {
	return &FarmHandler{
		service: service,
		logger:  logger,
	}
}

// Create godoc
// @Summary      Creates a farm owned by the authenticated user
// @Tags         farms
// @Accept       json
// @Success      201
// @Failure      400
// @Failure      401
// @Router       /farms [post]
func (h *FarmHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input ports.FarmInput
	if err := decodeJSON(w, r, &input, false); err != nil {
		writeError(w, h.logger, err)
		return
	}

	farm, err := h.service.Create(r.Context(), input, userIDFrom(r.Context()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusCreated, "Farm created successfully", farm)
}

func (h *FarmHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	farms, err := h.service.GetAll(r.Context(), userIDFrom(r.Context()), pageFrom(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, "", farms)
}

func (h *FarmHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	farm, err := h.service.GetByID(r.Context(), farmIDFrom(r.Context()), userIDFrom(r.Context()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, "", farm)
}

func (h *FarmHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input ports.FarmInput
	if err := decodeJSON(w, r, &input, false); err != nil {
		writeError(w, h.logger, err)
		return
	}

	farm, err := h.service.Update(r.Context(), farmIDFrom(r.Context()), input, userIDFrom(r.Context()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, "Farm updated successfully", farm)
}

func (h *FarmHandler) Delete(w http.ResponseWriter, r *http.Request) {
	farm, err := h.service.Delete(r.Context(), farmIDFrom(r.Context()), userIDFrom(r.Context()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, "Farm deleted successfully", farm)
}
