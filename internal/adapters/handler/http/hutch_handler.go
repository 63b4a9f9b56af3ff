package http

import (
	"net/http"

	"github.com/vncsmyrnk/rabbitfarm/internal/core/ports"
	"go.uber.org/zap"
)

type HutchHandler struct {
	service ports.HutchService
	logger  *zap.Logger
}

func NewHutchHandler(service ports.HutchService, logger *zap.Logger) *HutchHandler {
	return &HutchHandler{
		service: service,
		logger:  logger,
	}
}

func (h *HutchHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input ports.HutchInput
	if err := decodeJSON(w, r, &input, false); err != nil {
		writeError(w, h.logger, err)
		return
	}

	hutch, err := h.service.Create(r.Context(), farmIDFrom(r.Context()), input, userIDFrom(r.Context()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusCreated, "Hutch created successfully", hutch)
}

// GetAll godoc
// @Summary      Lists the hutches of a farm
// @Param        limit       query  int     false  "page size"
// @Param        offset      query  int     false  "page offset"
// @Param        is_occupied query  bool    false  "occupancy filter"
// @Param        row_name    query  string  false  "row name, partial match"
// @Tags         hutches
// @Success      200
// @Failure      400
// @Router       /farms/{farmId}/hutches [get]
func (h *HutchHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := ports.HutchFilter{
		Page:       pageFrom(r),
		IsOccupied: q.Get("is_occupied"),
		RowName:    q.Get("row_name"),
	}

	hutches, err := h.service.GetAll(r.Context(), farmIDFrom(r.Context()), filter)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, "", hutches)
}

func (h *HutchHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id", "hutch")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	hutch, err := h.service.GetByID(r.Context(), id, farmIDFrom(r.Context()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, "", hutch)
}

func (h *HutchHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id", "hutch")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var input ports.HutchInput
	if err := decodeJSON(w, r, &input, false); err != nil {
		writeError(w, h.logger, err)
		return
	}

	hutch, err := h.service.Update(r.Context(), id, farmIDFrom(r.Context()), input, userIDFrom(r.Context()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, "Hutch updated successfully", hutch)
}

func (h *HutchHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id", "hutch")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	hutch, err := h.service.Delete(r.Context(), id, farmIDFrom(r.Context()), userIDFrom(r.Context()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, "Hutch deleted successfully", hutch)
}

func (h *HutchHandler) History(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id", "hutch")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	removals, err := h.service.GetRemovedRabbits(r.Context(), id, farmIDFrom(r.Context()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, "", removals)
}
