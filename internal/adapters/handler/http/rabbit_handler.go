package http

import (
	"net/http"

	"github.com/vncsmyrnk/rabbitfarm/internal/core/ports"
	"go.uber.org/zap"
)

type RabbitHandler struct {
	service ports.RabbitService
	logger  *zap.Logger
}

func NewRabbitHandler(service ports.RabbitService, logger *zap.Logger) *RabbitHandler {
	return &RabbitHandler{
		service: service,
		logger:  logger,
	}
}

func (h *RabbitHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input ports.RabbitInput
	if err := decodeJSON(w, r, &input, false); err != nil {
		writeError(w, h.logger, err)
		return
	}

	rabbit, err := h.service.Create(r.Context(), farmIDFrom(r.Context()), input, userIDFrom(r.Context()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusCreated, "Rabbit created successfully", rabbit)
}

func (h *RabbitHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := ports.RabbitFilter{
		Page:    pageFrom(r),
		HutchID: q.Get("hutch_id"),
		Gender:  q.Get("gender"),
	}

	rabbits, err := h.service.GetAll(r.Context(), farmIDFrom(r.Context()), filter)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, "", rabbits)
}

func (h *RabbitHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id", "rabbit")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	rabbit, err := h.service.GetByID(r.Context(), id, farmIDFrom(r.Context()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, "", rabbit)
}

func (h *RabbitHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id", "rabbit")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var input ports.RabbitInput
	if err := decodeJSON(w, r, &input, false); err != nil {
		writeError(w, h.logger, err)
		return
	}

	rabbit, err := h.service.Update(r.Context(), id, farmIDFrom(r.Context()), input, userIDFrom(r.Context()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, "Rabbit updated successfully", rabbit)
}

// Delete removes the rabbit from the farm. The body is optional:
// {"reason": "sold", "notes": "..."}.
func (h *RabbitHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id", "rabbit")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var input ports.RemovalInput
	if err := decodeJSON(w, r, &input, true); err != nil {
		writeError(w, h.logger, err)
		return
	}

	rabbit, err := h.service.Delete(r.Context(), id, farmIDFrom(r.Context()), input, userIDFrom(r.Context()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, "Rabbit removed successfully", rabbit)
}
