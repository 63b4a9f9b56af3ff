package http

import (
	"net/http"

	"github.com/vncsmyrnk/rabbitfarm/internal/core/ports"
	"go.uber.org/zap"
)

type EarningsHandler struct {
	service ports.EarningsService
	logger  *zap.Logger
}

func NewEarningsHandler(service ports.EarningsService, logger *zap.Logger) *EarningsHandler {
	return &EarningsHandler{
		service: service,
		logger:  logger,
	}
}

func (h *EarningsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input ports.EarningsInput
	if err := decodeJSON(w, r, &input, false); err != nil {
		writeError(w, h.logger, err)
		return
	}

	record, err := h.service.Create(r.Context(), farmIDFrom(r.Context()), input, userIDFrom(r.Context()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusCreated, "Earnings record created successfully", record)
}

func (h *EarningsHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := ports.EarningsFilter{
		Page:     pageFrom(r),
		Type:     q.Get("type"),
		DateFrom: q.Get("date_from"),
		DateTo:   q.Get("date_to"),
	}

	records, err := h.service.GetAll(r.Context(), farmIDFrom(r.Context()), filter)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, "", records)
}

func (h *EarningsHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id", "earnings record")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	record, err := h.service.GetByID(r.Context(), id, farmIDFrom(r.Context()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, "", record)
}

func (h *EarningsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id", "earnings record")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var input ports.EarningsInput
	if err := decodeJSON(w, r, &input, false); err != nil {
		writeError(w, h.logger, err)
		return
	}

	record, err := h.service.Update(r.Context(), id, farmIDFrom(r.Context()), input, userIDFrom(r.Context()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, "Earnings record updated successfully", record)
}

func (h *EarningsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id", "earnings record")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	record, err := h.service.Delete(r.Context(), id, farmIDFrom(r.Context()), userIDFrom(r.Context()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, "Earnings record deleted successfully", record)
}
