package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/rabbitfarm/internal/core/ports"
	"go.uber.org/zap"
)

type BreedingHandler struct {
	service ports.BreedingService
	logger  *zap.Logger
}

func NewBreedingHandler(service ports.BreedingService, logger *zap.Logger) *BreedingHandler {
	return &BreedingHandler{
		service: service,
		logger:  logger,
	}
}

func (h *BreedingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input ports.BreedingInput
	if err := decodeJSON(w, r, &input, false); err != nil {
		writeError(w, h.logger, err)
		return
	}

	record, err := h.service.Create(r.Context(), farmIDFrom(r.Context()), input, userIDFrom(r.Context()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusCreated, "Breeding record created successfully", record)
}

func (h *BreedingHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.GetAll(r.Context(), farmIDFrom(r.Context()), pageFrom(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, "", records)
}

func (h *BreedingHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id", "breeding record")
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

func (h *BreedingHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id", "breeding record")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var input ports.BreedingInput
	if err := decodeJSON(w, r, &input, false); err != nil {
		writeError(w, h.logger, err)
		return
	}

	record, err := h.service.Update(r.Context(), id, farmIDFrom(r.Context()), input, userIDFrom(r.Context()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, "Breeding record updated successfully", record)
}

func (h *BreedingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id", "breeding record")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	record, err := h.service.Delete(r.Context(), id, farmIDFrom(r.Context()), userIDFrom(r.Context()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, "Breeding record deleted successfully", record)
}

func (h *BreedingHandler) AddKits(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id", "breeding record")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var input ports.AddKitsInput
	if err := decodeJSON(w, r, &input, false); err != nil {
		writeError(w, h.logger, err)
		return
	}

	kits, err := h.service.AddKits(r.Context(), id, farmIDFrom(r.Context()), input, userIDFrom(r.Context()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusCreated, "Kits added successfully", kits)
}

func (h *BreedingHandler) GetKits(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id", "breeding record")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	kits, err := h.service.GetKits(r.Context(), id, farmIDFrom(r.Context()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, "", kits)
}

func (h *BreedingHandler) UpdateKit(w http.ResponseWriter, r *http.Request) {
	recordID, kitID, err := kitIDs(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var input ports.KitInput
	if err := decodeJSON(w, r, &input, false); err != nil {
		writeError(w, h.logger, err)
		return
	}

	kit, err := h.service.UpdateKit(r.Context(), kitID, recordID, farmIDFrom(r.Context()), input, userIDFrom(r.Context()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, "Kit updated successfully", kit)
}

func (h *BreedingHandler) DeleteKit(w http.ResponseWriter, r *http.Request) {
	recordID, kitID, err := kitIDs(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	kit, err := h.service.DeleteKit(r.Context(), kitID, recordID, farmIDFrom(r.Context()), userIDFrom(r.Context()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, "Kit deleted successfully", kit)
}

func kitIDs(r *http.Request) (recordID, kitID uuid.UUID, err error) {
	if recordID, err = urlID(r, "id", "breeding record"); err != nil {
		return
	}
	kitID, err = urlID(r, "kitId", "kit")
	return
}
