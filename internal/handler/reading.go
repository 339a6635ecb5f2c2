package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cardiolog/cardiolog-go/internal/model"
	"github.com/cardiolog/cardiolog-go/internal/service"
)

// ReadingHandler handles HTTP requests for blood-pressure readings.
type ReadingHandler struct {
	service *service.ReadingService
}

// NewReadingHandler creates a new ReadingHandler.
func NewReadingHandler(svc *service.ReadingService) *ReadingHandler {
	return &ReadingHandler{service: svc}
}

// HandleCreate handles POST /readings requests.
func (h *ReadingHandler) HandleCreate(w http.ResponseWriter, r *http.Request, id model.Identity) {
	var req model.ReadingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	reading, err := h.service.Add(r.Context(), id, req)
	if err != nil {
		if errors.Is(err, service.ErrReadingFieldsRequired) {
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
			return
		}
		internalError(w, r, "creating reading failed", err)
		return
	}

	writeJSON(w, http.StatusCreated, reading)
}

// HandleListMine handles GET /readings/my requests.
func (h *ReadingHandler) HandleListMine(w http.ResponseWriter, r *http.Request, id model.Identity) {
	readings, err := h.service.List(r.Context(), id)
	if err != nil {
		internalError(w, r, "listing readings failed", err)
		return
	}

	writeJSON(w, http.StatusOK, readings)
}

// HandleStats handles GET /readings/stats requests.
func (h *ReadingHandler) HandleStats(w http.ResponseWriter, r *http.Request, id model.Identity) {
	stats, err := h.service.Stats(r.Context(), id)
	if err != nil {
		internalError(w, r, "computing stats failed", err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// HandleDelete handles DELETE /readings/{id} requests.
func (h *ReadingHandler) HandleDelete(w http.ResponseWriter, r *http.Request, id model.Identity) {
	// An id that cannot exist is reported the same way as someone else's.
	readingID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || readingID <= 0 {
		writeJSON(w, http.StatusNotFound, errorResponse(service.ErrReadingNotFound.Error()))
		return
	}

	deleted, err := h.service.Delete(r.Context(), id, readingID)
	if err != nil {
		if errors.Is(err, service.ErrReadingNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
			return
		}
		internalError(w, r, "deleting reading failed", err)
		return
	}

	writeJSON(w, http.StatusOK, model.DeleteReadingResponse{
		Message: "reading deleted",
		ID:      deleted.ID,
	})
}
