package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"quickshare/internal/common"
	"quickshare/internal/document/model"
	"quickshare/internal/document/service"
	"quickshare/pkg/logger"
)

type DocumentHandler struct {
	Service *service.DocumentService
}

func NewDocumentHandler(service *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{Service: service}
}

// Create handles POST /create.
func (h *DocumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req model.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	shortID, err := h.Service.Publish(r.Context(), req.Content, req.CreatorHash)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.CreateResponse{ShortID: shortID})
}

// View handles GET /doc/{shortID}. Public, no credential.
func (h *DocumentHandler) View(w http.ResponseWriter, r *http.Request) {
	shortID := r.PathValue("shortID")
	if shortID == "" {
		writeError(w, http.StatusBadRequest, "Missing short_id")
		return
	}

	content, err := h.Service.View(r.Context(), shortID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.ContentResponse{Content: content})
}

// FetchForEdit handles POST /get: an authorization-gated read so a wrong
// credential fails before the user starts editing.
func (h *DocumentHandler) FetchForEdit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req model.FetchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ShortID == "" {
		writeError(w, http.StatusBadRequest, "Missing short_id")
		return
	}

	content, err := h.Service.FetchForEdit(r.Context(), req.ShortID, req.CreatorHash)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.ContentResponse{Content: content})
}

// Update handles POST /update.
func (h *DocumentHandler) Update(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req model.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ShortID == "" {
		writeError(w, http.StatusBadRequest, "Missing short_id")
		return
	}

	if err := h.Service.Update(r.Context(), req.ShortID, req.CreatorHash, req.Content); err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.UpdateResponse{Success: true})
}

// writeServiceError maps the error taxonomy to client-visible responses.
// Internal detail is logged, never sent.
func (h *DocumentHandler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrNotFound):
		writeError(w, http.StatusNotFound, "Document not found or expired")
	case errors.Is(err, common.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "Cannot edit: credential does not match")
	default:
		logger.Sugar.Errorf("Internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}
