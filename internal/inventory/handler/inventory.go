package handler

import (
	"encoding/json"
	"net/http"

	"hotelops/internal/inventory/service"
	apperrors "hotelops/pkg/errors"
	httputil "hotelops/pkg/http"
	"hotelops/pkg/logger"
	"hotelops/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type InventoryHandler struct {
	service service.InventoryService
	log     *logger.Logger
}

func NewInventoryHandler(service service.InventoryService, log *logger.Logger) *InventoryHandler {
	return &InventoryHandler{
		service: service,
		log:     log,
	}
}

func (h *InventoryHandler) Deduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.DeductionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Invalid request body")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Deduct", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	result, err := h.service.DeductRoomInventory(r.Context(), httputil.ActorFromRequest(r), req)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Deduct", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "Deduct", "operation", "WriteSuccess", "error", err)
	}
}

func (h *InventoryHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/inventory/deductions", h.Deduct)
}
