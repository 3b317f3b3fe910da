package handler

import (
	"net/http"

	"hotelops/internal/availability/service"
	httputil "hotelops/pkg/http"
	"hotelops/pkg/logger"
	"hotelops/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type AvailabilityHandler struct {
	service service.AvailabilityService
	log     *logger.Logger
}

func NewAvailabilityHandler(service service.AvailabilityService, log *logger.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		log:     log,
	}
}

// FindAvailable serves GET /api/v1/rooms/available?check_in=&check_out=&guests=
func (h *AvailabilityHandler) FindAvailable(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	checkIn, err := httputil.QueryDate(r, "check_in")
	if err != nil {
		h.writeError(w, err)
		return
	}
	checkOut, err := httputil.QueryDate(r, "check_out")
	if err != nil {
		h.writeError(w, err)
		return
	}
	guests, err := httputil.QueryInt(r, "guests", 1)
	if err != nil {
		h.writeError(w, err)
		return
	}

	rooms, err := h.service.FindAvailableRooms(r.Context(), model.AvailabilityRequest{
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		MinGuests: guests,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, rooms); err != nil {
		h.log.Error("failed to write success response", "handler", "FindAvailable", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AvailabilityHandler) writeError(w http.ResponseWriter, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", "FindAvailable", "operation", "WriteError", "error", writeErr)
	}
}

func (h *AvailabilityHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/rooms/available", h.FindAvailable)
}
