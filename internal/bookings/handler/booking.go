package handler

import (
	"fmt"
	"net/http"
	"time"

	"medassist/internal/bookings/service"
	apperrors "medassist/pkg/errors"
	httputil "medassist/pkg/http"
	"medassist/pkg/logger"
	"medassist/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

type AvailabilityResponse struct {
	DepartmentID string    `json:"department_id"`
	BookingTime  time.Time `json:"booking_time"`
	Available    bool      `json:"available"`
}

// Create books a slot through the guarded path and answers 409 when it is taken.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.BookingRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	booking, err := h.service.CheckAndBook(r.Context(), req.DepartmentID, req.UserID, req.BookingTime)
	if err != nil {
		h.log.Warn("guarded booking failed",
			"handler", "Create",
			"department_id", req.DepartmentID,
			"booking_time", req.BookingTime,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, booking)
}

func (h *BookingHandler) Availability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	departmentID, err := httputil.RequiredQuery(r, "department_id")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	timeStr, err := httputil.RequiredQuery(r, "booking_time")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	at, err := time.Parse(time.RFC3339, timeStr)
	if err != nil {
		httputil.WriteError(w, apperrors.InvalidInput(fmt.Sprintf("invalid booking_time format, expected RFC3339: %s", timeStr)))
		return
	}

	available, err := h.service.IsAvailable(r.Context(), departmentID, at)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, AvailabilityResponse{
		DepartmentID: departmentID,
		BookingTime:  at,
		Available:    available,
	})
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings/availability", h.Availability)
}
