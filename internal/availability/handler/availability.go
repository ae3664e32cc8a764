package handler

import (
	"net/http"
	"time"

	"medassist/internal/availability/digest"
	"medassist/internal/availability/service"
	httputil "medassist/pkg/http"
	"medassist/pkg/logger"
	"medassist/pkg/model"
	"medassist/pkg/sanitizer"

	"github.com/julienschmidt/httprouter"
)

type AvailabilityHandler struct {
	service service.AvailabilityService
	now     func() time.Time
	log     *logger.Logger
}

func NewAvailabilityHandler(service service.AvailabilityService, now func() time.Time, log *logger.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		now:     now,
		log:     log,
	}
}

type DigestResponse struct {
	Departments model.AvailabilityDigest `json:"departments"`
	Text        string                   `json:"text"`
}

type DaySlotsResponse struct {
	Department string   `json:"department"`
	Day        string   `json:"day"`
	Slots      []string `json:"slots"`
}

func (h *AvailabilityHandler) Departments(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	names, err := h.service.Departments(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, names)
}

func (h *AvailabilityHandler) Days(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	days, err := h.service.AvailableDays(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, days)
}

func (h *AvailabilityHandler) Digest(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	d, err := h.service.Digest(r.Context(), h.now())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, DigestResponse{Departments: d, Text: digest.Format(d)})
}

func (h *AvailabilityHandler) Booked(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	booked, err := h.service.BookedSlotsByDepartment(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, booked)
}

func (h *AvailabilityHandler) DaySlots(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	department := sanitizer.NormalizeName(ps.ByName("department"))
	day := ps.ByName("day")

	slots, err := h.service.DaySlots(r.Context(), department, day, h.now())
	if err != nil {
		h.log.Warn("failed to compute day slots", "handler", "DaySlots", "department", department, "day", day, "error", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, DaySlotsResponse{Department: department, Day: day, Slots: slots})
}

func (h *AvailabilityHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/availability/departments", h.Departments)
	router.GET("/api/v1/availability/departments/:department/days/:day", h.DaySlots)
	router.GET("/api/v1/availability/days", h.Days)
	router.GET("/api/v1/availability/digest", h.Digest)
	router.GET("/api/v1/availability/booked", h.Booked)
}
