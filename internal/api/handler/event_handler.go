package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"event_calendar/internal/app/service"
	"event_calendar/internal/common"
	"event_calendar/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type EventHandler struct {
	eventService *service.EventService
}

func NewEventHandler(eventService *service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

func (h *EventHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listEvents)                // GET /api/events
	r.Get("/stats/summary", h.statsSummary) // GET /api/events/stats/summary
	r.Get("/{eventID}", h.getEvent)         // GET /api/events/42
	r.Post("/", h.createEvent)
	r.Put("/{eventID}", h.updateEvent)
	r.Delete("/{eventID}", h.deleteEvent)
}

func (h *EventHandler) listEvents(w http.ResponseWriter, r *http.Request) {
	req := service.ListEventsRequest{
		Page:     service.DefaultPage,
		Limit:    service.DefaultLimit,
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("search"),
	}

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil {
			common.RespondWithError(w, http.StatusBadRequest, "page must be an integer")
			return
		}
		req.Page = page
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			common.RespondWithError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		req.Limit = limit
	}

	resp, err := h.eventService.List(r.Context(), req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *EventHandler) getEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := eventIDFromURL(w, r)
	if !ok {
		return
	}

	event, err := h.eventService.Get(r.Context(), id)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, event)
}

func (h *EventHandler) createEvent(w http.ResponseWriter, r *http.Request) {
	var req service.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	event, err := h.eventService.Create(r.Context(), req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, event)
}

func (h *EventHandler) updateEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := eventIDFromURL(w, r)
	if !ok {
		return
	}

	var patch model.EventPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	event, err := h.eventService.Update(r.Context(), id, patch)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, event)
}

func (h *EventHandler) deleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := eventIDFromURL(w, r)
	if !ok {
		return
	}

	event, err := h.eventService.Delete(r.Context(), id)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, event)
}

func (h *EventHandler) statsSummary(w http.ResponseWriter, r *http.Request) {
	stats, err := h.eventService.Stats(r.Context())
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, stats)
}

func eventIDFromURL(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "eventID"))
	if err != nil || id < 1 {
		common.RespondWithError(w, http.StatusBadRequest, "event id must be a positive integer")
		return 0, false
	}
	return id, true
}
