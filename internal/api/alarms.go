package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dalvah/planease/internal/apperr"
	"github.com/dalvah/planease/internal/models"
)

// ListAlarms handles GET /api/alarms.
//
//	@Summary		List alarms
//	@Tags			alarms
//	@Produce		json
//	@Success		200	{object}	map[string]any
//	@Security		BearerAuth
//	@Router			/alarms [get]
func (h *Handler) ListAlarms(w http.ResponseWriter, r *http.Request) {
	alarms := h.store.Alarms()
	if alarms == nil {
		alarms = []models.Alarm{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"alarms": alarms,
		"total":  len(alarms),
	})
}

// CreateAlarm handles POST /api/alarms.
//
//	@Summary		Create an alarm
//	@Tags			alarms
//	@Accept			json
//	@Produce		json
//	@Param			body	body		models.Alarm	true	"Alarm to create"
//	@Success		201		{object}	models.Alarm
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/alarms [post]
func (h *Handler) CreateAlarm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var alarm models.Alarm
	if err := json.NewDecoder(r.Body).Decode(&alarm); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	created, err := h.store.AddAlarm(alarm, h.now())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	h.persist()
	writeJSON(w, http.StatusCreated, created)
}

// UpdateAlarm handles PUT /api/alarms/{id}. The body is a partial alarm:
// fields absent from the JSON keep their stored values.
//
//	@Summary		Update an alarm
//	@Tags			alarms
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int				true	"Alarm id"
//	@Param			body	body		models.Alarm	true	"Fields to change"
//	@Success		200		{object}	models.Alarm
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/alarms/{id} [put]
func (h *Handler) UpdateAlarm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	id, err := urlID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid id"))
		return
	}
	existing, err := h.store.Alarm(id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	patch := existing
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	updated, err := h.store.UpdateAlarm(id, patch)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalid) {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		} else {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		}
		return
	}
	h.persist()
	writeJSON(w, http.StatusOK, updated)
}

// DeleteAlarm handles DELETE /api/alarms/{id}.
//
//	@Summary		Delete an alarm
//	@Tags			alarms
//	@Param			id	path	int	true	"Alarm id"
//	@Success		204	"Alarm deleted"
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/alarms/{id} [delete]
func (h *Handler) DeleteAlarm(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid id"))
		return
	}
	if err := h.store.DeleteAlarm(id); err != nil {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	h.persist()
	w.WriteHeader(http.StatusNoContent)
}

// ToggleAlarm handles POST /api/alarms/{id}/toggle.
//
//	@Summary		Toggle an alarm's enabled flag
//	@Tags			alarms
//	@Produce		json
//	@Param			id	path		int	true	"Alarm id"
//	@Success		200	{object}	models.Alarm
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/alarms/{id}/toggle [post]
func (h *Handler) ToggleAlarm(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid id"))
		return
	}
	alarm, err := h.store.ToggleAlarm(id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	h.persist()
	writeJSON(w, http.StatusOK, alarm)
}

// SnoozeAlarm handles POST /api/alarms/{id}/snooze: silences the alarm and
// schedules a one-shot re-fire. Re-snoozing replaces the pending deadline.
//
//	@Summary		Snooze a firing alarm
//	@Tags			alarms
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int				true	"Alarm id"
//	@Param			body	body		SnoozeRequest	true	"Snooze duration"
//	@Success		200		{object}	map[string]string
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/alarms/{id}/snooze [post]
func (h *Handler) SnoozeAlarm(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid id"))
		return
	}
	if _, err := h.store.Alarm(id); err != nil {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	var req SnoozeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Minutes <= 0 {
		req.Minutes = 5
	}
	if h.sched != nil {
		h.sched.Snooze(id, req.Minutes)
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "snoozed"})
}

// DismissAlarm handles POST /api/alarms/{id}/dismiss: stops sound and
// vibration and clears the firing state. The alarm stays scheduled for its
// next daily occurrence.
//
//	@Summary		Dismiss the firing alarm
//	@Tags			alarms
//	@Produce		json
//	@Param			id	path		int	true	"Alarm id"
//	@Success		200	{object}	map[string]string
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/alarms/{id}/dismiss [post]
func (h *Handler) DismissAlarm(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid id"))
		return
	}
	if _, err := h.store.Alarm(id); err != nil {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	if h.sched != nil {
		h.sched.Dismiss()
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "dismissed"})
}

// FiringAlarm handles GET /api/alarms/firing.
//
//	@Summary		Report the currently firing alarm, if any
//	@Tags			alarms
//	@Produce		json
//	@Success		200	{object}	map[string]any
//	@Security		BearerAuth
//	@Router			/alarms/firing [get]
func (h *Handler) FiringAlarm(w http.ResponseWriter, r *http.Request) {
	var firing *models.Alarm
	if h.sched != nil {
		if a, ok := h.sched.Firing(); ok {
			firing = &a
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"alarm": firing})
}
