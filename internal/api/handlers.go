package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dalvah/planease/internal/alarm"
	"github.com/dalvah/planease/internal/apperr"
	"github.com/dalvah/planease/internal/expand"
	"github.com/dalvah/planease/internal/models"
	"github.com/dalvah/planease/internal/planner"
	"github.com/dalvah/planease/internal/sse"
)

// Deps collects the collaborators the API handlers need.
type Deps struct {
	Store     *planner.Store
	Scheduler *alarm.Scheduler
	Broker    *sse.Broker

	// Clock supplies "now" for all query endpoints; nil means wall clock.
	Clock alarm.Clock

	// MaxBulkEvents caps one semester expansion; zero means the default.
	MaxBulkEvents int

	// SaveState, if set, is invoked after every mutation of persisted state
	// (alarms, settings, user profile). Failures are logged, never surfaced.
	SaveState func() error
}

// Handler holds API route handlers.
type Handler struct {
	store   *planner.Store
	sched   *alarm.Scheduler
	broker  *sse.Broker
	clock   alarm.Clock
	maxBulk int
	save    func() error
}

// NewHandler creates a new Handler.
func NewHandler(d Deps) *Handler {
	if d.Clock == nil {
		d.Clock = alarm.SystemClock()
	}
	if d.MaxBulkEvents <= 0 {
		d.MaxBulkEvents = expand.DefaultMaxEvents
	}
	return &Handler{
		store:   d.Store,
		sched:   d.Scheduler,
		broker:  d.Broker,
		clock:   d.Clock,
		maxBulk: d.MaxBulkEvents,
		save:    d.SaveState,
	}
}

func (h *Handler) now() time.Time {
	return h.clock.Now()
}

// persist writes the durable state slice out, best effort.
func (h *Handler) persist() {
	if h.save == nil {
		return
	}
	if err := h.save(); err != nil {
		slog.Warn("state save failed", slog.String("error", err.Error()))
	}
}

func (h *Handler) publishItem(kind string, id int64) {
	if h.broker != nil {
		h.broker.PublishItemEvent(kind, id)
	}
}

// urlID extracts the numeric {id} route parameter.
func urlID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// ListItems handles GET /api/items.
//
//	@Summary		List items with optional view filtering
//	@Tags			items
//	@Produce		json
//	@Param			filter	query		string	false	"View selector, e.g. missed-tasks"
//	@Success		200		{object}	ItemListResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/items [get]
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	filter, err := planner.ParseFilter(r.URL.Query().Get("filter"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("unknown filter"))
		return
	}
	items := planner.FilterItems(h.store.Items(), filter, h.now())
	planner.SortItems(items)
	writeJSON(w, http.StatusOK, ItemListResponse{Items: items, Total: len(items)})
}

// GetItem handles GET /api/items/{id}.
//
//	@Summary		Get a single item
//	@Tags			items
//	@Produce		json
//	@Param			id	path		int	true	"Item id"
//	@Success		200	{object}	models.Item
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/items/{id} [get]
func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid id"))
		return
	}
	item, err := h.store.Item(id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// CreateItem handles POST /api/items.
//
//	@Summary		Create an event or task
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			body	body		models.Item	true	"Item to create"
//	@Success		201		{object}	models.Item
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/items [post]
func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var item models.Item
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	created, err := h.store.AddItem(item)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	h.publishItem("created", created.ID)
	writeJSON(w, http.StatusCreated, created)
}

// UpdateItem handles PUT /api/items/{id}. The body is a partial item:
// fields absent from the JSON keep their stored values.
//
//	@Summary		Update an item
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int			true	"Item id"
//	@Param			body	body		models.Item	true	"Fields to change"
//	@Success		200		{object}	models.Item
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/items/{id} [put]
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	id, err := urlID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid id"))
		return
	}
	existing, err := h.store.Item(id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	// Decode over the stored item so omitted fields survive.
	patch := existing
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	updated, err := h.store.UpdateItem(id, patch)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		case errors.Is(err, apperr.ErrInvalid):
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		default:
			slog.Error("update item failed", slog.Int64("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	h.publishItem("updated", id)
	writeJSON(w, http.StatusOK, updated)
}

// DeleteItem handles DELETE /api/items/{id}.
//
//	@Summary		Delete an item
//	@Tags			items
//	@Param			id	path	int	true	"Item id"
//	@Success		204	"Item deleted"
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/items/{id} [delete]
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid id"))
		return
	}
	if err := h.store.DeleteItem(id); err != nil {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	h.publishItem("deleted", id)
	w.WriteHeader(http.StatusNoContent)
}

// ToggleItem handles POST /api/items/{id}/toggle.
//
//	@Summary		Toggle an item's completed flag
//	@Tags			items
//	@Produce		json
//	@Param			id	path		int	true	"Item id"
//	@Success		200	{object}	models.Item
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/items/{id}/toggle [post]
func (h *Handler) ToggleItem(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid id"))
		return
	}
	item, err := h.store.ToggleComplete(id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	h.publishItem("updated", id)
	writeJSON(w, http.StatusOK, item)
}

// BulkCreateItems handles POST /api/items/bulk: expands a semester template
// into concrete events and stores them.
//
//	@Summary		Bulk-create semester events from a weekly template
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			body	body		BulkCreateRequest	true	"Semester template"
//	@Success		201		{object}	expand.Result
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/items/bulk [post]
func (h *Handler) BulkCreateItems(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req BulkCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	cfg, err := req.toConfig(h.maxBulk)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	items, res, err := expand.Expand(cfg)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	for _, item := range items {
		if _, err := h.store.AddItem(item); err != nil {
			slog.Error("bulk add failed", slog.String("title", item.Title), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
			return
		}
	}
	if h.broker != nil {
		h.broker.Publish(sse.Event{Type: "dashboard.updated", Data: map[string]string{}})
	}
	writeJSON(w, http.StatusCreated, res)
}
