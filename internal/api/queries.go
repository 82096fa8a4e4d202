package api

import (
	"net/http"
	"strconv"

	"github.com/dalvah/planease/internal/models"
	"github.com/dalvah/planease/internal/planner"
)

func daysParam(r *http.Request, fallback int) int {
	d, err := strconv.Atoi(r.URL.Query().Get("days"))
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

// TodayEvents handles GET /api/queries/today.
//
//	@Summary		List events starting today
//	@Tags			queries
//	@Produce		json
//	@Success		200	{object}	ItemListResponse
//	@Security		BearerAuth
//	@Router			/queries/today [get]
func (h *Handler) TodayEvents(w http.ResponseWriter, r *http.Request) {
	events := planner.TodayEvents(h.store.Items(), h.now())
	writeJSON(w, http.StatusOK, ItemListResponse{Items: events, Total: len(events)})
}

// UpcomingTasks handles GET /api/queries/upcoming-tasks.
//
//	@Summary		List incomplete tasks due within a day window
//	@Tags			queries
//	@Produce		json
//	@Param			days	query		int	false	"Window in days (default 7)"
//	@Success		200		{object}	ItemListResponse
//	@Security		BearerAuth
//	@Router			/queries/upcoming-tasks [get]
func (h *Handler) UpcomingTasks(w http.ResponseWriter, r *http.Request) {
	tasks := planner.UpcomingTasks(h.store.Items(), h.now(), daysParam(r, 7))
	writeJSON(w, http.StatusOK, ItemListResponse{Items: tasks, Total: len(tasks)})
}

// UpcomingEvents handles GET /api/queries/upcoming-events.
//
//	@Summary		List upcoming events with day offsets and display badges
//	@Tags			queries
//	@Produce		json
//	@Param			days	query		int	false	"Window in days (default 7)"
//	@Success		200		{object}	map[string]any
//	@Security		BearerAuth
//	@Router			/queries/upcoming-events [get]
func (h *Handler) UpcomingEvents(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	upcoming := planner.UpcomingEvents(h.store.Items(), now, daysParam(r, 7))
	events := make([]UpcomingEvent, 0, len(upcoming))
	for _, u := range upcoming {
		events = append(events, UpcomingEvent{
			UpcomingItem: u,
			Badge:        planner.BadgeFor(u.Item, now),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"events": events,
		"total":  len(events),
	})
}

// CurrentEvent handles GET /api/queries/current.
//
//	@Summary		Report the event in progress right now, if any
//	@Tags			queries
//	@Produce		json
//	@Success		200	{object}	CurrentEventResponse
//	@Security		BearerAuth
//	@Router			/queries/current [get]
func (h *Handler) CurrentEvent(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	resp := CurrentEventResponse{}
	if event, ok := planner.CurrentEvent(h.store.Items(), now); ok {
		resp.Event = &event
		resp.CountdownSeconds = int(planner.CountdownTo(event.EndTime, now).Seconds())
	}
	writeJSON(w, http.StatusOK, resp)
}

// Dashboard handles GET /api/queries/dashboard: the home-screen aggregate of
// greeting, current event with countdown, next upcoming event, and counts.
//
//	@Summary		Home-screen aggregate view
//	@Tags			queries
//	@Produce		json
//	@Success		200	{object}	DashboardResponse
//	@Security		BearerAuth
//	@Router			/queries/dashboard [get]
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	items := h.store.Items()

	resp := DashboardResponse{
		Greeting:   planner.Greeting(now),
		Date:       now.Format("Monday, 2 January 2006"),
		TodayCount: len(planner.TodayEvents(items, now)),
		TaskCount:  len(planner.UpcomingTasks(items, now, 7)),
	}
	if event, ok := planner.CurrentEvent(items, now); ok {
		resp.CurrentEvent = &event
		resp.CountdownSeconds = int(planner.CountdownTo(event.EndTime, now).Seconds())
	}
	for _, u := range planner.UpcomingEvents(items, now, 365) {
		// The next event is the first upcoming one that is not the event
		// currently in progress.
		if resp.CurrentEvent != nil && u.ID == resp.CurrentEvent.ID {
			continue
		}
		next := UpcomingEvent{UpcomingItem: u, Badge: planner.BadgeFor(u.Item, now)}
		resp.NextEvent = &next
		break
	}
	writeJSON(w, http.StatusOK, resp)
}

// Conflicts handles GET /api/conflicts.
//
//	@Summary		List advisory schedule conflicts
//	@Tags			queries
//	@Produce		json
//	@Success		200	{object}	map[string]any
//	@Security		BearerAuth
//	@Router			/conflicts [get]
func (h *Handler) Conflicts(w http.ResponseWriter, r *http.Request) {
	conflicts := h.store.Conflicts()
	if conflicts == nil {
		conflicts = []models.Conflict{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"conflicts": conflicts,
		"total":     len(conflicts),
	})
}
