package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(h *Handler, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Items CRUD and bulk semester expansion.
	r.Get("/items", h.ListItems)
	r.Post("/items", h.CreateItem)
	r.Post("/items/bulk", h.BulkCreateItems)
	r.Get("/items/{id}", h.GetItem)
	r.Put("/items/{id}", h.UpdateItem)
	r.Delete("/items/{id}", h.DeleteItem)
	r.Post("/items/{id}/toggle", h.ToggleItem)

	// Derived views.
	r.Get("/queries/today", h.TodayEvents)
	r.Get("/queries/upcoming-tasks", h.UpcomingTasks)
	r.Get("/queries/upcoming-events", h.UpcomingEvents)
	r.Get("/queries/current", h.CurrentEvent)
	r.Get("/queries/dashboard", h.Dashboard)
	r.Get("/conflicts", h.Conflicts)

	// Alarms.
	r.Get("/alarms", h.ListAlarms)
	r.Post("/alarms", h.CreateAlarm)
	r.Get("/alarms/firing", h.FiringAlarm)
	r.Put("/alarms/{id}", h.UpdateAlarm)
	r.Delete("/alarms/{id}", h.DeleteAlarm)
	r.Post("/alarms/{id}/toggle", h.ToggleAlarm)
	r.Post("/alarms/{id}/snooze", h.SnoozeAlarm)
	r.Post("/alarms/{id}/dismiss", h.DismissAlarm)

	// Settings and profile.
	r.Get("/settings", h.GetSettings)
	r.Put("/settings", h.UpdateSettings)
	r.Get("/user", h.GetUser)
	r.Put("/user", h.UpdateUser)

	// Schedule import.
	r.Post("/import", h.Import)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
