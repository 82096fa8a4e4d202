package api

import (
	"encoding/json"
	"net/http"

	"github.com/dalvah/planease/internal/models"
)

// GetSettings handles GET /api/settings.
//
//	@Summary		Get user settings
//	@Tags			settings
//	@Produce		json
//	@Success		200	{object}	models.Settings
//	@Security		BearerAuth
//	@Router			/settings [get]
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Settings())
}

// UpdateSettings handles PUT /api/settings. The body is a partial settings
// document: sections absent from the JSON keep their stored values.
//
//	@Summary		Update user settings
//	@Tags			settings
//	@Accept			json
//	@Produce		json
//	@Param			body	body		models.Settings	true	"Settings to change"
//	@Success		200		{object}	models.Settings
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/settings [put]
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	settings := h.store.Settings()
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	h.store.SetSettings(settings)
	h.persist()
	writeJSON(w, http.StatusOK, settings)
}

// GetUser handles GET /api/user.
//
//	@Summary		Get the user profile
//	@Tags			settings
//	@Produce		json
//	@Success		200	{object}	models.User
//	@Security		BearerAuth
//	@Router			/user [get]
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.User())
}

// UpdateUser handles PUT /api/user.
//
//	@Summary		Update the user profile
//	@Tags			settings
//	@Accept			json
//	@Produce		json
//	@Param			body	body		models.User	true	"Profile to save"
//	@Success		200		{object}	models.User
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/user [put]
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	user := h.store.User()
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := user.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	if user.AccountCreated.IsZero() {
		user.AccountCreated = models.DateOf(h.now())
	}
	h.store.SetUser(user)
	h.persist()
	writeJSON(w, http.StatusOK, user)
}
