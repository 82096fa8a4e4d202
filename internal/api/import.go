package api

import (
	"io"
	"net/http"

	"github.com/dalvah/planease/internal/importer"
	"github.com/dalvah/planease/internal/sse"
)

// Import handles POST /api/import: parses a JSON or CSV schedule payload and
// adds every well-formed record. Records without a title are skipped; the
// response reports how many were actually added.
//
//	@Summary		Import a JSON or CSV schedule
//	@Tags			import
//	@Accept			plain
//	@Produce		json
//	@Param			format		query		string	false	"json or csv (default inferred from filename, else json)"
//	@Param			filename	query		string	false	"Original file name, used to infer the format"
//	@Success		200			{object}	ImportResponse
//	@Failure		400			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/import [post]
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read body"))
		return
	}

	q := r.URL.Query()
	var format importer.Format
	switch q.Get("format") {
	case "csv":
		format = importer.FormatCSV
	case "json":
		format = importer.FormatJSON
	case "":
		format = importer.DetectFormat(q.Get("filename"))
	default:
		writeJSON(w, http.StatusBadRequest, errorBody("unknown format"))
		return
	}

	count, err := importer.Import(h.store, data, format)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid import payload"))
		return
	}
	if count > 0 && h.broker != nil {
		h.broker.Publish(sse.Event{Type: "dashboard.updated", Data: map[string]string{}})
	}
	writeJSON(w, http.StatusOK, ImportResponse{Imported: count})
}
