package handler

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/davidrq/friendmap/internal/auth"
	"github.com/davidrq/friendmap/internal/service"
	"github.com/davidrq/friendmap/internal/upload"
)

// MapHandler serves the map page and its event/visit operations.
//
//	GET  /map?targetEmail       → own map (visit log) or a friend's (visit write)
//	POST /visit                 → redirect helper into GET /map
//	POST /events/create         → multipart form: name, latitude, longitude, image?
//	POST /events/delete/{id}    → owner-scoped delete
//
// All routes sit behind auth.RequireUser.
type MapHandler struct {
	maps     *service.MapService
	uploader upload.Uploader
	renderer *Renderer
	logger   *slog.Logger
}

// NewMapHandler creates a MapHandler.
func NewMapHandler(maps *service.MapService, uploader upload.Uploader, renderer *Renderer, logger *slog.Logger) *MapHandler {
	return &MapHandler{
		maps:     maps,
		uploader: uploader,
		renderer: renderer,
		logger:   logger,
	}
}

// HandleMap renders a user's map.
//
// The events go to the template twice: once as structs for the listing and
// once JSON-encoded for the client-side map markers. Keep in mind the side
// effect: serving this page for someone else's map writes a visit row, so a
// GET here is not idempotent.
func (h *MapHandler) HandleMap(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.SessionFromContext(r.Context())
	if !ok {
		// RequireUser already redirects; this is belt and braces.
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	view, err := h.maps.View(r.Context(), &sess.User, r.URL.Query().Get("targetEmail"))
	if err != nil {
		h.logger.Error("map view failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	eventsJSON, err := json.Marshal(view.Events)
	if err != nil {
		h.logger.Error("failed to encode events", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	h.renderer.Render(w, "map.html", map[string]any{
		"Title":      "Map of " + view.OwnerEmail,
		"User":       sess.User,
		"OwnerEmail": view.OwnerEmail,
		"IsOwner":    view.IsOwner,
		"Events":     view.Events,
		"EventsJSON": template.JS(eventsJSON),
		"Visits":     view.Visits,
	})
}

// HandleVisit bounces a "visit a friend" form post into the map view.
//
// HTTP: POST /visit {targetEmail}
//
// Nothing is checked here, not even the session. The redirect target is
// GET /map, which is where authorization and the visit write both happen.
func (h *MapHandler) HandleVisit(w http.ResponseWriter, r *http.Request) {
	target := r.FormValue("targetEmail")
	http.Redirect(w, r,
		"/map?targetEmail="+url.QueryEscape(target),
		http.StatusSeeOther,
	)
}

// HandleCreateEvent creates an event pinned to the caller's map.
//
// HTTP: POST /events/create (multipart: name, latitude, longitude, image?)
// Redirects 303 to /map so a refresh re-fetches instead of resubmitting.
func (h *MapHandler) HandleCreateEvent(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.SessionFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	latitude, err := strconv.ParseFloat(r.FormValue("latitude"), 64)
	if err != nil {
		http.Error(w, "latitude must be a number", http.StatusBadRequest)
		return
	}
	longitude, err := strconv.ParseFloat(r.FormValue("longitude"), 64)
	if err != nil {
		http.Error(w, "longitude must be a number", http.StatusBadRequest)
		return
	}

	imageURL := formImageURL(r, h.uploader, h.logger)

	if _, err := h.maps.CreateEvent(r.Context(), &sess.User, r.FormValue("name"), latitude, longitude, imageURL); err != nil {
		writeError(w, err)
		return
	}

	http.Redirect(w, r, "/map", http.StatusSeeOther)
}

// HandleDeleteEvent deletes one of the caller's events.
//
// HTTP: POST /events/delete/{id}
// Deleting an event that isn't yours (or doesn't exist) is a silent no-op;
// the response is the same redirect either way.
func (h *MapHandler) HandleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.SessionFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if err := h.maps.DeleteEvent(r.Context(), &sess.User, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	http.Redirect(w, r, "/map", http.StatusSeeOther)
}
