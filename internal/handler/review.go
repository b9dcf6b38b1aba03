package handler

import (
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/davidrq/friendmap/internal/apperror"
	"github.com/davidrq/friendmap/internal/auth"
	"github.com/davidrq/friendmap/internal/service"
	"github.com/davidrq/friendmap/internal/upload"
)

// ReviewHandler serves the shared review feed.
//
//	GET  /reviews              → full feed + JSON for map markers
//	GET  /reviews/create       → creation form
//	POST /reviews/create       → multipart form insert, 303 back to the feed
//	GET  /reviews/detail/{id}  → one review incl. token issue/expiry times
//
// All routes sit behind auth.RequireUser.
type ReviewHandler struct {
	reviews  *service.ReviewService
	uploader upload.Uploader
	renderer *Renderer
	logger   *slog.Logger
}

// NewReviewHandler creates a ReviewHandler.
func NewReviewHandler(reviews *service.ReviewService, uploader upload.Uploader, renderer *Renderer, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		reviews:  reviews,
		uploader: uploader,
		renderer: renderer,
		logger:   logger,
	}
}

// HandleList renders the whole feed. Every logged-in user sees every review.
func (h *ReviewHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.SessionFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	reviews, err := h.reviews.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	reviewsJSON, err := json.Marshal(reviews)
	if err != nil {
		h.logger.Error("failed to encode reviews", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	h.renderer.Render(w, "reviews.html", map[string]any{
		"Title":       "Reviews",
		"User":        sess.User,
		"Reviews":     reviews,
		"ReviewsJSON": template.JS(reviewsJSON),
	})
}

// HandleCreateForm renders the empty creation form.
func (h *ReviewHandler) HandleCreateForm(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.SessionFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	h.renderer.Render(w, "review_form.html", map[string]any{
		"Title": "New review",
		"User":  sess.User,
	})
}

// HandleCreate inserts a review from the form.
//
// HTTP: POST /reviews/create
// (multipart: establishmentName, address, rating, latitude, longitude, image?)
//
// Besides the user, this needs the token metadata the OAuth callback cached
// in the session, because the review persists the access token and its
// expiry. A session without it (shouldn't happen via the normal flow) is
// forbidden.
func (h *ReviewHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
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
	rating, err := strconv.Atoi(r.FormValue("rating"))
	if err != nil {
		http.Error(w, "rating must be an integer", http.StatusBadRequest)
		return
	}

	in := service.ReviewInput{
		EstablishmentName: r.FormValue("establishmentName"),
		Address:           r.FormValue("address"),
		Latitude:          latitude,
		Longitude:         longitude,
		Rating:            rating,
		ImageURL:          formImageURL(r, h.uploader, h.logger),
	}

	if _, err := h.reviews.Create(r.Context(), sess, in); err != nil {
		writeError(w, err)
		return
	}

	http.Redirect(w, r, "/reviews", http.StatusSeeOther)
}

// HandleDetail renders a single review, including when the author's token
// was issued and when it expires.
//
// HTTP: GET /reviews/detail/{id}
// A missing review is a plain-text 404, not an error page.
func (h *ReviewHandler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.SessionFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	review, err := h.reviews.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if !errors.Is(err, apperror.ErrNotFound) {
			h.logger.Error("review detail failed", slog.String("error", err.Error()))
		}
		writeError(w, err)
		return
	}

	h.renderer.Render(w, "review_detail.html", map[string]any{
		"Title":  review.EstablishmentName,
		"User":   sess.User,
		"Review": review,
	})
}
