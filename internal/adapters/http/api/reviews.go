package api

import (
	"net/http"
	"strconv"
	"strings"
)

// ReviewsHandler serves archived project reviews.
type ReviewsHandler struct {
	deps     Dependencies
	maxLimit int
}

// NewReviewsHandler creates a new reviews handler.
func NewReviewsHandler(deps Dependencies, maxLimit int) *ReviewsHandler {
	if maxLimit <= 0 {
		maxLimit = 100
	}
	return &ReviewsHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleTopReviews handles GET /reviews?limit=N requests.
func (h *ReviewsHandler) HandleTopReviews(w http.ResponseWriter, r *http.Request) {
	const op = "api.top_reviews"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	n := defaultReviewLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		v, err := strconv.Atoi(limitStr)
		if err != nil || v < 1 {
			writeError(w, NewKind(op, ErrBadRequest))
			return
		}
		n = v
	}
	if n > h.maxLimit {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Code:    "limit_exceeded",
			Message: "limit must be at most " + strconv.Itoa(h.maxLimit),
		})
		return
	}
	entries, err := h.deps.Reviews(r.Context(), n)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// HandleGetReview handles GET /reviews/{project_id} requests.
func (h *ReviewsHandler) HandleGetReview(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_review"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/reviews/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, NewKind(op, ErrBadRequest))
		return
	}
	entry, err := h.deps.Review(r.Context(), id)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
