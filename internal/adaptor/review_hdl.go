package adaptor

import (
	"net/http"

	"movie-theater/internal/dto/request"
	"movie-theater/internal/usecase"
	"movie-theater/pkg/middleware"
	"movie-theater/pkg/utils"

	"go.uber.org/zap"
)

type ReviewHandler struct {
	service usecase.ReviewService
	log     *zap.Logger
}

func NewReviewHandler(service usecase.ReviewService, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		log:     log.With(zap.String("handler", "review")),
	}
}

// MovieReviews handles GET /api/movies/{id}/reviews
func (h *ReviewHandler) MovieReviews(w http.ResponseWriter, r *http.Request) {
	movieID, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	reviews, err := h.service.MovieReviews(r.Context(), movieID, pageFromQuery(r, defaultPerPage))
	if err != nil {
		respondError(w, h.log, err, "movie reviews")
		return
	}

	utils.ResponseSuccess(w, "success", reviews)
}

// UpsertReview handles POST /api/movies/{id}/reviews. A second submission
// for the same movie edits the existing review.
func (h *ReviewHandler) UpsertReview(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	movieID, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var req request.ReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	settings := middleware.SettingsFromContext(r.Context())
	review, err := h.service.UpsertReview(r.Context(), actor, movieID, &req, settings)
	if err != nil {
		respondError(w, h.log, err, "upsert review")
		return
	}

	message := "Review saved"
	if !review.IsApproved {
		message = "Review submitted and awaiting approval"
	}
	utils.ResponseSuccess(w, message, review)
}

// MyReviews handles GET /api/reviews
func (h *ReviewHandler) MyReviews(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	reviews, err := h.service.MyReviews(r.Context(), actor, pageFromQuery(r, defaultPerPage))
	if err != nil {
		respondError(w, h.log, err, "my reviews")
		return
	}

	utils.ResponseSuccess(w, "success", reviews)
}

// DeleteOwnReview handles DELETE /api/reviews/{id}
func (h *ReviewHandler) DeleteOwnReview(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteOwnReview(r.Context(), actor, id); err != nil {
		respondError(w, h.log, err, "delete own review")
		return
	}

	utils.ResponseSuccess(w, "Review deleted", nil)
}

// ==================== ADMIN METHODS ====================

// ListReviews handles GET /api/admin/reviews?approved=
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	approved, ok := boolQuery(r, "approved")
	if !ok {
		utils.ResponseBadRequest(w, "approved must be true or false", nil)
		return
	}

	reviews, err := h.service.ListReviews(r.Context(), actor, approved, pageFromQuery(r, 20))
	if err != nil {
		respondError(w, h.log, err, "list reviews")
		return
	}

	utils.ResponseSuccess(w, "success", reviews)
}

// ApproveReview handles POST /api/admin/reviews/{id}/approve
func (h *ReviewHandler) ApproveReview(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	review, err := h.service.ApproveReview(r.Context(), actor, id)
	if err != nil {
		respondError(w, h.log, err, "approve review")
		return
	}

	utils.ResponseSuccess(w, "Review approved", review)
}

// RejectReview handles POST /api/admin/reviews/{id}/reject
func (h *ReviewHandler) RejectReview(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	review, err := h.service.RejectReview(r.Context(), actor, id)
	if err != nil {
		respondError(w, h.log, err, "reject review")
		return
	}

	utils.ResponseSuccess(w, "Review rejected", review)
}

// DeleteReview handles DELETE /api/admin/reviews/{id}
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteReview(r.Context(), actor, id); err != nil {
		respondError(w, h.log, err, "delete review")
		return
	}

	utils.ResponseSuccess(w, "Review deleted", nil)
}
