package handler

import (
	"context"
	"net/http"

	"courseflow/internal/api/v1/dto"
	"courseflow/internal/middleware"
	"courseflow/internal/model"
	"courseflow/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// ReviewHandler handles the publication workflow endpoints
type ReviewHandler struct {
	reviewService service.ReviewService
	validate      *validator.Validate
	logger        zerolog.Logger
}

func NewReviewHandler(reviewService service.ReviewService, validate *validator.Validate, logger zerolog.Logger) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService, validate: validate, logger: logger}
}

// RegisterRoutes mounts author and reviewer workflow routes
func (h *ReviewHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("POST /courses/{courseId}/submit", authMw(http.HandlerFunc(h.submitForReview)))
	mux.Handle("POST /courses/{courseId}/re-edit", authMw(http.HandlerFunc(h.reEdit)))
	mux.Handle("POST /courses/{courseId}/archive", authMw(http.HandlerFunc(h.archive)))
	mux.Handle("POST /courses/{courseId}/review/start", authMw(http.HandlerFunc(h.startReview)))
	mux.Handle("POST /courses/{courseId}/approve", authMw(http.HandlerFunc(h.approve)))
	mux.Handle("POST /courses/{courseId}/reject", authMw(http.HandlerFunc(h.reject)))
	mux.Handle("GET /reviews", authMw(http.HandlerFunc(h.listOpenTasks)))
	mux.Handle("GET /courses/{courseId}/reviews", authMw(http.HandlerFunc(h.getCourseReviews)))
}

type transitionFunc func(ctx context.Context, userID string, courseID int64) (*model.Course, error)

// transition runs a body-less lifecycle action and writes the updated course.
func (h *ReviewHandler) transition(w http.ResponseWriter, r *http.Request, fn transitionFunc) {
	courseID, ok := pathID(w, r, "courseId")
	if !ok {
		return
	}
	c, err := fn(r.Context(), middleware.UserIDFromContext(r.Context()), courseID)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toCourseResponse(*c))
}

// submitForReview godoc
// @Summary Submit a course for review
// @Description Moves a complete draft to reviewing and opens a review task. Incomplete courses are rejected with the list of problems in details.
// @Tags workflow
// @Produce json
// @Param courseId path int true "Course ID"
// @Success 200 {object} dto.CourseResponseDTO
// @Failure 409 {object} dto.ErrorResponseDTO "Invalid transition"
// @Failure 422 {object} dto.ErrorResponseDTO "Incomplete course"
// @Router /courses/{courseId}/submit [post]
func (h *ReviewHandler) submitForReview(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.reviewService.SubmitForReview)
}

// reEdit godoc
// @Summary Reopen a rejected course for editing
// @Tags workflow
// @Produce json
// @Param courseId path int true "Course ID"
// @Success 200 {object} dto.CourseResponseDTO
// @Failure 409 {object} dto.ErrorResponseDTO "Invalid transition"
// @Router /courses/{courseId}/re-edit [post]
func (h *ReviewHandler) reEdit(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.reviewService.ReEdit)
}

// archive godoc
// @Summary Archive a published course
// @Tags workflow
// @Produce json
// @Param courseId path int true "Course ID"
// @Success 200 {object} dto.CourseResponseDTO
// @Failure 409 {object} dto.ErrorResponseDTO "Invalid transition"
// @Router /courses/{courseId}/archive [post]
func (h *ReviewHandler) archive(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.reviewService.Archive)
}

// startReview godoc
// @Summary Claim a course under review
// @Description Assigns the calling reviewer to the open review task.
// @Tags review
// @Produce json
// @Param courseId path int true "Course ID"
// @Success 200 {object} dto.CourseResponseDTO
// @Failure 403 {object} dto.ErrorResponseDTO "Not a reviewer"
// @Router /courses/{courseId}/review/start [post]
func (h *ReviewHandler) startReview(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.reviewService.StartReview)
}

// approve godoc
// @Summary Approve and publish a course
// @Tags review
// @Accept json
// @Produce json
// @Param courseId path int true "Course ID"
// @Param decision body dto.ReviewDecisionDTO false "Optional comment"
// @Success 200 {object} dto.CourseResponseDTO
// @Failure 403 {object} dto.ErrorResponseDTO "Not a reviewer"
// @Failure 409 {object} dto.ErrorResponseDTO "Invalid transition"
// @Router /courses/{courseId}/approve [post]
func (h *ReviewHandler) approve(w http.ResponseWriter, r *http.Request) {
	courseID, ok := pathID(w, r, "courseId")
	if !ok {
		return
	}
	var req dto.ReviewDecisionDTO
	if !decodeOptional(w, r, h.validate, &req) {
		return
	}
	c, err := h.reviewService.Approve(r.Context(), middleware.UserIDFromContext(r.Context()), courseID, req.Comment)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toCourseResponse(*c))
}

// reject godoc
// @Summary Reject a course
// @Description Sends the course back to its author. A non-blank comment is required.
// @Tags review
// @Accept json
// @Produce json
// @Param courseId path int true "Course ID"
// @Param decision body dto.ReviewDecisionDTO true "Rejection reason"
// @Success 200 {object} dto.CourseResponseDTO
// @Failure 409 {object} dto.ErrorResponseDTO "Invalid transition"
// @Failure 422 {object} dto.ErrorResponseDTO "Missing review reason"
// @Router /courses/{courseId}/reject [post]
func (h *ReviewHandler) reject(w http.ResponseWriter, r *http.Request) {
	courseID, ok := pathID(w, r, "courseId")
	if !ok {
		return
	}
	var req dto.ReviewDecisionDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	c, err := h.reviewService.Reject(r.Context(), middleware.UserIDFromContext(r.Context()), courseID, req.Comment)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toCourseResponse(*c))
}

// listOpenTasks godoc
// @Summary List open review tasks
// @Description Lists pending and in-progress review tasks, oldest submission first.
// @Tags review
// @Produce json
// @Param limit query int false "Page size (default 20, max 100)"
// @Param offset query int false "Offset"
// @Success 200 {array} dto.ReviewTaskResponseDTO
// @Failure 403 {object} dto.ErrorResponseDTO "Not a reviewer"
// @Router /reviews [get]
func (h *ReviewHandler) listOpenTasks(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	tasks, err := h.reviewService.ListOpenTasks(r.Context(), middleware.UserIDFromContext(r.Context()), limit, offset)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toReviewTaskResponses(tasks))
}

// getCourseReviews godoc
// @Summary Review history of a course
// @Tags review
// @Produce json
// @Param courseId path int true "Course ID"
// @Success 200 {array} dto.ReviewTaskResponseDTO
// @Router /courses/{courseId}/reviews [get]
func (h *ReviewHandler) getCourseReviews(w http.ResponseWriter, r *http.Request) {
	courseID, ok := pathID(w, r, "courseId")
	if !ok {
		return
	}
	tasks, err := h.reviewService.GetCourseReviews(r.Context(), middleware.UserIDFromContext(r.Context()), courseID)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toReviewTaskResponses(tasks))
}
