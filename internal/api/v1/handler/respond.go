package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"courseflow/internal/api/v1/dto"
	"courseflow/internal/course"
	"courseflow/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type errorStatus struct {
	target error
	status int
	code   string
}

// errorStatuses maps domain and service errors to responses. The first
// match wins.
var errorStatuses = []errorStatus{
	{service.ErrNotFound, http.StatusNotFound, "not_found"},
	{service.ErrUserNotFound, http.StatusNotFound, "user_not_found"},
	{service.ErrForbidden, http.StatusForbidden, "forbidden"},
	{service.ErrProfileRequired, http.StatusForbidden, "profile_required"},
	{course.ErrCourseLocked, http.StatusConflict, "course_locked"},
	{course.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
	{service.ErrConcurrentUpdate, http.StatusConflict, "concurrent_update"},
	{course.ErrIncompleteCourse, http.StatusUnprocessableEntity, "incomplete_course"},
	{course.ErrReorderMismatch, http.StatusUnprocessableEntity, "reorder_mismatch"},
	{course.ErrMissingReviewReason, http.StatusUnprocessableEntity, "missing_review_reason"},
	{course.ErrInvalidBindingState, http.StatusUnprocessableEntity, "invalid_binding_state"},
	{course.ErrResourceNotFound, http.StatusUnprocessableEntity, "resource_not_found"},
	{course.ErrInvalidAccessType, http.StatusUnprocessableEntity, "invalid_access_type"},
	{course.ErrInvalidContentType, http.StatusUnprocessableEntity, "invalid_content_type"},
	{course.ErrInvalidPayment, http.StatusUnprocessableEntity, "invalid_payment"},
	{service.ErrInvalidInput, http.StatusUnprocessableEntity, "invalid_input"},
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string, details ...string) {
	writeJSON(w, status, dto.ErrorResponseDTO{Error: code, Message: message, Details: details})
}

// writeServiceError translates err into a JSON error response. Unknown
// errors are logged and reported as 500 without their text.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger zerolog.Logger, err error) {
	for _, es := range errorStatuses {
		if !errors.Is(err, es.target) {
			continue
		}
		var details []string
		var incomplete *course.IncompleteCourseError
		if errors.As(err, &incomplete) {
			details = incomplete.Problems
		}
		writeError(w, es.status, es.code, err.Error(), details...)
		return
	}
	logger.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("Request failed")
	writeError(w, http.StatusInternalServerError, "internal", "internal server error")
}

// decodeAndValidate reads the JSON body into dst and validates it. On
// failure the response is written and false returned.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, validate *validator.Validate, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "malformed_json", "Invalid JSON payload: "+err.Error())
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_failed", "Validation failed: "+err.Error())
		return false
	}
	return true
}

// decodeOptional is decodeAndValidate for bodies that may be absent. An
// empty body leaves dst untouched whatever the Content-Length says.
func decodeOptional(w http.ResponseWriter, r *http.Request, validate *validator.Validate, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "malformed_json", "Invalid JSON payload: "+err.Error())
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_failed", "Validation failed: "+err.Error())
		return false
	}
	return true
}

// pathID parses a positive int64 path parameter, writing a 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_id", "invalid "+name)
		return 0, false
	}
	return id, true
}

// pagination reads limit and offset query parameters with defaults.
func pagination(r *http.Request) (limit, offset int) {
	limit = 20
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 && l <= 100 {
		limit = l
	}
	if o, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && o >= 0 {
		offset = o
	}
	return limit, offset
}
