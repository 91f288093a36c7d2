package handler

import (
	"net/http"

	"courseflow/internal/api/v1/dto"
	"courseflow/internal/middleware"
	"courseflow/internal/model"
	"courseflow/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// CourseHandler handles course-related endpoints
type CourseHandler struct {
	courseService service.CourseService
	validate      *validator.Validate
	logger        zerolog.Logger
}

// NewCourseHandler creates a new CourseHandler
func NewCourseHandler(courseService service.CourseService, validate *validator.Validate, logger zerolog.Logger) *CourseHandler {
	return &CourseHandler{courseService: courseService, validate: validate, logger: logger}
}

// RegisterRoutes mounts course routes
func (h *CourseHandler) RegisterRoutes(mux *http.ServeMux, authMw, optionalAuthMw func(http.Handler) http.Handler) {
	mux.Handle("POST /courses", authMw(http.HandlerFunc(h.createCourse)))
	mux.Handle("GET /courses", authMw(http.HandlerFunc(h.listMyCourses)))
	mux.Handle("GET /courses/{courseId}", optionalAuthMw(http.HandlerFunc(h.getCourse)))
	mux.Handle("PUT /courses/{courseId}", authMw(http.HandlerFunc(h.updateCourse)))
	mux.Handle("POST /courses/{courseId}/cover", authMw(http.HandlerFunc(h.requestCoverUpload)))
	mux.Handle("PUT /courses/{courseId}/cover", authMw(http.HandlerFunc(h.confirmCoverUpload)))
	mux.Handle("GET /catalog", optionalAuthMw(http.HandlerFunc(h.listCatalog)))
}

func optionalString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// createCourse godoc
// @Summary Create a new course
// @Description Creates a draft course owned by the authenticated user. The caller needs a user profile.
// @Tags courses
// @Accept json
// @Produce json
// @Param course body dto.CourseCreateDTO true "Course creation request"
// @Success 201 {object} dto.CourseResponseDTO
// @Failure 400 {object} dto.ErrorResponseDTO "Invalid JSON payload"
// @Failure 401 {string} string "Unauthorized"
// @Failure 403 {object} dto.ErrorResponseDTO "User profile required"
// @Failure 422 {object} dto.ErrorResponseDTO "Validation failed or invalid payment"
// @Router /courses [post]
func (h *CourseHandler) createCourse(w http.ResponseWriter, r *http.Request) {
	var req dto.CourseCreateDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	c := &model.Course{
		Title:         req.Title,
		Description:   optionalString(req.Description),
		PaymentType:   model.PaymentType(req.PaymentType),
		PriceCents:    req.PriceCents,
		InstitutionID: req.InstitutionID,
	}
	created, err := h.courseService.CreateCourse(r.Context(), middleware.UserIDFromContext(r.Context()), c)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCourseResponse(*created))
}

// listMyCourses godoc
// @Summary List own courses
// @Description Lists every course authored by the authenticated user, in any status.
// @Tags courses
// @Produce json
// @Success 200 {array} dto.CourseResponseDTO
// @Failure 401 {string} string "Unauthorized"
// @Router /courses [get]
func (h *CourseHandler) listMyCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.courseService.ListMyCourses(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toCourseResponses(courses))
}

// listCatalog godoc
// @Summary List published courses
// @Tags catalog
// @Produce json
// @Param limit query int false "Page size (default 20, max 100)"
// @Param offset query int false "Offset"
// @Success 200 {array} dto.CourseResponseDTO
// @Router /catalog [get]
func (h *CourseHandler) listCatalog(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	courses, err := h.courseService.ListCatalog(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toCourseResponses(courses))
}

// getCourse godoc
// @Summary Get a course
// @Description Returns a course to its author, to reviewers, and to anyone once it is published.
// @Tags courses
// @Produce json
// @Param courseId path int true "Course ID"
// @Success 200 {object} dto.CourseResponseDTO
// @Failure 400 {object} dto.ErrorResponseDTO "Invalid course id"
// @Failure 404 {object} dto.ErrorResponseDTO "Course not found"
// @Router /courses/{courseId} [get]
func (h *CourseHandler) getCourse(w http.ResponseWriter, r *http.Request) {
	courseID, ok := pathID(w, r, "courseId")
	if !ok {
		return
	}
	c, err := h.courseService.GetCourse(r.Context(), middleware.UserIDFromContext(r.Context()), courseID)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toCourseResponse(*c))
}

// updateCourse godoc
// @Summary Update course metadata
// @Description Replaces title, description and pricing. Only allowed in draft or rejected.
// @Tags courses
// @Accept json
// @Produce json
// @Param courseId path int true "Course ID"
// @Param course body dto.CourseUpdateDTO true "Course update request"
// @Success 200 {object} dto.CourseResponseDTO
// @Failure 403 {object} dto.ErrorResponseDTO "Not the course author"
// @Failure 404 {object} dto.ErrorResponseDTO "Course not found"
// @Failure 409 {object} dto.ErrorResponseDTO "Course locked"
// @Failure 422 {object} dto.ErrorResponseDTO "Validation failed"
// @Router /courses/{courseId} [put]
func (h *CourseHandler) updateCourse(w http.ResponseWriter, r *http.Request) {
	courseID, ok := pathID(w, r, "courseId")
	if !ok {
		return
	}
	var req dto.CourseUpdateDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	c := &model.Course{
		ID:            courseID,
		Title:         req.Title,
		Description:   optionalString(req.Description),
		PaymentType:   model.PaymentType(req.PaymentType),
		PriceCents:    req.PriceCents,
		InstitutionID: req.InstitutionID,
	}
	updated, err := h.courseService.UpdateCourse(r.Context(), middleware.UserIDFromContext(r.Context()), c)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toCourseResponse(*updated))
}

// requestCoverUpload godoc
// @Summary Request a cover upload URL
// @Description Returns a presigned PUT URL for a new cover image. Confirm the upload afterwards.
// @Tags courses
// @Accept json
// @Produce json
// @Param courseId path int true "Course ID"
// @Param request body dto.CoverUploadRequestDTO true "Cover content type"
// @Success 201 {object} dto.CoverUploadResponseDTO
// @Failure 409 {object} dto.ErrorResponseDTO "Course locked"
// @Router /courses/{courseId}/cover [post]
func (h *CourseHandler) requestCoverUpload(w http.ResponseWriter, r *http.Request) {
	courseID, ok := pathID(w, r, "courseId")
	if !ok {
		return
	}
	var req dto.CoverUploadRequestDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	upload, err := h.courseService.RequestCoverUpload(r.Context(), middleware.UserIDFromContext(r.Context()), courseID, req.ContentType)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.CoverUploadResponseDTO{
		ObjectKey: upload.ObjectKey,
		UploadURL: upload.UploadURL,
		ExpiresAt: upload.ExpiresAt,
	})
}

// confirmCoverUpload godoc
// @Summary Confirm a cover upload
// @Description Sets the course cover to an object uploaded through a presigned URL.
// @Tags courses
// @Accept json
// @Produce json
// @Param courseId path int true "Course ID"
// @Param request body dto.CoverConfirmDTO true "Uploaded object key"
// @Success 200 {object} dto.CourseResponseDTO
// @Failure 422 {object} dto.ErrorResponseDTO "Object missing or not owned by this course"
// @Router /courses/{courseId}/cover [put]
func (h *CourseHandler) confirmCoverUpload(w http.ResponseWriter, r *http.Request) {
	courseID, ok := pathID(w, r, "courseId")
	if !ok {
		return
	}
	var req dto.CoverConfirmDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	updated, err := h.courseService.ConfirmCoverUpload(r.Context(), middleware.UserIDFromContext(r.Context()), courseID, req.ObjectKey)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toCourseResponse(*updated))
}
