package handler

import (
	"net/http"

	"courseflow/internal/middleware"
	"courseflow/internal/service"

	"github.com/rs/zerolog"
)

// ContentHandler serves the learner view of a course
type ContentHandler struct {
	contentService service.ContentService
	logger         zerolog.Logger
}

func NewContentHandler(contentService service.ContentService, logger zerolog.Logger) *ContentHandler {
	return &ContentHandler{contentService: contentService, logger: logger}
}

func (h *ContentHandler) RegisterRoutes(mux *http.ServeMux, optionalAuthMw func(http.Handler) http.Handler) {
	mux.Handle("GET /courses/{courseId}/content", optionalAuthMw(http.HandlerFunc(h.getContent)))
}

// getContent godoc
// @Summary Get the course as the caller sees it
// @Description Returns every chapter and section with an access decision. Allowed sections carry their resolved content, paywalled ones only their outline. Anonymous callers are treated as not having purchased the course.
// @Tags content
// @Produce json
// @Param courseId path int true "Course ID"
// @Success 200 {object} dto.VisibleStructureResponseDTO
// @Failure 401 {string} string "Invalid token"
// @Failure 404 {object} dto.ErrorResponseDTO "Course not found or not visible"
// @Router /courses/{courseId}/content [get]
func (h *ContentHandler) getContent(w http.ResponseWriter, r *http.Request) {
	courseID, ok := pathID(w, r, "courseId")
	if !ok {
		return
	}
	vs, err := h.contentService.ResolveVisibleStructure(r.Context(), middleware.UserIDFromContext(r.Context()), courseID)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toVisibleStructureResponse(*vs))
}
