package handler

import (
	"net/http"

	"courseflow/internal/api/v1/dto"
	"courseflow/internal/course"
	"courseflow/internal/middleware"
	"courseflow/internal/model"
	"courseflow/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// StructureHandler handles chapter, section and resource binding endpoints
type StructureHandler struct {
	structureService service.StructureService
	validate         *validator.Validate
	logger           zerolog.Logger
}

func NewStructureHandler(structureService service.StructureService, validate *validator.Validate, logger zerolog.Logger) *StructureHandler {
	return &StructureHandler{structureService: structureService, validate: validate, logger: logger}
}

// RegisterRoutes mounts structure routes
func (h *StructureHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("GET /courses/{courseId}/structure", authMw(http.HandlerFunc(h.getCourseStructure)))
	mux.Handle("POST /courses/{courseId}/chapters", authMw(http.HandlerFunc(h.createChapter)))
	mux.Handle("PUT /courses/{courseId}/chapters/order", authMw(http.HandlerFunc(h.reorderChapters)))
	mux.Handle("PUT /chapters/{chapterId}", authMw(http.HandlerFunc(h.updateChapter)))
	mux.Handle("DELETE /chapters/{chapterId}", authMw(http.HandlerFunc(h.deleteChapter)))
	mux.Handle("POST /chapters/{chapterId}/sections", authMw(http.HandlerFunc(h.createSection)))
	mux.Handle("PUT /chapters/{chapterId}/sections/order", authMw(http.HandlerFunc(h.reorderSections)))
	mux.Handle("PUT /sections/{sectionId}", authMw(http.HandlerFunc(h.updateSection)))
	mux.Handle("DELETE /sections/{sectionId}", authMw(http.HandlerFunc(h.deleteSection)))
	mux.Handle("PUT /sections/{sectionId}/resource", authMw(http.HandlerFunc(h.bindResource)))
	mux.Handle("DELETE /sections/{sectionId}/resource", authMw(http.HandlerFunc(h.unbindResource)))
}

// getCourseStructure godoc
// @Summary Get the full course structure
// @Description Returns every chapter and section with its bound resource. Author and reviewers only.
// @Tags structure
// @Produce json
// @Param courseId path int true "Course ID"
// @Success 200 {object} dto.CourseStructureResponseDTO
// @Failure 404 {object} dto.ErrorResponseDTO "Course not found"
// @Router /courses/{courseId}/structure [get]
func (h *StructureHandler) getCourseStructure(w http.ResponseWriter, r *http.Request) {
	courseID, ok := pathID(w, r, "courseId")
	if !ok {
		return
	}
	s, err := h.structureService.GetCourseStructure(r.Context(), middleware.UserIDFromContext(r.Context()), courseID)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toStructureResponse(*s))
}

// createChapter godoc
// @Summary Append a chapter
// @Description Appends a chapter after the course's last chapter. Access type defaults to paid_only.
// @Tags structure
// @Accept json
// @Produce json
// @Param courseId path int true "Course ID"
// @Param chapter body dto.ChapterCreateDTO true "Chapter"
// @Success 201 {object} dto.ChapterResponseDTO
// @Failure 409 {object} dto.ErrorResponseDTO "Course locked"
// @Router /courses/{courseId}/chapters [post]
func (h *StructureHandler) createChapter(w http.ResponseWriter, r *http.Request) {
	courseID, ok := pathID(w, r, "courseId")
	if !ok {
		return
	}
	var req dto.ChapterCreateDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	ch, err := h.structureService.CreateChapter(r.Context(), middleware.UserIDFromContext(r.Context()), courseID, service.ChapterInput{
		Title:       req.Title,
		Description: req.Description,
		AccessType:  req.AccessType,
	})
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toChapterResponse(*ch))
}

// reorderChapters godoc
// @Summary Reorder chapters
// @Description Sets the chapter order. ids must list every chapter of the course exactly once.
// @Tags structure
// @Accept json
// @Produce json
// @Param courseId path int true "Course ID"
// @Param order body dto.ReorderDTO true "Chapter ids in the new order"
// @Success 200 {array} dto.ChapterResponseDTO
// @Failure 422 {object} dto.ErrorResponseDTO "Reorder mismatch"
// @Router /courses/{courseId}/chapters/order [put]
func (h *StructureHandler) reorderChapters(w http.ResponseWriter, r *http.Request) {
	courseID, ok := pathID(w, r, "courseId")
	if !ok {
		return
	}
	var req dto.ReorderDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	chapters, err := h.structureService.ReorderChapters(r.Context(), middleware.UserIDFromContext(r.Context()), courseID, req.IDs)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toChapterResponses(chapters))
}

// updateChapter godoc
// @Summary Update a chapter
// @Tags structure
// @Accept json
// @Produce json
// @Param chapterId path int true "Chapter ID"
// @Param chapter body dto.ChapterCreateDTO true "Chapter"
// @Success 200 {object} dto.ChapterResponseDTO
// @Router /chapters/{chapterId} [put]
func (h *StructureHandler) updateChapter(w http.ResponseWriter, r *http.Request) {
	chapterID, ok := pathID(w, r, "chapterId")
	if !ok {
		return
	}
	var req dto.ChapterCreateDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	ch, err := h.structureService.UpdateChapter(r.Context(), middleware.UserIDFromContext(r.Context()), chapterID, service.ChapterInput{
		Title:       req.Title,
		Description: req.Description,
		AccessType:  req.AccessType,
	})
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toChapterResponse(*ch))
}

// deleteChapter godoc
// @Summary Delete a chapter
// @Description Deletes the chapter and its sections. Remaining chapters keep their order indices.
// @Tags structure
// @Param chapterId path int true "Chapter ID"
// @Success 204
// @Router /chapters/{chapterId} [delete]
func (h *StructureHandler) deleteChapter(w http.ResponseWriter, r *http.Request) {
	chapterID, ok := pathID(w, r, "chapterId")
	if !ok {
		return
	}
	if err := h.structureService.DeleteChapter(r.Context(), middleware.UserIDFromContext(r.Context()), chapterID); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// createSection godoc
// @Summary Append a section
// @Tags structure
// @Accept json
// @Produce json
// @Param chapterId path int true "Chapter ID"
// @Param section body dto.SectionCreateDTO true "Section"
// @Success 201 {object} dto.SectionResponseDTO
// @Failure 409 {object} dto.ErrorResponseDTO "Course locked"
// @Router /chapters/{chapterId}/sections [post]
func (h *StructureHandler) createSection(w http.ResponseWriter, r *http.Request) {
	chapterID, ok := pathID(w, r, "chapterId")
	if !ok {
		return
	}
	var req dto.SectionCreateDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	sec, err := h.structureService.CreateSection(r.Context(), middleware.UserIDFromContext(r.Context()), chapterID, sectionInput(req))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSectionResponse(*sec))
}

func sectionInput(req dto.SectionCreateDTO) service.SectionInput {
	return service.SectionInput{
		Title:            req.Title,
		Description:      req.Description,
		AccessType:       req.AccessType,
		ContentType:      req.ContentType,
		EstimatedMinutes: req.EstimatedMinutes,
	}
}

// reorderSections godoc
// @Summary Reorder sections
// @Description Sets the section order. ids must list every section of the chapter exactly once.
// @Tags structure
// @Accept json
// @Produce json
// @Param chapterId path int true "Chapter ID"
// @Param order body dto.ReorderDTO true "Section ids in the new order"
// @Success 200 {array} dto.SectionResponseDTO
// @Failure 422 {object} dto.ErrorResponseDTO "Reorder mismatch"
// @Router /chapters/{chapterId}/sections/order [put]
func (h *StructureHandler) reorderSections(w http.ResponseWriter, r *http.Request) {
	chapterID, ok := pathID(w, r, "chapterId")
	if !ok {
		return
	}
	var req dto.ReorderDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	sections, err := h.structureService.ReorderSections(r.Context(), middleware.UserIDFromContext(r.Context()), chapterID, req.IDs)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toSectionResponses(sections))
}

// updateSection godoc
// @Summary Update a section
// @Description Updates the outline fields. The bound resource is unchanged.
// @Tags structure
// @Accept json
// @Produce json
// @Param sectionId path int true "Section ID"
// @Param section body dto.SectionCreateDTO true "Section"
// @Success 200 {object} dto.SectionResponseDTO
// @Router /sections/{sectionId} [put]
func (h *StructureHandler) updateSection(w http.ResponseWriter, r *http.Request) {
	sectionID, ok := pathID(w, r, "sectionId")
	if !ok {
		return
	}
	var req dto.SectionCreateDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	sec, err := h.structureService.UpdateSection(r.Context(), middleware.UserIDFromContext(r.Context()), sectionID, sectionInput(req))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toSectionResponse(*sec))
}

// deleteSection godoc
// @Summary Delete a section
// @Tags structure
// @Param sectionId path int true "Section ID"
// @Success 204
// @Router /sections/{sectionId} [delete]
func (h *StructureHandler) deleteSection(w http.ResponseWriter, r *http.Request) {
	sectionID, ok := pathID(w, r, "sectionId")
	if !ok {
		return
	}
	if err := h.structureService.DeleteSection(r.Context(), middleware.UserIDFromContext(r.Context()), sectionID); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// bindResource godoc
// @Summary Bind a resource to a section
// @Description Binds a media item (media_id, role) or a question group (question_group_id, options), replacing any previous binding. Exactly one id must be given.
// @Tags structure
// @Accept json
// @Produce json
// @Param sectionId path int true "Section ID"
// @Param binding body dto.BindResourceDTO true "Resource binding"
// @Success 200 {object} dto.SectionResponseDTO
// @Failure 422 {object} dto.ErrorResponseDTO "Invalid binding or resource not found"
// @Router /sections/{sectionId}/resource [put]
func (h *StructureHandler) bindResource(w http.ResponseWriter, r *http.Request) {
	sectionID, ok := pathID(w, r, "sectionId")
	if !ok {
		return
	}
	var req dto.BindResourceDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	binding, err := course.BindingFromRequest(req.MediaID, req.QuestionGroupID, req.Role, fromQuizOptions(req.Options))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	var sec *model.Section
	switch b := binding.(type) {
	case model.MediaBinding:
		sec, err = h.structureService.BindMedia(r.Context(), userID, sectionID, b.MediaID, b.Role)
	case model.QuestionGroupBinding:
		sec, err = h.structureService.BindQuestionGroup(r.Context(), userID, sectionID, b.GroupID, b.Options)
	default:
		err = course.ErrInvalidBindingState
	}
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toSectionResponse(*sec))
}

// unbindResource godoc
// @Summary Remove a section's resource
// @Tags structure
// @Produce json
// @Param sectionId path int true "Section ID"
// @Success 200 {object} dto.SectionResponseDTO
// @Router /sections/{sectionId}/resource [delete]
func (h *StructureHandler) unbindResource(w http.ResponseWriter, r *http.Request) {
	sectionID, ok := pathID(w, r, "sectionId")
	if !ok {
		return
	}
	sec, err := h.structureService.UnbindResource(r.Context(), middleware.UserIDFromContext(r.Context()), sectionID)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toSectionResponse(*sec))
}
