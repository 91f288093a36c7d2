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

type UserHandler struct {
	userService service.UserService
	validate    *validator.Validate
	logger      zerolog.Logger
}

func NewUserHandler(userService service.UserService, v *validator.Validate, logger zerolog.Logger) *UserHandler {
	return &UserHandler{userService: userService, validate: v, logger: logger}
}

// RegisterRoutes mounts v1 user routes
func (h *UserHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("POST /users/me", authMw(http.HandlerFunc(h.createUser)))
	mux.Handle("GET /users/me", authMw(http.HandlerFunc(h.getUser)))
	mux.Handle("GET /users/me/courses", authMw(http.HandlerFunc(h.getUserCourses)))
}

func toUserResponse(u *model.User) dto.UserResponseDTO {
	return dto.UserResponseDTO{
		UserID:    u.UserID,
		Name:      u.Name,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// createUser godoc
// @Summary Create or refresh the caller's profile
// @Description A profile is required before authoring courses. The role cannot be set through this endpoint.
// @Tags users
// @Accept json
// @Produce json
// @Param user body dto.UserCreateDTO true "Profile"
// @Success 201 {object} dto.UserResponseDTO
// @Failure 422 {object} dto.ErrorResponseDTO "Validation failed"
// @Router /users/me [post]
func (h *UserHandler) createUser(w http.ResponseWriter, r *http.Request) {
	var req dto.UserCreateDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	created, err := h.userService.Create(r.Context(), &model.User{
		UserID:    middleware.UserIDFromContext(r.Context()),
		Name:      req.Name,
		Email:     req.Email,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserResponse(created))
}

// getUser godoc
// @Summary Get the caller's profile
// @Tags users
// @Produce json
// @Success 200 {object} dto.UserResponseDTO
// @Failure 404 {object} dto.ErrorResponseDTO "Profile not found"
// @Router /users/me [get]
func (h *UserHandler) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.Get(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// getUserCourses godoc
// @Summary List the caller's authored courses
// @Tags users
// @Produce json
// @Success 200 {array} dto.UserCourseResponseDTO
// @Router /users/me/courses [get]
func (h *UserHandler) getUserCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.userService.GetCourses(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	courseDTOs := make([]dto.UserCourseResponseDTO, 0, len(courses))
	for _, c := range courses {
		courseDTOs = append(courseDTOs, dto.UserCourseResponseDTO{
			CourseID:    c.ID,
			Title:       c.Title,
			Description: c.Description,
			Status:      string(c.Status),
		})
	}
	writeJSON(w, http.StatusOK, courseDTOs)
}
