package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"coursecatalog/internal/errors"
	"coursecatalog/internal/model"
	"coursecatalog/internal/repository"
	"coursecatalog/internal/service"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// CourseHandler handles course catalog endpoints.
type CourseHandler struct {
	courseService service.CourseService
}

// NewCourseHandler creates a new course handler.
func NewCourseHandler(courseService service.CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService}
}

// CreateCourseRequest represents a course creation request.
type CreateCourseRequest struct {
	Title        string   `json:"title" validate:"required,min=1,max=200"`
	Description  string   `json:"description" validate:"required,min=1"`
	Category     string   `json:"category" validate:"required,min=1,max=100"`
	Level        string   `json:"level" validate:"required,oneof=Beginner Intermediate Advanced"`
	Duration     float64  `json:"duration" validate:"required,gt=0"`
	Credits      *int     `json:"credits" validate:"omitempty,gte=1,lte=100"`
	Rating       *float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`
	DurationText string   `json:"duration_text" validate:"omitempty,min=1,max=50"`
	ImageURL     string   `json:"image_url" validate:"omitempty,min=1,max=500"`
	Published    *bool    `json:"published"`
}

// UpdateCourseRequest represents a partial course update. Absent fields leave
// the stored values untouched; an explicit null is rejected because every
// course column is non-nullable.
type UpdateCourseRequest struct {
	Title        *string  `json:"title" validate:"omitempty,min=1,max=200"`
	Description  *string  `json:"description" validate:"omitempty,min=1"`
	Category     *string  `json:"category" validate:"omitempty,min=1,max=100"`
	Level        *string  `json:"level" validate:"omitempty,oneof=Beginner Intermediate Advanced"`
	Duration     *float64 `json:"duration" validate:"omitempty,gt=0"`
	Credits      *int     `json:"credits" validate:"omitempty,gte=1,lte=100"`
	Rating       *float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`
	DurationText *string  `json:"duration_text" validate:"omitempty,min=1,max=50"`
	ImageURL     *string  `json:"image_url" validate:"omitempty,min=1,max=500"`
	Published    *bool    `json:"published"`
}

var updatableCourseFields = map[string]struct{}{
	"title":         {},
	"description":   {},
	"category":      {},
	"level":         {},
	"duration":      {},
	"credits":       {},
	"rating":        {},
	"duration_text": {},
	"image_url":     {},
	"published":     {},
}

// UnmarshalJSON distinguishes an absent field from an explicit null. A nil
// pointer alone cannot tell the two apart, and null is never a valid value
// for a course field, so it is rejected at the bind layer.
func (r *UpdateCourseRequest) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	for name, raw := range fields {
		if _, known := updatableCourseFields[name]; !known {
			continue
		}
		if string(bytes.TrimSpace(raw)) == "null" {
			return fmt.Errorf("field %q must not be null", name)
		}
	}

	type plain UpdateCourseRequest
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = UpdateCourseRequest(p)
	return nil
}

// PaginatedCoursesResponse is the envelope for course listings.
type PaginatedCoursesResponse struct {
	Items      []model.Course `json:"items"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

// List godoc
// @Summary List courses with filtering, sorting and pagination
// @Tags courses
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Param limit query int false "Items per page (1-100)"
// @Param category query string false "Filter by category"
// @Param level query string false "Filter by level"
// @Param published query bool false "Filter by published flag"
// @Param search query string false "Search in title and description"
// @Param sort_by query string false "Sort field (title, created_at, updated_at, duration, level)"
// @Param order query string false "Sort order (asc, desc); omitted defaults to desc"
// @Success 200 {object} PaginatedCoursesResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /courses [get]
func (h *CourseHandler) List(c echo.Context) error {
	page := queryInt(c, "page", 1)
	if page < 1 {
		page = 1
	}
	limit := queryInt(c, "limit", defaultPageSize)
	if limit < 1 {
		limit = 1
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	q := repository.CourseQuery{
		Category: c.QueryParam("category"),
		Level:    c.QueryParam("level"),
		Search:   c.QueryParam("search"),
		SortBy:   c.QueryParam("sort_by"),
		Order:    c.QueryParam("order"),
		Skip:     (page - 1) * limit,
		Limit:    limit,
	}
	if raw := c.QueryParam("published"); raw != "" {
		if published, err := strconv.ParseBool(raw); err == nil {
			q.Published = &published
		} else {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "published must be a boolean",
				Code:  "INVALID_PUBLISHED",
			})
		}
	}

	courses, total, err := h.courseService.List(c.Request().Context(), q)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	if courses == nil {
		courses = []model.Course{}
	}

	return c.JSON(http.StatusOK, PaginatedCoursesResponse{
		Items:      courses,
		Total:      total,
		Page:       page,
		PageSize:   limit,
		TotalPages: totalPages(total, limit),
	})
}

// Get godoc
// @Summary Get a single course with its creator
// @Tags courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} model.Course
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /courses/{id} [get]
func (h *CourseHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidCourseID()
	}

	course, err := h.courseService.Get(c.Request().Context(), id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, course)
}

// Create godoc
// @Summary Create a course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateCourseRequest true "Course data"
// @Success 201 {object} model.Course
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /courses [post]
func (h *CourseHandler) Create(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return err
	}

	var req CreateCourseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	course, err := h.courseService.Create(c.Request().Context(), user, service.CourseCreate{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Level:        model.CourseLevel(req.Level),
		Duration:     req.Duration,
		Credits:      req.Credits,
		Rating:       req.Rating,
		DurationText: req.DurationText,
		ImageURL:     req.ImageURL,
		Published:    req.Published,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, course)
}

// Update godoc
// @Summary Update a course (creator only, partial)
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Param request body UpdateCourseRequest true "Fields to update"
// @Success 200 {object} model.Course
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /courses/{id} [put]
func (h *CourseHandler) Update(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidCourseID()
	}

	var req UpdateCourseRequest
	if err := c.Bind(&req); err != nil {
		if httpErr, ok := err.(*echo.HTTPError); ok {
			return echo.NewHTTPError(http.StatusBadRequest, httpErr.Message)
		}
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	update := service.CourseUpdate{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Duration:     req.Duration,
		Credits:      req.Credits,
		Rating:       req.Rating,
		DurationText: req.DurationText,
		ImageURL:     req.ImageURL,
		Published:    req.Published,
	}
	if req.Level != nil {
		level := model.CourseLevel(*req.Level)
		update.Level = &level
	}

	course, err := h.courseService.Update(c.Request().Context(), user, id, update)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, course)
}

// Delete godoc
// @Summary Delete a course (creator only)
// @Tags courses
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Success 204 "deleted"
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /courses/{id} [delete]
func (h *CourseHandler) Delete(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidCourseID()
	}

	if err := h.courseService.Delete(c.Request().Context(), user, id); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.NoContent(http.StatusNoContent)
}

// Mine godoc
// @Summary List the caller's courses
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Course
// @Failure 401 {object} errors.ErrorResponse
// @Router /courses/mine [get]
func (h *CourseHandler) Mine(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return err
	}

	courses, err := h.courseService.ListByCreator(c.Request().Context(), user.ID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	if courses == nil {
		courses = []model.Course{}
	}

	return c.JSON(http.StatusOK, courses)
}

// totalPages is ceil(total/limit), 0 when nothing matches.
func totalPages(total int64, limit int) int {
	if total == 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}

func queryInt(c echo.Context, name string, def int) int {
	if raw := c.QueryParam(name); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return def
}

func invalidCourseID() *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Error: "invalid course ID",
		Code:  "INVALID_UUID",
	})
}
