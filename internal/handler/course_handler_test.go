package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"coursecatalog/internal/model"
	"coursecatalog/internal/repository"
	"coursecatalog/internal/service"
)

// MockCourseService is a mock implementation of CourseService.
type MockCourseService struct {
	mock.Mock
}

func (m *MockCourseService) List(ctx context.Context, q repository.CourseQuery) ([]model.Course, int64, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.Course), args.Get(1).(int64), args.Error(2)
}

func (m *MockCourseService) Get(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Course), args.Error(1)
}

func (m *MockCourseService) Create(ctx context.Context, creator *model.User, input service.CourseCreate) (*model.Course, error) {
	args := m.Called(ctx, creator, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Course), args.Error(1)
}

func (m *MockCourseService) Update(ctx context.Context, user *model.User, id uuid.UUID, input service.CourseUpdate) (*model.Course, error) {
	args := m.Called(ctx, user, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Course), args.Error(1)
}

func (m *MockCourseService) Delete(ctx context.Context, user *model.User, id uuid.UUID) error {
	args := m.Called(ctx, user, id)
	return args.Error(0)
}

func (m *MockCourseService) ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]model.Course, error) {
	args := m.Called(ctx, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Course), args.Error(1)
}

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestCourseHandler_List_PaginationEnvelope(t *testing.T) {
	mockService := new(MockCourseService)
	page := make([]model.Course, 5)
	for i := range page {
		page[i] = model.Course{ID: uuid.New(), Title: "Python course"}
	}

	// page 2 with limit 5 translates to skip 5; 12 matches overall
	mockService.On("List", mock.Anything, repository.CourseQuery{
		Search: "python",
		Skip:   5,
		Limit:  5,
	}).Return(page, int64(12), nil)

	h := NewCourseHandler(mockService)
	c, rec := newTestContext(http.MethodGet, "/api/courses?search=python&page=2&limit=5", "")

	assert.NoError(t, h.List(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp PaginatedCoursesResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(12), resp.Total)
	assert.Equal(t, 2, resp.Page)
	assert.Equal(t, 5, resp.PageSize)
	assert.Equal(t, 3, resp.TotalPages)
	assert.Len(t, resp.Items, 5)
	mockService.AssertExpectations(t)
}

func TestCourseHandler_List_ParamNormalization(t *testing.T) {
	tests := []struct {
		name          string
		target        string
		expectedQuery repository.CourseQuery
		expectedPage  int
		expectedSize  int
	}{
		{
			name:          "defaults",
			target:        "/api/courses",
			expectedQuery: repository.CourseQuery{Skip: 0, Limit: 10},
			expectedPage:  1,
			expectedSize:  10,
		},
		{
			name:          "limit clamped to 100",
			target:        "/api/courses?limit=500",
			expectedQuery: repository.CourseQuery{Skip: 0, Limit: 100},
			expectedPage:  1,
			expectedSize:  100,
		},
		{
			name:          "page floor at 1",
			target:        "/api/courses?page=0",
			expectedQuery: repository.CourseQuery{Skip: 0, Limit: 10},
			expectedPage:  1,
			expectedSize:  10,
		},
		{
			name:   "filters and sort forwarded",
			target: "/api/courses?category=Programming&level=Beginner&sort_by=duration&order=asc",
			expectedQuery: repository.CourseQuery{
				Category: "Programming",
				Level:    "Beginner",
				SortBy:   "duration",
				Order:    "asc",
				Skip:     0,
				Limit:    10,
			},
			expectedPage: 1,
			expectedSize: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockCourseService)
			mockService.On("List", mock.Anything, tt.expectedQuery).Return([]model.Course{}, int64(0), nil)

			h := NewCourseHandler(mockService)
			c, rec := newTestContext(http.MethodGet, tt.target, "")

			assert.NoError(t, h.List(c))
			assert.Equal(t, http.StatusOK, rec.Code)

			var resp PaginatedCoursesResponse
			assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.expectedPage, resp.Page)
			assert.Equal(t, tt.expectedSize, resp.PageSize)
			assert.Equal(t, 0, resp.TotalPages)
			mockService.AssertExpectations(t)
		})
	}
}

func TestCourseHandler_List_PublishedFilter(t *testing.T) {
	t.Run("published=false is a real filter", func(t *testing.T) {
		mockService := new(MockCourseService)
		mockService.On("List", mock.Anything, mock.MatchedBy(func(q repository.CourseQuery) bool {
			return q.Published != nil && !*q.Published
		})).Return([]model.Course{}, int64(0), nil)

		h := NewCourseHandler(mockService)
		c, _ := newTestContext(http.MethodGet, "/api/courses?published=false", "")

		assert.NoError(t, h.List(c))
		mockService.AssertExpectations(t)
	})

	t.Run("garbage published is rejected", func(t *testing.T) {
		mockService := new(MockCourseService)
		h := NewCourseHandler(mockService)
		c, _ := newTestContext(http.MethodGet, "/api/courses?published=maybe", "")

		err := h.List(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
		mockService.AssertNotCalled(t, "List")
	})
}

func TestCourseHandler_Create_RequiresAuthenticatedUser(t *testing.T) {
	mockService := new(MockCourseService)
	h := NewCourseHandler(mockService)

	body := `{"title":"T","description":"D","category":"C","level":"Beginner","duration":1}`
	c, _ := newTestContext(http.MethodPost, "/api/courses", body)

	err := h.Create(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	mockService.AssertNotCalled(t, "Create")
}

func TestCourseHandler_Create_ValidatesRating(t *testing.T) {
	mockService := new(MockCourseService)
	h := NewCourseHandler(mockService)

	body := `{"title":"T","description":"D","category":"C","level":"Beginner","duration":1,"rating":5.05}`
	c, _ := newTestContext(http.MethodPost, "/api/courses", body)
	c.Set(CurrentUserKey, &model.User{ID: uuid.New(), Username: "alice"})

	err := h.Create(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	mockService.AssertNotCalled(t, "Create")
}

func TestCourseHandler_Update_RejectsExplicitNull(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"null title", `{"title": null}`},
		{"null duration", `{"duration": null}`},
		{"null level alongside valid field", `{"title": "New Title", "level": null}`},
		{"null published", `{"published": null}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockCourseService)
			h := NewCourseHandler(mockService)

			courseID := uuid.New()
			c, _ := newTestContext(http.MethodPut, "/api/courses/"+courseID.String(), tt.body)
			c.SetParamNames("id")
			c.SetParamValues(courseID.String())
			c.Set(CurrentUserKey, &model.User{ID: uuid.New(), Username: "alice"})

			err := h.Update(c)
			httpErr, ok := err.(*echo.HTTPError)
			assert.True(t, ok)
			assert.Equal(t, http.StatusBadRequest, httpErr.Code)
			mockService.AssertNotCalled(t, "Update")
		})
	}
}

func TestCourseHandler_Update_AbsentFieldsStayAbsent(t *testing.T) {
	mockService := new(MockCourseService)
	user := &model.User{ID: uuid.New(), Username: "alice"}
	courseID := uuid.New()

	// Only title present: every other pointer must arrive nil.
	mockService.On("Update", mock.Anything, user, courseID, mock.MatchedBy(func(u service.CourseUpdate) bool {
		return u.Title != nil && *u.Title == "New Title" &&
			u.Description == nil && u.Category == nil && u.Level == nil &&
			u.Duration == nil && u.Credits == nil && u.Rating == nil &&
			u.DurationText == nil && u.ImageURL == nil && u.Published == nil
	})).Return(&model.Course{ID: courseID, Title: "New Title"}, nil)

	h := NewCourseHandler(mockService)
	c, rec := newTestContext(http.MethodPut, "/api/courses/"+courseID.String(), `{"title": "New Title"}`)
	c.SetParamNames("id")
	c.SetParamValues(courseID.String())
	c.Set(CurrentUserKey, user)

	assert.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	mockService.AssertExpectations(t)
}

func TestCourseHandler_List_EmptyPageSerializesAsArray(t *testing.T) {
	mockService := new(MockCourseService)
	mockService.On("List", mock.Anything, mock.Anything).Return([]model.Course(nil), int64(0), nil)

	h := NewCourseHandler(mockService)
	c, rec := newTestContext(http.MethodGet, "/api/courses?search=nomatch", "")

	assert.NoError(t, h.List(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"items":[]`)
	assert.NotContains(t, rec.Body.String(), `"items":null`)
}

func TestCourseHandler_Mine_EmptySerializesAsArray(t *testing.T) {
	mockService := new(MockCourseService)
	user := &model.User{ID: uuid.New(), Username: "alice"}
	mockService.On("ListByCreator", mock.Anything, user.ID).Return([]model.Course(nil), nil)

	h := NewCourseHandler(mockService)
	c, rec := newTestContext(http.MethodGet, "/api/courses/mine", "")
	c.Set(CurrentUserKey, user)

	assert.NoError(t, h.Mine(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestCourseHandler_Delete_NoContent(t *testing.T) {
	mockService := new(MockCourseService)
	user := &model.User{ID: uuid.New(), Username: "alice"}
	courseID := uuid.New()
	mockService.On("Delete", mock.Anything, user, courseID).Return(nil)

	h := NewCourseHandler(mockService)
	c, rec := newTestContext(http.MethodDelete, "/api/courses/"+courseID.String(), "")
	c.SetParamNames("id")
	c.SetParamValues(courseID.String())
	c.Set(CurrentUserKey, user)

	assert.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
	mockService.AssertExpectations(t)
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		name     string
		total    int64
		limit    int
		expected int
	}{
		{"no matches", 0, 10, 0},
		{"exact division", 20, 10, 2},
		{"partial last page", 12, 5, 3},
		{"single short page", 3, 10, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, totalPages(tt.total, tt.limit))
		})
	}
}
