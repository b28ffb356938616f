package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "coursecatalog/internal/errors"
	"coursecatalog/internal/model"
	"coursecatalog/internal/repository"
)

// CourseCreate carries the fields for a new course. Optional fields are
// pointers so the catalog defaults apply only when the caller omits them.
type CourseCreate struct {
	Title        string
	Description  string
	Category     string
	Level        model.CourseLevel
	Duration     float64
	Credits      *int
	Rating       *float64
	DurationText string
	ImageURL     string
	Published    *bool
}

// CourseUpdate is the partial-update counterpart of a course: only non-nil
// fields are merged onto the stored record.
type CourseUpdate struct {
	Title        *string
	Description  *string
	Category     *string
	Level        *model.CourseLevel
	Duration     *float64
	Credits      *int
	Rating       *float64
	DurationText *string
	ImageURL     *string
	Published    *bool
}

// CourseService handles course catalog operations.
type CourseService interface {
	List(ctx context.Context, q repository.CourseQuery) ([]model.Course, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Course, error)
	Create(ctx context.Context, creator *model.User, input CourseCreate) (*model.Course, error)
	Update(ctx context.Context, user *model.User, id uuid.UUID, input CourseUpdate) (*model.Course, error)
	Delete(ctx context.Context, user *model.User, id uuid.UUID) error
	ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]model.Course, error)
}

type courseService struct {
	courseRepo repository.CourseRepository
}

// NewCourseService creates a new course service.
func NewCourseService(courseRepo repository.CourseRepository) CourseService {
	return &courseService{courseRepo: courseRepo}
}

// List returns one page of courses plus the total count matching the same
// filter set regardless of the page window.
func (s *courseService) List(ctx context.Context, q repository.CourseQuery) ([]model.Course, int64, error) {
	courses, total, err := s.courseRepo.List(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("list courses: %w", err)
	}
	return courses, total, nil
}

// Get returns a course with its creator embedded. Creator is nil when the
// creating user has since been removed.
func (s *courseService) Get(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	course, err := s.courseRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("find course: %w", err)
	}
	return course, nil
}

// Create persists a new course owned by the creator, filling catalog defaults
// for omitted optional fields.
func (s *courseService) Create(ctx context.Context, creator *model.User, input CourseCreate) (*model.Course, error) {
	if !input.Level.Valid() {
		return nil, apperrors.ErrInvalidLevel
	}

	creatorID := creator.ID
	course := &model.Course{
		Title:        input.Title,
		Description:  input.Description,
		Category:     input.Category,
		Level:        input.Level,
		Duration:     input.Duration,
		Credits:      model.DefaultCredits,
		Rating:       model.DefaultRating,
		DurationText: model.DefaultDurationText,
		ImageURL:     model.DefaultImageURL,
		Published:    true,
		CreatedBy:    &creatorID,
	}

	if input.Credits != nil {
		course.Credits = *input.Credits
	}
	if input.Rating != nil {
		course.Rating = *input.Rating
	}
	if input.DurationText != "" {
		course.DurationText = input.DurationText
	}
	if input.ImageURL != "" {
		course.ImageURL = input.ImageURL
	}
	if input.Published != nil {
		course.Published = *input.Published
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}

	return course, nil
}

// Update merges the provided fields onto an existing course. Existence is
// checked before ownership, so a missing course yields not-found even for
// callers who would not own it.
func (s *courseService) Update(ctx context.Context, user *model.User, id uuid.UUID, input CourseUpdate) (*model.Course, error) {
	course, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := requireOwnership(course, user); err != nil {
		return nil, err
	}

	if input.Level != nil && !input.Level.Valid() {
		return nil, apperrors.ErrInvalidLevel
	}

	if input.Title != nil {
		course.Title = *input.Title
	}
	if input.Description != nil {
		course.Description = *input.Description
	}
	if input.Category != nil {
		course.Category = *input.Category
	}
	if input.Level != nil {
		course.Level = *input.Level
	}
	if input.Duration != nil {
		course.Duration = *input.Duration
	}
	if input.Credits != nil {
		course.Credits = *input.Credits
	}
	if input.Rating != nil {
		course.Rating = *input.Rating
	}
	if input.DurationText != nil {
		course.DurationText = *input.DurationText
	}
	if input.ImageURL != nil {
		course.ImageURL = *input.ImageURL
	}
	if input.Published != nil {
		course.Published = *input.Published
	}

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, fmt.Errorf("update course: %w", err)
	}

	return course, nil
}

// Delete permanently removes a course after the ownership check.
func (s *courseService) Delete(ctx context.Context, user *model.User, id uuid.UUID) error {
	course, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := requireOwnership(course, user); err != nil {
		return err
	}

	if err := s.courseRepo.Delete(ctx, course); err != nil {
		return fmt.Errorf("delete course: %w", err)
	}

	return nil
}

// ListByCreator returns all courses created by the given user.
func (s *courseService) ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]model.Course, error) {
	courses, err := s.courseRepo.ListByCreator(ctx, creatorID)
	if err != nil {
		return nil, fmt.Errorf("list creator courses: %w", err)
	}
	return courses, nil
}

// requireOwnership enforces strict id equality between the course creator and
// the current user. A course whose creator reference has gone null cannot be
// mutated by anyone.
func requireOwnership(course *model.Course, user *model.User) error {
	if course.CreatedBy == nil || *course.CreatedBy != user.ID {
		return apperrors.ErrNotCourseOwner
	}
	return nil
}
