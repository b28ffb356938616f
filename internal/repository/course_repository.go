package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"coursecatalog/internal/model"
)

// CourseQuery describes an optional filter/sort/page request against the
// course catalog. Zero-valued fields are inactive filters; Published is
// tri-state so "no filter" and "unpublished only" stay distinct.
type CourseQuery struct {
	Category  string
	Level     string
	Published *bool
	Search    string
	SortBy    string
	Order     string
	Skip      int
	Limit     int
}

// CourseRepository defines course persistence operations.
type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	Update(ctx context.Context, course *model.Course) error
	Delete(ctx context.Context, course *model.Course) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Course, error)
	ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]model.Course, error)
	List(ctx context.Context, q CourseQuery) ([]model.Course, int64, error)
}

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository builds a GORM-backed course repository.
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) Create(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

// Update writes the full course row. The preloaded Creator association is
// omitted so saving a course never touches the users table.
func (r *courseRepository) Update(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(course).Error
}

// Delete removes the course row permanently.
func (r *courseRepository) Delete(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Delete(course).Error
}

// FindByID loads a course with its creator. A dangling created_by reference
// leaves Creator nil rather than failing.
func (r *courseRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	var course model.Course
	if err := r.db.WithContext(ctx).Preload("Creator").Where("id = ?", id).First(&course).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepository) ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]model.Course, error) {
	courses := []model.Course{}
	if err := r.db.WithContext(ctx).Where("created_by = ?", creatorID).
		Order("created_at desc").Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

// List applies the query as a conjunction of the active filters, counts the
// matches before any sort or pagination so the total always reflects the same
// filter set as the returned page, then orders and slices the window.
func (r *courseRepository) List(ctx context.Context, q CourseQuery) ([]model.Course, int64, error) {
	tx := r.db.WithContext(ctx).Model(&model.Course{})

	if q.Category != "" {
		tx = tx.Where("category = ?", q.Category)
	}
	if q.Level != "" {
		tx = tx.Where("level = ?", q.Level)
	}
	if q.Published != nil {
		tx = tx.Where("published = ?", *q.Published)
	}
	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		tx = tx.Where("LOWER(title) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", pattern, pattern)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Initialized so an empty page serializes as [] rather than null.
	courses := []model.Course{}
	err := tx.Order(sortColumn(q.SortBy) + " " + orderDirection(q.Order)).
		Offset(q.Skip).Limit(q.Limit).
		Find(&courses).Error
	if err != nil {
		return nil, 0, err
	}

	return courses, total, nil
}

var sortColumns = map[string]string{
	"title":      "title",
	"created_at": "created_at",
	"updated_at": "updated_at",
	"duration":   "duration",
	"level":      "level",
}

// sortColumn maps a requested sort field to a column. Unknown fields are
// silently ignored and the default created_at is used.
func sortColumn(field string) string {
	if col, ok := sortColumns[field]; ok {
		return col
	}
	return "created_at"
}

// orderDirection resolves the sort direction. An omitted order defaults to
// descending; a present but unrecognized value falls back to ascending,
// matching the permissive query contract.
func orderDirection(order string) string {
	if order == "" {
		return "desc"
	}
	if strings.EqualFold(order, "desc") {
		return "desc"
	}
	return "asc"
}
