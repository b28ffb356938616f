package model

import (
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CourseLevel represents the difficulty level of a course.
type CourseLevel string

const (
	LevelBeginner     CourseLevel = "Beginner"
	LevelIntermediate CourseLevel = "Intermediate"
	LevelAdvanced     CourseLevel = "Advanced"
)

// Valid reports whether the level is one of the known values.
func (l CourseLevel) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

// Default values applied to courses when the caller omits the field.
const (
	DefaultCredits      = 40
	DefaultRating       = 4.5
	DefaultDurationText = "1 Year"
	DefaultImageURL     = "/assets/card-image.png"
)

// Course represents a course listing in the catalog.
// CreatedBy is a weak reference: the creator row may be gone, in which case
// the column is null and Creator resolves to nil.
type Course struct {
	ID           uuid.UUID   `json:"id" gorm:"type:char(36);primaryKey"`
	Title        string      `json:"title" gorm:"size:200;not null;index"`
	Description  string      `json:"description" gorm:"type:text;not null"`
	Category     string      `json:"category" gorm:"size:100;not null;index"`
	Level        CourseLevel `json:"level" gorm:"type:varchar(20);not null"`
	Duration     float64     `json:"duration" gorm:"not null"` // hours, always > 0
	Credits      int         `json:"credits" gorm:"not null;default:40"`
	Rating       float64     `json:"rating" gorm:"not null;default:4.5"`
	DurationText string      `json:"duration_text" gorm:"size:50;not null;default:'1 Year'"`
	ImageURL     string      `json:"image_url" gorm:"size:500;not null"`
	Published    bool        `json:"published" gorm:"default:true;index"`
	CreatedBy    *uuid.UUID  `json:"created_by" gorm:"type:char(36);index"`
	CreatedAt    time.Time   `json:"created_at" gorm:"index"`
	UpdatedAt    time.Time   `json:"updated_at"`

	// Relations
	Creator *User `json:"creator,omitempty" gorm:"foreignKey:CreatedBy;constraint:OnDelete:SET NULL"`
}

// BeforeCreate sets UUID before creating the record.
func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// BeforeSave normalizes the rating on every write path so the stored value is
// always within [0, 5] at one decimal place.
func (c *Course) BeforeSave(tx *gorm.DB) error {
	c.Rating = NormalizeRating(c.Rating)
	return nil
}

// NormalizeRating clamps a rating into [0, 5] and rounds it to one decimal.
func NormalizeRating(r float64) float64 {
	if r < 0 {
		return 0
	}
	if r > 5 {
		return 5
	}
	return math.Round(r*10) / 10
}
