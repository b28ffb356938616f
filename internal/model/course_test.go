package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRating(t *testing.T) {
	tests := []struct {
		name     string
		rating   float64
		expected float64
	}{
		{"rounds down to one decimal", 4.44, 4.4},
		{"rounds up to one decimal", 4.567, 4.6},
		{"half rounds away from zero", 4.25, 4.3},
		{"already one decimal unchanged", 3.5, 3.5},
		{"zero stays zero", 0, 0},
		{"five stays five", 5, 5},
		{"negative clamps to zero", -1.2, 0},
		{"above five clamps to five", 6.3, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeRating(tt.rating))
		})
	}
}

func TestCourseBeforeSaveNormalizesRating(t *testing.T) {
	course := &Course{Rating: 4.567}
	assert.NoError(t, course.BeforeSave(nil))
	assert.Equal(t, 4.6, course.Rating)
}

func TestCourseLevelValid(t *testing.T) {
	assert.True(t, LevelBeginner.Valid())
	assert.True(t, LevelIntermediate.Valid())
	assert.True(t, LevelAdvanced.Valid())
	assert.False(t, CourseLevel("Wizard").Valid())
	assert.False(t, CourseLevel("beginner").Valid())
	assert.False(t, CourseLevel("").Valid())
}
