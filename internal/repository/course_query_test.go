package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortColumn(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		expected string
	}{
		{"title is sortable", "title", "title"},
		{"created_at is sortable", "created_at", "created_at"},
		{"updated_at is sortable", "updated_at", "updated_at"},
		{"duration is sortable", "duration", "duration"},
		{"level is sortable", "level", "level"},
		{"unknown field falls back to created_at", "rating", "created_at"},
		{"empty field falls back to created_at", "", "created_at"},
		{"injection attempt falls back to created_at", "title; DROP TABLE courses", "created_at"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sortColumn(tt.field))
		})
	}
}

func TestOrderDirection(t *testing.T) {
	tests := []struct {
		name     string
		order    string
		expected string
	}{
		{"omitted defaults to descending", "", "desc"},
		{"desc honored", "desc", "desc"},
		{"DESC case-insensitive", "DESC", "desc"},
		{"asc honored", "asc", "asc"},
		{"ASC case-insensitive", "ASC", "asc"},
		{"unrecognized value falls back to ascending", "sideways", "asc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, orderDirection(tt.order))
		})
	}
}
