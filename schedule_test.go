package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatWeekdays(t *testing.T) {
	tests := []struct {
		name     string
		days     []string
		expected string
	}{
		{"every day", []string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}, "every day"},
		{"range", []string{"mon", "tue", "wed", "thu", "fri"}, "Mon–Fri"},
		{"single day", []string{"wed"}, "Wed"},
		{"none", nil, "no days"},
		// Hand-edited configs may carry already-capitalized days.
		{"already capitalized", []string{"Mon"}, "Mon"},
		{"mixed case range", []string{"Mon", "tue", "Fri"}, "Mon–Fri"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatWeekdays(tt.days))
		})
	}
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Mon", capitalize("mon"))
	assert.Equal(t, "Mon", capitalize("Mon"))
	assert.Equal(t, "", capitalize(""))
}
