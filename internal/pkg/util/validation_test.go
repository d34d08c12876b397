package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Title  string `json:"title" validate:"notblank,max=5"`
	Author string `json:"author,omitempty" validate:"notblank"`
}

func TestValidateDTO(t *testing.T) {
	assert.Nil(t, ValidateDTO(&sample{Title: "ok", Author: "me"}))

	fields := ValidateDTO(&sample{Title: "too long", Author: "   "})
	assert.Equal(t, map[string]string{
		"title":  "title must be at most 5 characters",
		"author": "author must not be blank",
	}, fields)
}

func TestValidateField(t *testing.T) {
	fields := map[string]string{}
	ValidateField(fields, "title", "fine", "notblank,max=200")
	assert.Empty(t, fields)

	// max counts characters, not bytes
	ValidateField(fields, "title", strings.Repeat("가", 200), "notblank,max=200")
	assert.Empty(t, fields)

	ValidateField(fields, "content", "\t\n", "notblank")
	assert.Equal(t, "content must not be blank", fields["content"])
}
