package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePagination(t *testing.T) {
	page, size := parsePagination("", "")
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, size)

	page, size = parsePagination("3", "25")
	assert.Equal(t, 3, page)
	assert.Equal(t, 25, size)

	// Out-of-range and garbage values fall back to defaults.
	page, size = parsePagination("-1", "1000")
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, size)

	page, size = parsePagination("abc", "xyz")
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, size)
}

func TestParseOffsetLimit(t *testing.T) {
	skip, limit := parseOffsetLimit("", "")
	assert.Equal(t, 0, skip)
	assert.Equal(t, 100, limit)

	skip, limit = parseOffsetLimit("20", "50")
	assert.Equal(t, 20, skip)
	assert.Equal(t, 50, limit)

	skip, limit = parseOffsetLimit("-5", "501")
	assert.Equal(t, 0, skip)
	assert.Equal(t, 100, limit)
}

func TestPageCount(t *testing.T) {
	assert.Equal(t, 0, pageCount(0, 10))
	assert.Equal(t, 1, pageCount(1, 10))
	assert.Equal(t, 1, pageCount(10, 10))
	assert.Equal(t, 2, pageCount(11, 10))
	assert.Equal(t, 0, pageCount(5, 0))
}
