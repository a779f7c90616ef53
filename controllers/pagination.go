package controllers

import "strconv"

func parsePagination(pageStr, sizeStr string) (int, int) {
	page := 1
	size := 10
	if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
		page = p
	}
	if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 && s <= 100 {
		size = s
	}
	return page, size
}

func parseOffsetLimit(skipStr, limitStr string) (int, int) {
	skip := 0
	limit := 100
	if s, err := strconv.Atoi(skipStr); err == nil && s >= 0 {
		skip = s
	}
	if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 500 {
		limit = l
	}
	return skip, limit
}

func pageCount(total int64, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}
