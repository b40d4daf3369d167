package handlers

import (
	"errors"
	"strconv"
)

var errInvalidPagination = errors.New("invalid pagination params")

func parsePaginationParams(pageStr, sizeStr string) (int64, int64, error) {
	page := int64(1)
	size := int64(10)

	if pageStr != "" {
		p, err := strconv.ParseInt(pageStr, 10, 64)
		if err != nil || p < 1 {
			return 0, 0, errInvalidPagination
		}
		page = p
	}

	if sizeStr != "" {
		s, err := strconv.ParseInt(sizeStr, 10, 64)
		if err != nil || s < 1 {
			return 0, 0, errInvalidPagination
		}
		size = s
	}

	return page, size, nil
}

func totalPages(total, size int64) int64 {
	if total == 0 {
		return 0
	}
	return (total + size - 1) / size
}
