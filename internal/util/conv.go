package util

import (
	"strconv"
)

// ParseID 解析路径中的正整数 id
func ParseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil || id == 0 {
		return 0, BadRequestError("Invalid id: %s", s)
	}
	return uint(id), nil
}
