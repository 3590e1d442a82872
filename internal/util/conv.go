package util

import (
	"fmt"
	"strconv"
)

// ParseID 解析路径中的正整数 ID
func ParseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: invalid id %q", ErrValidation, s)
	}
	return uint(id), nil
}

// ParseIntDefault 解析查询参数，为空时使用默认值
func ParseIntDefault(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrValidation, s)
	}
	return n, nil
}
