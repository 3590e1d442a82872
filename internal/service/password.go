package service

import (
	"fmt"
	"quiz_rating_backend/internal/util"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

// PasswordHasher bcrypt 封装，Cost 来自配置
type PasswordHasher struct {
	Cost int
}

func (h PasswordHasher) Hash(password string) (string, error) {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return "", fmt.Errorf("%w: password must be at least %d characters", util.ErrValidation, minPasswordLength)
	}
	// bcrypt 只取前 72 字节，超出部分会被静默忽略
	if len(password) > 72 {
		return "", fmt.Errorf("%w: password must be at most 72 bytes", util.ErrValidation)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (h PasswordHasher) Compare(hashed, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password))
}
