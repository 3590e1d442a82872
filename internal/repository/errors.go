package repository

import (
	"errors"
	"fmt"
	"quiz_rating_backend/internal/util"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IsDuplicateKey 兼容各驱动的唯一约束冲突
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "duplicate key")
}

// translate 把 gorm 错误转换为领域错误
func translate(err error, op string, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	case IsDuplicateKey(err):
		return fmt.Errorf("%w: %s", util.ErrDuplicate, op)
	default:
		return util.StoreError(op, err)
	}
}

func forUpdate(db *gorm.DB) *gorm.DB {
	// SQLite 不支持 FOR UPDATE，单写者本身已串行
	if db.Dialector.Name() == "sqlite" {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}
