// Package testutil 为测试提供内存 SQLite 数据库与常用数据
package testutil

import (
	"fmt"
	"quiz_rating_backend/internal/config"
	"quiz_rating_backend/internal/model"
	"quiz_rating_backend/pkg/database"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const TestSecret = "test-secret-test-secret-test-secret"

// NewDB 打开已迁移的内存数据库，单连接保证所有会话看到同一份数据
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), gormlogger.Silent)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// Config 测试用配置，bcrypt 使用最低 cost
func Config() *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{Port: "0", Mode: "test"},
		Database: config.DatabaseConfig{Driver: "sqlite"},
		JWT: config.JWTConfig{
			Secret:     TestSecret,
			ExpireTime: time.Hour,
		},
		Security: config.SecurityConfig{BcryptCost: bcrypt.MinCost},
	}
}

// CreateItems 创建 n 道题，正确答案为 option1
func CreateItems(t testing.TB, db *gorm.DB, level model.Level, typ model.Type, n int) []model.Item {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&model.Item{}).Count(&count).Error)

	items := make([]model.Item, 0, n)
	for i := 0; i < n; i++ {
		item := model.Item{
			Question:      fmt.Sprintf("%s/%s question %d", level, typ, int(count)+i),
			Option1:       "A",
			Option2:       "B",
			Option3:       "C",
			Option4:       "D",
			CorrectAnswer: "A",
			Level:         level,
			Type:          typ,
		}
		require.NoError(t, db.Create(&item).Error)
		items = append(items, item)
	}
	return items
}

func HashPassword(t testing.TB, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hashed)
}

func CreateUser(t testing.TB, db *gorm.DB, number, password string) *model.User {
	t.Helper()
	user := &model.User{
		FirstName: "Test",
		LastName:  "User",
		Number:    number,
		Password:  HashPassword(t, password),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func CreateAdmin(t testing.TB, db *gorm.DB, number, password string) *model.Admin {
	t.Helper()
	admin := &model.Admin{
		FirstName: "Test",
		LastName:  "Admin",
		Number:    number,
		Password:  HashPassword(t, password),
	}
	require.NoError(t, db.Create(admin).Error)
	return admin
}
