package model

import (
	"fmt"
	"quiz_rating_backend/internal/util"
)

// Category 评分计数列名，仅允许下列 8 个取值
type Category string

const (
	CategoryObjectsType1 Category = "category_objects_type1"
	CategoryObjectsType2 Category = "category_objects_type2"
	CategoryActionsType1 Category = "category_actions_type1"
	CategoryActionsType2 Category = "category_actions_type2"
	CategoryActionsType3 Category = "category_actions_type3"
	CategorySkillsType1  Category = "category_skills_type1"
	CategorySkillsType2  Category = "category_skills_type2"
	CategorySkillsType3  Category = "category_skills_type3"
)

type categoryKey struct {
	level Level
	typ   Type
}

var categories = map[categoryKey]Category{
	{Level1, Type1}: CategoryObjectsType1,
	{Level1, Type2}: CategoryObjectsType2,
	{Level2, Type1}: CategoryActionsType1,
	{Level2, Type2}: CategoryActionsType2,
	{Level2, Type3}: CategoryActionsType3,
	{Level3, Type1}: CategorySkillsType1,
	{Level3, Type2}: CategorySkillsType2,
	{Level3, Type3}: CategorySkillsType3,
}

// CategoryFor 返回 (level, type) 对应的计数列，组合不存在时返回 ErrUnknownCategory
func CategoryFor(level Level, typ Type) (Category, error) {
	c, ok := categories[categoryKey{level, typ}]
	if !ok {
		return "", fmt.Errorf("%w: category_%s_%s", util.ErrUnknownCategory, level, typ)
	}
	return c, nil
}

// Categories 返回全部合法分类
func Categories() []Category {
	return []Category{
		CategoryObjectsType1, CategoryObjectsType2,
		CategoryActionsType1, CategoryActionsType2, CategoryActionsType3,
		CategorySkillsType1, CategorySkillsType2, CategorySkillsType3,
	}
}

// Column 返回数据库列名
func (c Category) Column() string {
	return string(c)
}

// swagger:model TestRating
type TestRating struct {
	BaseModel
	UserID               *uint `gorm:"index" json:"userId,omitempty"`
	CategoryObjectsType1 int   `gorm:"column:category_objects_type1;not null;default:0" json:"categoryObjectsType1"`
	CategoryObjectsType2 int   `gorm:"column:category_objects_type2;not null;default:0" json:"categoryObjectsType2"`
	CategoryActionsType1 int   `gorm:"column:category_actions_type1;not null;default:0" json:"categoryActionsType1"`
	CategoryActionsType2 int   `gorm:"column:category_actions_type2;not null;default:0" json:"categoryActionsType2"`
	CategoryActionsType3 int   `gorm:"column:category_actions_type3;not null;default:0" json:"categoryActionsType3"`
	CategorySkillsType1  int   `gorm:"column:category_skills_type1;not null;default:0" json:"categorySkillsType1"`
	CategorySkillsType2  int   `gorm:"column:category_skills_type2;not null;default:0" json:"categorySkillsType2"`
	CategorySkillsType3  int   `gorm:"column:category_skills_type3;not null;default:0" json:"categorySkillsType3"`
	CorrectAll           int   `gorm:"column:correct_all;not null;default:0" json:"correctAll"`
	Time                 int   `gorm:"column:time;not null;default:0" json:"time"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (TestRating) TableName() string {
	return "test_ratings"
}

// Counter 返回分类计数字段的指针，未知分类返回 nil
func (r *TestRating) Counter(c Category) *int {
	switch c {
	case CategoryObjectsType1:
		return &r.CategoryObjectsType1
	case CategoryObjectsType2:
		return &r.CategoryObjectsType2
	case CategoryActionsType1:
		return &r.CategoryActionsType1
	case CategoryActionsType2:
		return &r.CategoryActionsType2
	case CategoryActionsType3:
		return &r.CategoryActionsType3
	case CategorySkillsType1:
		return &r.CategorySkillsType1
	case CategorySkillsType2:
		return &r.CategorySkillsType2
	case CategorySkillsType3:
		return &r.CategorySkillsType3
	}
	return nil
}

// CategorySum 为 8 个分类计数之和，应与 CorrectAll 相等
func (r *TestRating) CategorySum() int {
	sum := 0
	for _, c := range Categories() {
		sum += *r.Counter(c)
	}
	return sum
}

// Reset 清零全部计数，用于重新计算
func (r *TestRating) Reset() {
	for _, c := range Categories() {
		*r.Counter(c) = 0
	}
	r.CorrectAll = 0
	r.Time = 0
}
