package model

import (
	"fmt"
	"quiz_rating_backend/internal/util"
)

// Level 题目层级，存储值为语义名称
type Level string

const (
	Level1 Level = "objects"
	Level2 Level = "actions"
	Level3 Level = "skills"
)

// Type 层级内的题目子类型
type Type string

const (
	Type1 Type = "type1"
	Type2 Type = "type2"
	Type3 Type = "type3"
)

var (
	levelNames = map[string]Level{"LEVEL_1": Level1, "LEVEL_2": Level2, "LEVEL_3": Level3}
	typeNames  = map[string]Type{"TYPE_1": Type1, "TYPE_2": Type2, "TYPE_3": Type3}
)

// Levels 按 LEVEL_1..LEVEL_3 顺序返回全部层级
func Levels() []Level {
	return []Level{Level1, Level2, Level3}
}

// ParseLevel 接受取值（objects）或枚举名（LEVEL_1）
func ParseLevel(s string) (Level, error) {
	switch l := Level(s); l {
	case Level1, Level2, Level3:
		return l, nil
	}
	if l, ok := levelNames[s]; ok {
		return l, nil
	}
	return "", fmt.Errorf("%w: level %q", util.ErrInvalidEnum, s)
}

// ParseType 接受取值（type1）或枚举名（TYPE_1）
func ParseType(s string) (Type, error) {
	switch t := Type(s); t {
	case Type1, Type2, Type3:
		return t, nil
	}
	if t, ok := typeNames[s]; ok {
		return t, nil
	}
	return "", fmt.Errorf("%w: type %q", util.ErrInvalidEnum, s)
}

// swagger:model Item
type Item struct {
	BaseModel
	Question      string `gorm:"size:512;not null;uniqueIndex" json:"question"`
	Option1       string `gorm:"size:255;not null" json:"option1"`
	Option2       string `gorm:"size:255;not null" json:"option2"`
	Option3       string `gorm:"size:255;not null" json:"option3"`
	Option4       string `gorm:"size:255;not null" json:"option4"`
	CorrectAnswer string `gorm:"size:255;not null" json:"correctAnswer"`
	Timer         int    `gorm:"not null;default:0" json:"timer"`
	Level         Level  `gorm:"size:16;not null;index" json:"level"`
	Type          Type   `gorm:"size:16;not null" json:"type"`
}

func (Item) TableName() string {
	return "test_items"
}

// Options 按 option1..option4 顺序返回候选答案
func (i *Item) Options() []string {
	return []string{i.Option1, i.Option2, i.Option3, i.Option4}
}

// UnmarshalText 让 JSON 绑定在边界处完成枚举校验
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

func (t *Type) UnmarshalText(text []byte) error {
	parsed, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
