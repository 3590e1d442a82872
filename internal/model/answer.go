package model

import "time"

// Answer 一次作答记录，创建后除 RatingID 外不再修改
// swagger:model Answer
type Answer struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ItemID        uint      `gorm:"not null;uniqueIndex:idx_item_attempt,priority:1" json:"itemId"`
	UserID        *uint     `gorm:"index" json:"userId,omitempty"`
	Response      string    `gorm:"size:255;not null;default:''" json:"response"`
	Correct       bool      `gorm:"not null;default:false;index" json:"correct"`
	AttemptNumber int       `gorm:"not null;uniqueIndex:idx_item_attempt,priority:2" json:"attemptNumber"`
	Timer         int       `gorm:"not null;default:0" json:"timer"`
	AnsweredAt    time.Time `gorm:"not null;index" json:"answeredAt"`
	RatingID      *uint     `gorm:"index" json:"ratingId,omitempty"`

	Item   *Item       `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE" json:"-"`
	User   *User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Rating *TestRating `gorm:"foreignKey:RatingID;constraint:OnDelete:SET NULL" json:"-"`
}

func (Answer) TableName() string {
	return "test_answers"
}
