package model

// swagger:model User
type User struct {
	BaseModel
	FirstName       string  `gorm:"size:100;not null" json:"firstName"`
	LastName        string  `gorm:"size:100;not null" json:"lastName"`
	Number          string  `gorm:"size:32;uniqueIndex;not null" json:"number"`
	ParentFirstName string  `gorm:"size:100" json:"parentFirstName"`
	ParentLastName  *string `gorm:"size:100" json:"parentLastName,omitempty"`
	ParentNumber    string  `gorm:"size:32" json:"parentNumber"`
	Birthday        *string `gorm:"size:16" json:"birthday,omitempty"`
	SchoolClass     *int    `json:"schoolClass,omitempty"`
	University      *string `gorm:"size:255" json:"university,omitempty"`
	GroupNumber     *string `gorm:"size:32" json:"groupNumber,omitempty"`
	Password        string  `gorm:"size:100;not null" json:"-"`
	IsBlocked       bool    `gorm:"not null;default:false" json:"isBlocked"`
}

func (User) TableName() string {
	return "users"
}
