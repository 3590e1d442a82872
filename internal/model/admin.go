package model

// swagger:model Admin
type Admin struct {
	BaseModel
	FirstName string `gorm:"size:100;not null" json:"firstName"`
	LastName  string `gorm:"size:100;not null" json:"lastName"`
	Number    string `gorm:"size:32;uniqueIndex;not null" json:"number"`
	Password  string `gorm:"size:100;not null" json:"-"`
}

func (Admin) TableName() string {
	return "admins"
}

// Role 令牌中的主体角色
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)
