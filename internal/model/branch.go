package model

// Branch is a physical shop location. Orders are registered at one branch and
// may be picked up at another.
type Branch struct {
	BaseModel
	Name     string `gorm:"type:varchar(120);uniqueIndex;not null" json:"name" validate:"required"`
	Address  string `gorm:"type:varchar(255)" json:"address"`
	IsActive bool   `gorm:"default:true" json:"is_active"`
}

type Customer struct {
	BaseModel
	FullName    string `gorm:"type:varchar(255);not null" json:"full_name" validate:"required"`
	PhoneNumber string `gorm:"type:varchar(30);index" json:"phone_number"`
	Email       string `gorm:"type:varchar(255)" json:"email,omitempty"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`
}
