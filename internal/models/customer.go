package models

type Customer struct {
	Base
	Name        string  `gorm:"size:200;not null" json:"name"`
	Email       *string `gorm:"size:200;uniqueIndex" json:"email,omitempty"`
	Phone       string  `gorm:"size:50" json:"phone,omitempty"`
	Address     string  `gorm:"type:text" json:"address,omitempty"`
	EmailOptOut bool    `gorm:"not null" json:"emailOptOut"`
	Tags        []Tag   `gorm:"many2many:customer_tags" json:"tags,omitempty"`
}

type Tag struct {
	Base
	Name  string `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Color string `gorm:"size:20" json:"color,omitempty"`
}
