package models

import "time"

// SettingsRowID is the primary key of the single row kept in each settings table.
const SettingsRowID = 1

type SystemSettings struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	SiteName     string    `gorm:"size:200" json:"siteName" binding:"required,notblank,max=200"`
	LogoURL      string    `gorm:"size:500" json:"logoUrl,omitempty" binding:"omitempty,url"`
	ContactEmail string    `gorm:"size:200" json:"contactEmail,omitempty" binding:"omitempty,email"`
	Currency     string    `gorm:"size:3" json:"currency" binding:"required,len=3"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type EmailSettings struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	SMTPHost    string    `gorm:"size:200" json:"smtpHost" binding:"required,notblank"`
	SMTPPort    int       `json:"smtpPort" binding:"required,gt=0,lte=65535"`
	Username    string    `gorm:"size:200" json:"username,omitempty"`
	Password    string    `gorm:"size:200" json:"password,omitempty"`
	FromAddress string    `gorm:"size:200" json:"fromAddress" binding:"required,email"`
	FromName    string    `gorm:"size:200" json:"fromName,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type PaymentSettings struct {
	ID             uint      `gorm:"primaryKey" json:"-"`
	Provider       string    `gorm:"size:50" json:"provider" binding:"required,notblank"`
	PublishableKey string    `gorm:"size:200" json:"publishableKey,omitempty"`
	SecretKey      string    `gorm:"size:200" json:"secretKey,omitempty"`
	Currency       string    `gorm:"size:3" json:"currency" binding:"required,len=3"`
	Enabled        bool      `gorm:"not null" json:"enabled"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
