package models

type PlatformMode string

const (
	PlatformModeLight PlatformMode = "light"
	PlatformModeDark  PlatformMode = "dark"
)

type User struct {
	Base
	FirstName    string       `gorm:"not null" json:"firstname"`
	LastName     string       `gorm:"not null" json:"lastname"`
	Email        string       `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string       `gorm:"not null" json:"-"`
	PlatformMode PlatformMode `gorm:"default:'light'" json:"platform_mode"` // light, dark
}

func (User) TableName() string {
	return "users"
}
