package models

import "gorm.io/gorm"

type User struct {
	gorm.Model
	Username string `gorm:"type:varchar(100);uniqueIndex;not null"`
	Name     string `gorm:"type:varchar(100)"`
	Email    string `gorm:"type:varchar(191);uniqueIndex;not null"`
	// PasswordHash is nil for accounts created through a federated
	// provider; those users cannot sign in with credentials.
	PasswordHash *string `gorm:"type:varchar(255)"`
	AvatarKey    string  `gorm:"type:varchar(255)"`
}

func (User) TableName() string {
	return "users"
}

// HasPassword reports whether the account carries a local credential.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// DisplayName is what notification emails address the user as.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}
