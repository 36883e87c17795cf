package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User 代表車輛管理系統中的使用者
// 密碼只儲存 bcrypt 雜湊值
type User struct {
	gorm.Model

	ID           uuid.UUID `gorm:"type:uuid;primaryKey;<-:create"`
	Username     string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
}

func (user *User) BeforeCreate(tx *gorm.DB) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return nil
}
