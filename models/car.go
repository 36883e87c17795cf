package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Car 代表車輛管理系統中的一筆車輛資料
// 包含標題、描述、標籤與圖片參照，以及建立者的使用者 ID
type Car struct {
	gorm.Model

	ID          uuid.UUID `gorm:"type:uuid;primaryKey;<-:create"`
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index;<-:create"`
	Title       string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text;not null"`
	Tags        []string  `gorm:"serializer:json;type:text"`
	Images      []string  `gorm:"serializer:json;type:text"`

	// 外鍵關聯
	Owner *User `gorm:"foreignKey:OwnerID"`
}

func (car *Car) BeforeCreate(tx *gorm.DB) error {
	if car.ID == uuid.Nil {
		car.ID = uuid.New()
	}
	return nil
}
