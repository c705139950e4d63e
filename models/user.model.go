package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Name      string `json:"name" gorm:"default:''"`
	Email     string `json:"email" gorm:"unique;not null"`
	Password  string `json:"-" gorm:"not null"`
	Role      string `json:"role" gorm:"default:'USER'"` // USER, ADMIN
	Points    uint   `json:"points" gorm:"default:0"`
	IsDeleted bool   `json:"-" gorm:"default:false"`
}
