package course

import "gorm.io/gorm"

// Video represents a playable video within a module
type Video struct {
	gorm.Model
	ModuleID   uint   `json:"module_id" gorm:"index;not null"`
	Title      string `json:"title"`
	VideoURL   string `json:"video_url" gorm:"type:varchar(255)"`
	OrderIndex int    `json:"order_index" gorm:"default:1"` // Video order in module
	IsDeleted  bool   `json:"-" gorm:"default:false"`
}
