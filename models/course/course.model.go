package course

import "gorm.io/gorm"

// Course represents a course offered on the marketplace
type Course struct {
	gorm.Model
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Price        float64 `json:"price" gorm:"type:decimal(10,2);default:0"` // monetary price, display only
	PointsCost   uint    `json:"points_cost" gorm:"default:0"`
	PointsReward uint    `json:"points_reward" gorm:"default:10"` // credited once on completion
	IsPaid       bool    `json:"is_paid" gorm:"default:false"`
	IsApproved   bool    `json:"is_approved" gorm:"default:false"`
	ImageURL     string  `json:"image_url"`
	IsDeleted    bool    `json:"-" gorm:"default:false"`
}
