package models

import (
	"time"

	"gorm.io/gorm"
)

// TransactionType defines the type of points transaction
type TransactionType string

const (
	TransactionTypePurchase TransactionType = "PURCHASE"
	TransactionTypeReward   TransactionType = "REWARD"
)

// PointsTransaction tracks every mutation of a user's points balance
type PointsTransaction struct {
	gorm.Model
	UserID          uint            `gorm:"not null;index" json:"userId"`
	TransactionType TransactionType `gorm:"type:varchar(50);not null" json:"transactionType"`
	Amount          uint            `gorm:"not null" json:"amount"`
	BalanceBefore   uint            `gorm:"not null" json:"balanceBefore"`
	BalanceAfter    uint            `gorm:"not null" json:"balanceAfter"`
	Description     string          `gorm:"type:text" json:"description"`

	// Reference details (the course the points moved for)
	ReferenceType string `gorm:"type:varchar(50)" json:"referenceType"`
	ReferenceID   uint   `gorm:"default:0" json:"referenceId"`
	ReferenceName string `gorm:"type:varchar(255)" json:"referenceName"`
	ReferenceCode string `gorm:"type:varchar(100);index" json:"referenceCode"`

	TransactionDate time.Time `gorm:"not null" json:"transactionDate"`
	IsDeleted       bool      `gorm:"default:false" json:"isDeleted"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (PointsTransaction) TableName() string {
	return "points_transactions"
}
