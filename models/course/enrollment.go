package course

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment statuses. An enrollment only ever moves forward:
// pending -> enrolled -> completed.
const (
	StatusPending   = "pending"
	StatusEnrolled  = "enrolled"
	StatusCompleted = "completed"
)

// Payment methods accepted at enrollment time
const (
	PaymentMethodPoints = "points"
	PaymentMethodYape   = "yape"
	PaymentMethodPlin   = "plin"
	PaymentMethodCard   = "card"
)

// Enrollment tracks a user's membership in a course. The composite unique
// index is the guard against duplicate enrollments under concurrent requests.
type Enrollment struct {
	gorm.Model
	UserID        uint       `json:"user_id" gorm:"not null;uniqueIndex:idx_enrollment_user_course"`
	CourseID      uint       `json:"course_id" gorm:"not null;uniqueIndex:idx_enrollment_user_course"`
	Status        string     `json:"status" gorm:"default:'pending'"`
	PaymentMethod string     `json:"payment_method"`
	ProofURL      string     `json:"proof_url"`
	CompletedAt   *time.Time `json:"completed_at"`
	IsDeleted     bool       `json:"-" gorm:"default:false"`
}

// IsMonetaryMethod reports whether the payment method requires admin approval
// for paid courses.
func IsMonetaryMethod(method string) bool {
	switch method {
	case PaymentMethodYape, PaymentMethodPlin, PaymentMethodCard:
		return true
	}
	return false
}
