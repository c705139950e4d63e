package course

import "gorm.io/gorm"

// VideoProgress tracks a user's completion of a single video. The composite
// unique index makes the "mark watched" action idempotent at the store level.
type VideoProgress struct {
	gorm.Model
	UserID      uint `json:"user_id" gorm:"not null;uniqueIndex:idx_progress_user_video"`
	VideoID     uint `json:"video_id" gorm:"not null;uniqueIndex:idx_progress_user_video"`
	IsCompleted bool `json:"is_completed" gorm:"default:false"`
}
