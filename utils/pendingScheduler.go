package utils

import (
	"lms/database"
	"lms/models"
	"log"

	"github.com/robfig/cron/v3"
)

// InitializePendingPaymentScheduler sets up the daily pending payments digest
func InitializePendingPaymentScheduler() {
	log.Println("[PENDING-SCHEDULER] Initializing pending payment scheduler...")

	c := cron.New()

	// Run daily at 9 AM to remind admins about unreviewed payments
	c.AddFunc("0 9 * * *", func() {
		log.Println("[PENDING-SCHEDULER] Running daily pending payments check...")
		ProcessPendingPaymentsDigest()
	})

	c.Start()
	log.Println("[PENDING-SCHEDULER] Pending payment scheduler started - runs daily at 9 AM")
}

// ProcessPendingPaymentsDigest emails every admin the number of enrollments
// still awaiting approval
func ProcessPendingPaymentsDigest() {
	db := database.Database.Db

	var pendingCount int64
	if err := db.Table("enrollments").
		Where("status = ? AND is_deleted = ?", "pending", false).
		Count(&pendingCount).Error; err != nil {
		log.Printf("[PENDING-SCHEDULER] Error counting pending enrollments: %v", err)
		return
	}

	if pendingCount == 0 {
		log.Println("[PENDING-SCHEDULER] No pending payments, nothing to send")
		return
	}

	var admins []models.User
	if err := db.Where("role = ? AND is_deleted = ?", "ADMIN", false).Find(&admins).Error; err != nil {
		log.Printf("[PENDING-SCHEDULER] Error fetching admins: %v", err)
		return
	}

	log.Printf("[PENDING-SCHEDULER] %d pending payment(s), notifying %d admin(s)", pendingCount, len(admins))

	for _, admin := range admins {
		SendPendingPaymentsDigestEmail(admin.Email, admin.Name, pendingCount)
	}
}
