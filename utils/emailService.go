package utils

import (
	"fmt"
	"lms/config"
	"log"
	"net/smtp"
)

func SendEmail(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	msg := "From: " + from + "\n" +
		"To: " + to[0] + "\n" +
		"Subject: " + subject + "\n" +
		"MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n" +
		htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
	if err != nil {
		log.Printf("Error sending email to %s: %v", to[0], err)
		return err
	}

	return nil
}

func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<html>
	<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
		<div style="max-width: 600px; margin: auto; background: #ffffff; padding: 24px; border-radius: 8px;">
			<h2 style="color: #1e293b;">%s</h2>
			%s
			<p style="color: #64748b; font-size: 12px; margin-top: 24px;">
				This is an automated message, please do not reply.
			</p>
		</div>
	</body>
	</html>`, title, bodyContent)
}

func SendWelcomeEmail(email, name string) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Welcome aboard! Your account is ready. Browse the catalog, enroll in
		courses and earn points as you complete them.</p>`, name)

	if err := SendEmail([]string{email}, "Welcome!", getEmailTemplate("Welcome!", body)); err != nil {
		log.Printf("Failed to send welcome email to %s: %v", email, err)
	}
}

func SendEnrollmentApprovedEmail(email, name, courseTitle string) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your payment was approved and you are now enrolled in <b>%s</b>.
		Happy learning!</p>`, name, courseTitle)

	if err := SendEmail([]string{email}, "Enrollment approved", getEmailTemplate("Enrollment approved", body)); err != nil {
		log.Printf("Failed to send approval email to %s: %v", email, err)
	}
}

func SendCourseCompletedEmail(email, name, courseTitle string, reward uint) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Congratulations, you completed <b>%s</b>!</p>
		<p><b>%d points</b> have been credited to your balance.</p>`, name, courseTitle, reward)

	if err := SendEmail([]string{email}, "Course completed", getEmailTemplate("Course completed", body)); err != nil {
		log.Printf("Failed to send completion email to %s: %v", email, err)
	}
}

func SendPendingPaymentsDigestEmail(email, name string, count int64) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>There are <b>%d</b> payment(s) waiting for review. Oldest requests
		first, please.</p>`, name, count)

	if err := SendEmail([]string{email}, "Pending payments digest", getEmailTemplate("Pending payments", body)); err != nil {
		log.Printf("Failed to send digest email to %s: %v", email, err)
	}
}
