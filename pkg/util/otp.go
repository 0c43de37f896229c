package util

import (
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"net/smtp"

	"github.com/rapex-ph/onboarding-backend/config"
)

// OTPLength is the number of digits in a verification code.
const OTPLength = 6

// GenerateVerificationCode generates a random 6-digit code
func GenerateVerificationCode() (string, error) {
	max := big.NewInt(1000000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// SendVerificationEmail sends the registration verification code via SMTP
func SendVerificationEmail(cfg config.SMTPConfig, toEmail, ownerName, code string) error {
	// Dev mode: without SMTP credentials, only log the code
	if cfg.Email == "" || cfg.Password == "" {
		log.Printf("[DEV MODE] Verification code for %s: %s", toEmail, code)
		return nil
	}

	subject := "Verify Your Rapex Merchant Registration"
	body := fmt.Sprintf(`
<html>
<body style="font-family: Arial, sans-serif; padding: 20px; background-color: #f5f5f5;">
	<div style="max-width: 600px; margin: 0 auto; background-color: white; padding: 40px; border-radius: 10px;">
		<h1 style="color: #333; margin-bottom: 20px;">Verify your email</h1>
		<p style="color: #666; line-height: 1.6; margin-bottom: 30px;">
			Dear %s,<br><br>
			Thank you for registering as a Rapex merchant!<br>
			Enter the code below to verify your email address.
		</p>
		<div style="background-color: #f8f9fa; padding: 30px; border-radius: 8px; text-align: center; margin-bottom: 30px;">
			<h2 style="color: #333; margin: 0; font-size: 36px; letter-spacing: 4px;">%s</h2>
		</div>
		<p style="color: #999; font-size: 14px; margin-bottom: 10px;">
			* This code expires in 10 minutes.
		</p>
		<p style="color: #999; font-size: 14px;">
			* After verification, our team will review your application and notify you within 1-2 working days.
		</p>
	</div>
</body>
</html>
`, ownerName, code)

	message := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		cfg.Email, toEmail, subject, body,
	))

	auth := smtp.PlainAuth("", cfg.Email, cfg.Password, cfg.Host)

	err := smtp.SendMail(
		cfg.Host+":"+cfg.Port,
		auth,
		cfg.Email,
		[]string{toEmail},
		message,
	)
	if err != nil {
		log.Printf("Failed to send verification email: %v", err)
		return fmt.Errorf("failed to send verification email: %w", err)
	}

	log.Printf("Verification email sent: %s", toEmail)
	return nil
}
