package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// ==============================================
// EMAIL SERVICE
// ==============================================

// emailSendTimeout bounds the delivery round trip so a slow provider cannot
// hold a login request open indefinitely.
const emailSendTimeout = 10 * time.Second

// EmailService delivers OTP emails via Amazon SES
type EmailService struct {
	client    *sesv2.Client
	fromEmail string
	fromName  string
	enabled   bool
}

// NewEmailService creates a new email service. An empty fromEmail yields a
// disabled service that logs codes instead of sending (local development).
func NewEmailService(ctx context.Context, awsRegion, fromEmail, fromName string) (*EmailService, error) {
	if fromEmail == "" {
		log.Println("Email service disabled: SES_FROM_EMAIL not configured, codes will be logged")
		return &EmailService{enabled: false}, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(awsRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, awsRegion)

	return &EmailService{
		client:    sesv2.NewFromConfig(cfg),
		fromEmail: fromEmail,
		fromName:  fromName,
		enabled:   true,
	}, nil
}

// IsEnabled returns whether real delivery is configured
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// ==============================================
// SEND OTP
// ==============================================

// SendOTP delivers a login code. A delivery failure is returned to the
// caller: without the email, no usable code exists.
func (s *EmailService) SendOTP(ctx context.Context, to, code string) error {
	if !s.enabled {
		log.Printf("Email service disabled: OTP for %s is %s", to, code)
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, emailSendTimeout)
	defer cancel()

	subject := "Verification code for CampRep AI"
	textBody := fmt.Sprintf(
		"Your verification code is %s. This code expires in 10 minutes. "+
			"Do not share this code with anyone. If you did not request this, please ignore this email.",
		code,
	)
	htmlBody := fmt.Sprintf(`
<div style="font-family: sans-serif; max-width: 600px; margin: auto; padding: 20px;">
	<h2>CampRep AI</h2>
	<p>Use the following verification code to sign in:</p>
	<div style="padding: 20px; text-align: center;">
		<span style="font-size: 32px; font-weight: bold; letter-spacing: 5px;">%s</span>
	</div>
	<p>This code will expire in <strong>10 minutes</strong>.</p>
	<p>For your security, do not share this code with anyone.
	If you did not request this verification, you can safely ignore this email.</p>
</div>`, code)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(textBody)},
					Html: &types.Content{Data: aws.String(htmlBody)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send OTP email: %w", err)
	}

	return nil
}
