package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"happytummy/internal/digestion"
	"happytummy/internal/models"
)

// sesAPI is the part of the SES v2 client the service uses
type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// EmailService handles sending emails via Amazon SES
type EmailService struct {
	client     sesAPI
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
	debug      bool
}

// NewEmailService creates a new email service. An empty fromEmail yields a disabled service.
func NewEmailService(ctx context.Context, awsRegion, fromEmail, fromName, appBaseURL string, debug bool) (*EmailService, error) {
	if fromEmail == "" {
		slog.Info("email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{enabled: false, debug: debug}, nil
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(awsRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	slog.Info("email service enabled", "from", fromEmail, "region", awsRegion)
	return newEmailService(sesv2.NewFromConfig(cfg), fromEmail, fromName, appBaseURL, debug), nil
}

func newEmailService(client sesAPI, fromEmail, fromName, appBaseURL string, debug bool) *EmailService {
	return &EmailService{
		client:     client,
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: strings.TrimRight(appBaseURL, "/"),
		enabled:    true,
		debug:      debug,
	}
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendWelcomeEmail sends a welcome email to new users
func (s *EmailService) SendWelcomeEmail(ctx context.Context, toEmail, toName string) error {
	if !s.enabled {
		s.logSkip(ctx, "welcome", toEmail)
		return nil
	}

	subject := "Welcome to Happy Tummy!"
	textBody := fmt.Sprintf(`Hi %s,

Thank you for creating your Happy Tummy account.

Here's what you can do next:
- Add your child's profile and any allergies
- Log stool type, hydration and meals once a day
- Check daily insights and feeding recommendations

Get started: %s

---
This is an automated email from Happy Tummy. Please do not reply.
`, toName, s.appBaseURL)

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
	<h1>Welcome to Happy Tummy!</h1>
	<p>Hi %s,</p>
	<p>Thank you for creating your Happy Tummy account.</p>
	<ul>
		<li>Add your child's profile and any allergies</li>
		<li>Log stool type, hydration and meals once a day</li>
		<li>Check daily insights and feeding recommendations</li>
	</ul>
	<p><a href="%s">Get started</a></p>
	<p style="font-size: 12px; color: #666;">This is an automated email from Happy Tummy. Please do not reply.</p>
</body>
</html>
`, html.EscapeString(toName), s.appBaseURL)

	return s.sendEmail(ctx, []string{toEmail}, subject, htmlBody, textBody)
}

// SendCautionAlert tells a family's caregivers that a child's latest log needs attention
func (s *EmailService) SendCautionAlert(ctx context.Context, recipients []models.User, child *models.Child, insight digestion.DailyInsight) error {
	to := make([]string, 0, len(recipients))
	for _, u := range recipients {
		if u.Email != "" {
			to = append(to, u.Email)
		}
	}
	if len(to) == 0 {
		return nil
	}
	if !s.enabled {
		s.logSkip(ctx, "caution alert", strings.Join(to, ","))
		return nil
	}

	subject := fmt.Sprintf("%s: %s", child.Name, insight.Title)

	var text strings.Builder
	fmt.Fprintf(&text, "Today's log for %s was compared with the previous one.\n\n%s\n\n", child.Name, insight.Description)
	for _, suggestion := range insight.Suggestions {
		fmt.Fprintf(&text, "- %s\n", suggestion)
	}
	fmt.Fprintf(&text, "\nOpen Happy Tummy: %s\n\n---\nThis is an automated email from Happy Tummy. Please do not reply.\n", s.appBaseURL)

	var items strings.Builder
	for _, suggestion := range insight.Suggestions {
		fmt.Fprintf(&items, "\t\t<li>%s</li>\n", html.EscapeString(suggestion))
	}
	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
	<h1>%s</h1>
	<p>Today's log for %s was compared with the previous one.</p>
	<p>%s</p>
	<ul>
%s	</ul>
	<p><a href="%s">Open Happy Tummy</a></p>
	<p style="font-size: 12px; color: #666;">This is an automated email from Happy Tummy. Please do not reply.</p>
</body>
</html>
`, html.EscapeString(insight.Title), html.EscapeString(child.Name), html.EscapeString(insight.Description), items.String(), s.appBaseURL)

	return s.sendEmail(ctx, to, subject, htmlBody, text.String())
}

func (s *EmailService) logSkip(ctx context.Context, kind, to string) {
	slog.InfoContext(ctx, "skipping email send (service disabled)", "kind", kind, "to", to)
}

// sendEmail sends an email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, to []string, subject, htmlBody, textBody string) error {
	if s.client == nil {
		return errors.New("email client not configured")
	}

	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	if s.debug {
		slog.DebugContext(ctx, "sending email", "from", fromAddress, "to", to, "subject", subject,
			"html_bytes", len(htmlBody), "text_bytes", len(textBody))
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: to,
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", strings.Join(to, ","), err)
	}

	attrs := []any{"to", to, "subject", subject}
	if result != nil && result.MessageId != nil {
		attrs = append(attrs, "message_id", *result.MessageId)
	}
	slog.InfoContext(ctx, "email sent", attrs...)
	return nil
}
