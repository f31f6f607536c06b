package service

import (
	"context"
	"fmt"

	"facility-admin-backend/internal/logger"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// MailSender is the part of the SendGrid client the email service needs.
type MailSender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

type emailService struct {
	sender    MailSender
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return NewEmailServiceWithSender(sendgrid.NewSendClient(apiKey), fromEmail, fromName)
}

func NewEmailServiceWithSender(sender MailSender, fromEmail, fromName string) EmailService {
	return &emailService{
		sender:    sender,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *emailService) SendApprovalNotification(ctx context.Context, email, name, orgName string) error {
	subject := fmt.Sprintf("Welcome to %s", orgName)
	body := fmt.Sprintf("Hello %s,\n\nYour request to join %s has been approved. You can now sign in to your dashboard.\n\nBest regards,\nThe %s Team", name, orgName, s.fromName)
	return s.send(ctx, "SendApprovalNotification", email, name, subject, body)
}

func (s *emailService) SendRejectionNotification(ctx context.Context, email, name, orgName string) error {
	subject := fmt.Sprintf("Your request to join %s", orgName)
	body := fmt.Sprintf("Hello %s,\n\nYour request to join %s was not approved. Please contact the organization if you think this is a mistake.\n\nBest regards,\nThe %s Team", name, orgName, s.fromName)
	return s.send(ctx, "SendRejectionNotification", email, name, subject, body)
}

func (s *emailService) send(ctx context.Context, operation, to, toName, subject, plainText string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewV3MailInit(from, subject, recipient, mail.NewContent("text/plain", plainText))

	logger.ExternalServiceCall("sendgrid", operation, "to", to)
	response, err := s.sender.SendWithContext(ctx, message)
	if err != nil {
		err = fmt.Errorf("failed to send email: %w", err)
		logger.ExternalServiceResult("sendgrid", operation, err)
		return err
	}
	if response.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
		logger.ExternalServiceResult("sendgrid", operation, err)
		return err
	}
	logger.ExternalServiceResult("sendgrid", operation, nil, "status", response.StatusCode)
	return nil
}

// NoopEmailService is used when no email provider is configured.
type NoopEmailService struct{}

func (NoopEmailService) SendApprovalNotification(ctx context.Context, email, name, orgName string) error {
	return nil
}

func (NoopEmailService) SendRejectionNotification(ctx context.Context, email, name, orgName string) error {
	return nil
}
