package service

import (
	"context"
	"fmt"

	"library-lending-backend/internal/logger"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// mailClient is the part of the SendGrid client the email service needs.
type mailClient interface {
	Send(email *mail.SGMailV3) (*rest.Response, error)
}

type sendGridEmailService struct {
	client    mailClient
	fromEmail string
	fromName  string
}

func NewSendGridEmailService(apiKey, fromEmail, fromName string) EmailService {
	return newSendGridEmailService(sendgrid.NewSendClient(apiKey), fromEmail, fromName)
}

func newSendGridEmailService(client mailClient, fromEmail, fromName string) *sendGridEmailService {
	return &sendGridEmailService{
		client:    client,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *sendGridEmailService) SendReservationReady(ctx context.Context, email, name, title, pickupDate string) error {
	subject := fmt.Sprintf("Ready for pickup: %s", title)
	plain := fmt.Sprintf("Hello %s,\n\nYour reserved copy of %q is waiting for you. Please collect it by %s, after which the hold is released to the next reader.\n\nThe Library", name, title, pickupDate)
	html := fmt.Sprintf("<p>Hello %s,</p><p>Your reserved copy of <strong>%s</strong> is waiting for you. Please collect it by <strong>%s</strong>, after which the hold is released to the next reader.</p><p>The Library</p>", name, title, pickupDate)
	return s.send(ctx, "reservation_ready", email, name, subject, plain, html)
}

func (s *sendGridEmailService) SendOverdueReminder(ctx context.Context, email, name, title, dueDate string) error {
	subject := fmt.Sprintf("Overdue: %s", title)
	plain := fmt.Sprintf("Hello %s,\n\n%q was due back on %s. Please return it as soon as you can; you cannot borrow other books until it is back.\n\nThe Library", name, title, dueDate)
	html := fmt.Sprintf("<p>Hello %s,</p><p><strong>%s</strong> was due back on %s. Please return it as soon as you can; you cannot borrow other books until it is back.</p><p>The Library</p>", name, title, dueDate)
	return s.send(ctx, "overdue_reminder", email, name, subject, plain, html)
}

func (s *sendGridEmailService) send(ctx context.Context, kind, to, toName, subject, plain, html string) error {
	logger.ExternalServiceCall("sendgrid", kind, "to", to)

	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, plain, html)

	response, err := s.client.Send(message)
	if err != nil {
		err = fmt.Errorf("failed to send %s email: %w", kind, err)
	} else if response.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}

	logger.ExternalServiceResult("sendgrid", kind, err, "to", to)
	return err
}

// logEmailService stands in when no SendGrid key is configured.
type logEmailService struct{}

func NewLogEmailService() EmailService {
	return logEmailService{}
}

func (logEmailService) SendReservationReady(ctx context.Context, email, name, title, pickupDate string) error {
	logger.InfoContext(ctx, "Reservation ready notice", "to", email, "title", title, "pickup_date", pickupDate)
	return nil
}

func (logEmailService) SendOverdueReminder(ctx context.Context, email, name, title, dueDate string) error {
	logger.InfoContext(ctx, "Overdue reminder", "to", email, "title", title, "due_date", dueDate)
	return nil
}
