package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/inkhaus/studio-api/config"
	"github.com/inkhaus/studio-api/internal/model"
)

type Service interface {
	SendBookingConfirmation(ctx context.Context, to string, appointment *model.Appointment) error
	SendCancellation(ctx context.Context, to string, appointment *model.Appointment, refundable bool) error
	SendReminder(ctx context.Context, to string, appointment *model.Appointment) error
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPService(cfg config.SMTPConfig) Service {
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpService) SendBookingConfirmation(ctx context.Context, to string, apt *model.Appointment) error {
	body := fmt.Sprintf(
		"Your session is booked for %s.\n\nA deposit of %s secures your slot; your booking is confirmed once it is paid.",
		formatSlot(apt), formatDeposit(apt.DepositAmount),
	)
	return s.send(ctx, to, "Your booking request is in", body)
}

func (s *smtpService) SendCancellation(ctx context.Context, to string, apt *model.Appointment, refundable bool) error {
	depositLine := "Per studio policy the deposit for this booking is not refundable."
	if refundable {
		depositLine = "Your deposit will be refunded to the original payment method."
	}
	body := fmt.Sprintf(
		"Your session on %s has been cancelled.\n\n%s",
		formatSlot(apt), depositLine,
	)
	return s.send(ctx, to, "Booking cancelled", body)
}

func (s *smtpService) SendReminder(ctx context.Context, to string, apt *model.Appointment) error {
	body := fmt.Sprintf(
		"A reminder that your session is coming up on %s.\n\nPlease arrive well rested and hydrated.",
		formatSlot(apt),
	)
	return s.send(ctx, to, "Your session is coming up", body)
}

func (s *smtpService) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

func formatSlot(apt *model.Appointment) string {
	const layout = "Monday, January 2 2006 at 15:04 MST"
	start := apt.StartTime.Format(layout)
	if apt.EndTime == nil {
		return start
	}
	return fmt.Sprintf("%s until %s", start, apt.EndTime.Format("15:04 MST"))
}

func formatDeposit(amount *int64) string {
	if amount == nil {
		return "the quoted amount"
	}
	return fmt.Sprintf("%d", *amount)
}
