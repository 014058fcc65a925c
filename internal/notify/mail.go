package notify

import (
	"context"
	"fmt"

	"github.com/go-gomail/gomail"

	"github.com/Leganyst/clinic-booking/internal/model"
)

// Sender — подмножество *gomail.Dialer.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// MailSink отправляет уведомление письмом на адрес получателя.
// События без адреса пропускаются.
type MailSink struct {
	sender Sender
	from   string
}

func NewMailSink(sender Sender, from string) *MailSink {
	return &MailSink{sender: sender, from: from}
}

func NewMailDialer(host string, port int, username, password string) *gomail.Dialer {
	return gomail.NewDialer(host, port, username, password)
}

var subjects = map[model.NotificationKind]string{
	model.NotificationAppointmentBooked:    "Appointment booked",
	model.NotificationAppointmentApproved:  "Appointment approved",
	model.NotificationAppointmentCompleted: "Appointment completed",
	model.NotificationDoctorApproved:       "Your profile has been approved",
}

func Subject(kind model.NotificationKind) string {
	if s, ok := subjects[kind]; ok {
		return s
	}
	return "Clinic notification"
}

func (s *MailSink) Emit(_ context.Context, e Event) error {
	if e.Email == "" {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", e.Email)
	m.SetHeader("Subject", Subject(e.Kind))
	m.SetBody("text/plain", e.Message)

	if err := s.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("mail: send to %s: %w", e.Email, err)
	}
	return nil
}
