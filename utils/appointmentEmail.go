package utils

import (
	"Prescripto/config"
	"log"

	"gopkg.in/gomail.v2"
)

// Mailer sends appointment notifications over SMTP. A nil Mailer is valid
// and sends nothing, so unconfigured deployments keep working.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewMailer(cfg *config.AppConfig) *Mailer {
	if !cfg.MailConfigured() {
		log.Println("SMTP not configured, appointment mail disabled")
		return nil
	}
	return &Mailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass),
		from:   cfg.SMTPUser,
	}
}

func (m *Mailer) BookingConfirmed(to, patientName, doctorName, slotDate, slotTime string) {
	m.send(to, "Appointment Booked",
		"Hi "+patientName+",\n\nYour appointment with "+doctorName+" is confirmed for "+
			FormatSlotDate(slotDate)+" at "+slotTime+".\n")
}

func (m *Mailer) BookingCancelled(to, patientName, doctorName, slotDate, slotTime string) {
	m.send(to, "Appointment Cancelled",
		"Hi "+patientName+",\n\nYour appointment with "+doctorName+" on "+
			FormatSlotDate(slotDate)+" at "+slotTime+" has been cancelled.\n")
}

// send delivers in the background; a failed notification never fails the
// request that triggered it.
func (m *Mailer) send(to, subject, body string) {
	if m == nil {
		return
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	go func() {
		if err := m.dialer.DialAndSend(msg); err != nil {
			log.Printf("Failed to send %q mail to %s: %v", subject, to, err)
		}
	}()
}
