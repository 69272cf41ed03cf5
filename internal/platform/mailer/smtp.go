package mailer

import (
	"bytes"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/floripafacil/backend/internal/domain"
)

type SMTPMailer struct {
	Host string
	Port int
	From string
	User string
	Pass string
}

func NewSMTPMailer(host string, port int, from, user, pass string) *SMTPMailer {
	return &SMTPMailer{
		Host: strings.TrimSpace(host),
		Port: port,
		From: strings.TrimSpace(from),
		User: strings.TrimSpace(user),
		Pass: strings.TrimSpace(pass),
	}
}

func (s *SMTPMailer) SendReservationReceived(res *domain.Reservation) error {
	subject := "Recibimos tu reserva - Floripa Fácil"
	text := fmt.Sprintf("Hola %s, recibimos tu reserva del paquete %s para el %s. Un asesor te va a contactar por WhatsApp.",
		res.CustomerName, res.PackageTitle, res.TravelDate.Format("02/01/2006"))
	html := fmt.Sprintf(`<p>Hola %s,</p><p>Recibimos tu reserva del paquete <b>%s</b> para el <b>%s</b>.</p>`,
		res.CustomerName, res.PackageTitle, res.TravelDate.Format("02/01/2006"))
	return s.sendEmail(res.CustomerEmail, subject, text, html)
}

func (s *SMTPMailer) SendReservationConfirmed(res *domain.Reservation) error {
	subject := "¡Reserva confirmada! - Floripa Fácil"
	text := fmt.Sprintf("Hola %s, tu reserva del paquete %s quedó confirmada para el %s.",
		res.CustomerName, res.PackageTitle, res.TravelDate.Format("02/01/2006"))
	html := fmt.Sprintf(`<p>Hola %s,</p><p>Tu reserva del paquete <b>%s</b> quedó <b>confirmada</b> para el <b>%s</b>.</p>`,
		res.CustomerName, res.PackageTitle, res.TravelDate.Format("02/01/2006"))
	return s.sendEmail(res.CustomerEmail, subject, text, html)
}

func (s *SMTPMailer) sendEmail(toEmail, subject, text, html string) error {
	toEmail = strings.TrimSpace(toEmail)
	if toEmail == "" {
		return fmt.Errorf("empty recipient email")
	}

	var buf bytes.Buffer
	boundary := "mixed-boundary"

	fmt.Fprintf(&buf, "From: %s\r\n", s.From)
	fmt.Fprintf(&buf, "To: %s\r\n", toEmail)
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", boundary)

	fmt.Fprintf(&buf, "--%s\r\n", boundary)
	fmt.Fprintf(&buf, "Content-Type: text/plain; charset=utf-8\r\n\r\n")
	fmt.Fprintf(&buf, "%s\r\n\r\n", text)

	fmt.Fprintf(&buf, "--%s\r\n", boundary)
	fmt.Fprintf(&buf, "Content-Type: text/html; charset=utf-8\r\n\r\n")
	fmt.Fprintf(&buf, "%s\r\n\r\n", html)

	fmt.Fprintf(&buf, "--%s--\r\n", boundary)

	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)

	// Mailpit or development SMTP (no auth)
	if s.User == "" {
		return smtp.SendMail(addr, nil, s.From, []string{toEmail}, buf.Bytes())
	}

	auth := smtp.PlainAuth("", s.User, s.Pass, s.Host)
	return smtp.SendMail(addr, auth, s.From, []string{toEmail}, buf.Bytes())
}
