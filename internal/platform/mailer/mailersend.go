package mailer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mailersend/mailersend-go"

	"github.com/floripafacil/backend/internal/domain"
)

type MailerSend struct {
	client  *mailersend.Mailersend
	from    mailersend.From
	Enabled bool
}

func NewMailerSend(apiKey, fromName, fromEmail string) *MailerSend {
	m := &MailerSend{
		Enabled: apiKey != "" && fromEmail != "",
		from: mailersend.From{
			Name:  fromName,
			Email: fromEmail,
		},
	}
	if m.Enabled {
		m.client = mailersend.NewMailersend(apiKey)
	}
	return m
}

func (m *MailerSend) SendReservationReceived(res *domain.Reservation) error {
	subject := "Recibimos tu reserva - Floripa Fácil"
	text := fmt.Sprintf("Hola %s, recibimos tu reserva del paquete %s para el %s. Un asesor te va a contactar por WhatsApp para coordinar el pago.",
		res.CustomerName, res.PackageTitle, res.TravelDate.Format("02/01/2006"))
	html := fmt.Sprintf(`<p>Hola %s,</p><p>Recibimos tu reserva del paquete <b>%s</b> para el <b>%s</b> (%d pasajeros).</p><p>Un asesor te va a contactar por WhatsApp para coordinar el pago.</p><p>Viajá tranquilo, nosotros nos ocupamos.</p>`,
		res.CustomerName, res.PackageTitle, res.TravelDate.Format("02/01/2006"), res.Pax)
	return m.send(res.CustomerEmail, res.CustomerName, subject, text, html)
}

func (m *MailerSend) SendReservationConfirmed(res *domain.Reservation) error {
	subject := "¡Reserva confirmada! - Floripa Fácil"
	text := fmt.Sprintf("Hola %s, tu reserva del paquete %s quedó confirmada para el %s. ¡Nos vemos en Brasil!",
		res.CustomerName, res.PackageTitle, res.TravelDate.Format("02/01/2006"))
	html := fmt.Sprintf(`<p>Hola %s,</p><p>Tu reserva del paquete <b>%s</b> quedó <b>confirmada</b> para el <b>%s</b>.</p><p>¡Nos vemos en Brasil!</p>`,
		res.CustomerName, res.PackageTitle, res.TravelDate.Format("02/01/2006"))
	return m.send(res.CustomerEmail, res.CustomerName, subject, text, html)
}

func (m *MailerSend) send(toEmail, toName, subject, text, html string) error {
	if !m.Enabled {
		return errors.New("mailer disabled (missing MAILERSEND_API_KEY or MAIL_FROM)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	msg := m.client.Email.NewMessage()
	msg.SetFrom(m.from)
	msg.SetRecipients([]mailersend.Recipient{{Name: toName, Email: toEmail}})
	msg.SetSubject(subject)
	if strings.TrimSpace(text) != "" {
		msg.SetText(text)
	}
	if strings.TrimSpace(html) != "" {
		msg.SetHTML(html)
	}

	res, err := m.client.Email.Send(ctx, msg)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("mailersend error: status=%d body=%s", res.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
