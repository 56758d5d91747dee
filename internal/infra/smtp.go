package infra

import (
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
	"github.com/rs/zerolog/log"
)

// Mailer envía correos de notificación. Con Host vacío queda deshabilitado y
// los envíos se registran sin salir a la red.
type Mailer struct {
	host string
	port int
	user string
	pass string
	from string
}

func NewMailer(host string, port int, user, pass, from string) *Mailer {
	return &Mailer{host: host, port: port, user: user, pass: pass, from: from}
}

func (m *Mailer) Habilitado() bool { return m.host != "" }

func (m *Mailer) Enviar(destino, asunto, cuerpo string) error {
	if !m.Habilitado() {
		log.Debug().Str("para", destino).Str("asunto", asunto).Msg("smtp deshabilitado, correo omitido")
		return nil
	}
	e := email.NewEmail()
	e.From = m.from
	e.To = []string{destino}
	e.Subject = asunto
	e.Text = []byte(cuerpo)

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.pass, m.host)
	}
	if err := e.Send(addr, auth); err != nil {
		return fmt.Errorf("enviar correo a %s: %w", destino, err)
	}
	return nil
}
