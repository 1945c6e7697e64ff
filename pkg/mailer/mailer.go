package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/minegocio/backend/config"
	"github.com/minegocio/backend/pkg/logger"
)

// Mailer sends account emails. Delivery is best-effort: callers log
// failures and carry on, a lost email never fails the request.
type Mailer interface {
	SendValidationCode(to, code string) error
	SendNewPassword(to, password string) error
}

type smtpMailer struct {
	cfg config.SMTPConfig
}

func New(cfg config.SMTPConfig) Mailer {
	return &smtpMailer{cfg: cfg}
}

// SendValidationCode emails the 6-digit registration code
func (m *smtpMailer) SendValidationCode(to, code string) error {
	subject := "[MiNegocio] Código de validación"
	body := fmt.Sprintf(`
<html>
<body style="font-family: Arial, sans-serif; padding: 20px; background-color: #f5f5f5;">
	<div style="max-width: 600px; margin: 0 auto; background-color: white; padding: 40px; border-radius: 10px;">
		<h1 style="color: #333; margin-bottom: 20px;">Valida tu cuenta</h1>
		<p style="color: #666; line-height: 1.6; margin-bottom: 30px;">
			Gracias por registrarte en MiNegocio.<br>
			Introduce el siguiente código en la aplicación para validar tu cuenta.
		</p>
		<div style="background-color: #f8f9fa; padding: 30px; border-radius: 8px; text-align: center; margin-bottom: 30px;">
			<h2 style="color: #333; margin: 0; font-size: 36px; letter-spacing: 4px;">%s</h2>
		</div>
		<p style="color: #999; font-size: 14px;">
			* Si no has solicitado este registro, ignora este correo.
		</p>
	</div>
</body>
</html>
`, code)

	return m.send(to, subject, body, "validation code")
}

// SendNewPassword emails a freshly generated password after a reset
func (m *smtpMailer) SendNewPassword(to, password string) error {
	subject := "[MiNegocio] Nueva contraseña"
	body := fmt.Sprintf(`
<html>
<body style="font-family: Arial, sans-serif; padding: 20px; background-color: #f5f5f5;">
	<div style="max-width: 600px; margin: 0 auto; background-color: white; padding: 40px; border-radius: 10px;">
		<h1 style="color: #333; margin-bottom: 20px;">Restablecimiento de contraseña</h1>
		<p style="color: #666; line-height: 1.6; margin-bottom: 30px;">
			Has solicitado restablecer tu contraseña de MiNegocio.<br>
			Tu nueva contraseña es:
		</p>
		<div style="background-color: #f8f9fa; padding: 30px; border-radius: 8px; text-align: center; margin-bottom: 30px;">
			<h2 style="color: #333; margin: 0; font-size: 28px; letter-spacing: 2px;">%s</h2>
		</div>
		<p style="color: #999; font-size: 14px; margin-bottom: 10px;">
			* Inicia sesión con esta contraseña y cámbiala desde tu perfil.
		</p>
		<p style="color: #999; font-size: 14px;">
			* Si no has solicitado este cambio, contacta con soporte.
		</p>
	</div>
</body>
</html>
`, password)

	return m.send(to, subject, body, "new password")
}

func (m *smtpMailer) send(to, subject, body, kind string) error {
	// Dev mode: without SMTP credentials, log instead of sending
	if m.cfg.From == "" || m.cfg.Password == "" {
		logger.Info("[DEV MODE] Email not sent, SMTP not configured", map[string]interface{}{
			"to":   to,
			"kind": kind,
		})
		return nil
	}

	message := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		m.cfg.From, to, subject, body,
	))

	auth := smtp.PlainAuth("", m.cfg.From, m.cfg.Password, m.cfg.Host)

	err := smtp.SendMail(
		m.cfg.Host+":"+m.cfg.Port,
		auth,
		m.cfg.From,
		[]string{to},
		message,
	)
	if err != nil {
		logger.Error("Failed to send email", err, map[string]interface{}{
			"to":   to,
			"kind": kind,
		})
		return fmt.Errorf("failed to send email: %w", err)
	}

	logger.Info("Email sent", map[string]interface{}{
		"to":   to,
		"kind": kind,
	})
	return nil
}
