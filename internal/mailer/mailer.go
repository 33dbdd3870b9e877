package mailer

import (
	"fmt"
	"log"
	"net/smtp"

	"github.com/zaqqye/pemira_backend/internal/config"
)

// Mailer delivers login codes to the derived student mailbox.
type Mailer interface {
	SendLoginCode(to, code string) error
}

// SMTPMailer sends through a plain SMTP relay.
type SMTPMailer struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

func (m *SMTPMailer) SendLoginCode(to, code string) error {
	body := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: Kode Verifikasi Pemira\r\n\r\n"+
			"Kode verifikasi Anda: %s\r\n\r\nKode berlaku sementara dan hanya dapat dipakai sekali.\r\n",
		m.From, to, code,
	)
	addr := m.Host + ":" + m.Port
	var auth smtp.Auth
	if m.Username != "" {
		auth = smtp.PlainAuth("", m.Username, m.Password, m.Host)
	}
	return smtp.SendMail(addr, auth, m.From, []string{to}, []byte(body))
}

// LogMailer writes codes to the process log. Used when SMTP is not
// configured (local development).
type LogMailer struct{}

func (LogMailer) SendLoginCode(to, code string) error {
	log.Printf("mailer: login code for %s: %s", to, code)
	return nil
}

func FromConfig(cfg *config.Config) Mailer {
	if cfg.SMTPHost == "" {
		return LogMailer{}
	}
	return &SMTPMailer{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	}
}
