package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"plataforma/pkg/config"
)

// SMTPMailer delivers over SMTP with mandatory STARTTLS.
type SMTPMailer struct {
	cfg    config.EmailConfig
	logger zerolog.Logger
}

func NewSMTPMailer(cfg config.EmailConfig, logger zerolog.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, logger: logger}
}

func (s *SMTPMailer) Enviar(ctx context.Context, m Mensagem) error {
	if err := validarEndereco(m.Para); err != nil {
		return err
	}

	addr := net.JoinHostPort(s.cfg.SMTPHost, strconv.Itoa(s.cfg.SMTPPort))
	dialer := net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("conectar ao servidor SMTP: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, s.cfg.SMTPHost)
	if err != nil {
		conn.Close()
		return fmt.Errorf("iniciar sessão SMTP: %w", err)
	}
	defer func() { _ = client.Close() }()

	if err := client.StartTLS(&tls.Config{ServerName: s.cfg.SMTPHost, MinVersion: tls.VersionTLS12}); err != nil {
		return fmt.Errorf("STARTTLS: %w", err)
	}
	if s.cfg.SMTPUser != "" {
		if err := client.Auth(smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPassword, s.cfg.SMTPHost)); err != nil {
			return fmt.Errorf("autenticação SMTP: %w", err)
		}
	}
	if err := client.Mail(s.cfg.From); err != nil {
		return fmt.Errorf("remetente: %w", err)
	}
	if err := client.Rcpt(m.Para); err != nil {
		return fmt.Errorf("destinatário: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("abrir corpo: %w", err)
	}
	if _, err := w.Write(montarMensagem(s.cfg.From, m)); err != nil {
		return fmt.Errorf("escrever corpo: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalizar corpo: %w", err)
	}

	s.logger.Info().Str("to", m.Para).Msg("e-mail enviado via SMTP")
	return client.Quit()
}

func montarMensagem(from string, m Mensagem) []byte {
	contentType, body := "text/plain; charset=UTF-8", m.Texto
	if m.HTML != "" {
		contentType, body = "text/html; charset=UTF-8", m.HTML
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", m.Para)
	fmt.Fprintf(&msg, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", m.Assunto))
	msg.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: %s\r\n", contentType)
	msg.WriteString("\r\n")
	msg.WriteString(body)
	return msg.Bytes()
}
