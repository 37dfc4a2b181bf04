package smtp

import (
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/smtp"

	"github.com/magabrotheeeer/subscription-portal/internal/config"
	"github.com/magabrotheeeer/subscription-portal/internal/lib/sl"
)

// Transport подключается к SMTP-серверу из конфигурации.
// Сервер обязан поддерживать STARTTLS, иначе письма не уходят.
type Transport struct {
	cfg *config.Config
	log *slog.Logger
}

// NewTransport создает новый экземпляр Transport.
func NewTransport(cfg *config.Config, log *slog.Logger) *Transport {
	return &Transport{cfg: cfg, log: log}
}

// Connect открывает соединение, согласует STARTTLS и проходит аутентификацию.
func (t *Transport) Connect() (Client, error) {
	const op = "smtp.Connect"

	addr := net.JoinHostPort(t.cfg.SMTPHost, t.cfg.SMTPPort)
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%s: dial %s: %w", op, addr, err)
	}

	client, err := smtp.NewClient(conn, t.cfg.SMTPHost)
	if err != nil {
		t.closeQuietly(conn)
		return nil, fmt.Errorf("%s: handshake: %w", op, err)
	}

	if ok, _ := client.Extension("STARTTLS"); !ok {
		t.closeQuietly(client)
		return nil, fmt.Errorf("%s: server does not support STARTTLS", op)
	}
	tlsConfig := &tls.Config{
		ServerName: t.cfg.SMTPHost,
		MinVersion: tls.VersionTLS12,
	}
	if err = client.StartTLS(tlsConfig); err != nil {
		t.closeQuietly(client)
		return nil, fmt.Errorf("%s: starttls: %w", op, err)
	}

	auth := smtp.PlainAuth("", t.cfg.SMTPUser, t.cfg.SMTPPass, t.cfg.SMTPHost)
	if err = client.Auth(auth); err != nil {
		t.closeQuietly(client)
		return nil, fmt.Errorf("%s: auth: %w", op, err)
	}

	return &clientAdapter{client: client}, nil
}

// SenderAddress возвращает адрес отправителя, под которым уходят письма.
func (t *Transport) SenderAddress() string {
	return t.cfg.SMTPUser
}

func (t *Transport) closeQuietly(c io.Closer) {
	if err := c.Close(); err != nil {
		t.log.Error("failed to close smtp connection", sl.Err(err))
	}
}

// clientAdapter приводит *smtp.Client к интерфейсу Client.
type clientAdapter struct {
	client *smtp.Client
}

func (a *clientAdapter) Mail(from string) error        { return a.client.Mail(from) }
func (a *clientAdapter) Rcpt(to string) error          { return a.client.Rcpt(to) }
func (a *clientAdapter) Data() (io.WriteCloser, error) { return a.client.Data() }
func (a *clientAdapter) Quit() error                   { return a.client.Quit() }
func (a *clientAdapter) Close() error                  { return a.client.Close() }
