// Package smtp оборачивает net/smtp для отправки служебных писем.
package smtp

import "io"

// Client покрывает команды SMTP-сессии, используемые при отправке письма.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// Mailer устанавливает соединение с SMTP-сервером и знает адрес отправителя.
type Mailer interface {
	Connect() (Client, error)
	SenderAddress() string
}
