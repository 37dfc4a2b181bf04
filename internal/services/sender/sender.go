// Package services содержит отправку email-уведомлений о событиях аккаунтов.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	smtplib "github.com/magabrotheeeer/subscription-portal/internal/lib/smtp"
	"github.com/magabrotheeeer/subscription-portal/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-portal/internal/models"
)

// SenderService читает события из очередей и отправляет письма
// на служебный адрес уведомлений.
type SenderService struct {
	transport   smtplib.Mailer
	notifyEmail string
	log         *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(notifyEmail string, log *slog.Logger, transport smtplib.Mailer) *SenderService {
	return &SenderService{
		transport:   transport,
		notifyEmail: notifyEmail,
		log:         log,
	}
}

// SendInfoRegisteredUser уведомляет о регистрации нового пользователя.
func (s *SenderService) SendInfoRegisteredUser(body []byte) error {
	var message models.AccountEvent
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("Failed to unmarshal message body", "error", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	to := []string{s.notifyEmail}
	subject := "Новая регистрация на Subscription Portal"
	bodyText := fmt.Sprintf("Зарегистрирован новый пользователь: %s.\n\nВремя события: %s.",
		message.Username, message.OccurredAt.Format("2006-01-02 15:04:05"))

	return s.sendEmail(to, subject, bodyText)
}

// SendInfoPurchasedSubscription уведомляет о покупке подписки.
func (s *SenderService) SendInfoPurchasedSubscription(body []byte) error {
	var message models.AccountEvent
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("Failed to unmarshal message body", "error", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	to := []string{s.notifyEmail}
	subject := "Покупка подписки на Subscription Portal"
	var bodyText string
	if message.Expiry == "" {
		bodyText = fmt.Sprintf("Пользователь %s приобрел бессрочную подписку (тариф %s).",
			message.Username, message.PlanCode)
	} else {
		bodyText = fmt.Sprintf("Пользователь %s приобрел подписку (тариф %s), действует до %s.",
			message.Username, message.PlanCode, message.Expiry)
	}

	return s.sendEmail(to, subject, bodyText)
}

// SendInfoExpiringSubscription уведомляет об истекающей сегодня подписке.
func (s *SenderService) SendInfoExpiringSubscription(body []byte) error {
	var message models.AccountEvent
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("Failed to unmarshal message body", "error", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	to := []string{s.notifyEmail}
	subject := "Подписка пользователя истекает сегодня"
	bodyText := fmt.Sprintf("Подписка пользователя %s истекает %s.\n\nДоступ к загрузкам будет закрыт.",
		message.Username, message.Expiry)

	return s.sendEmail(to, subject, bodyText)
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.SenderAddress(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("Failed to connect to SMTP server", "error", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(s.transport.SenderAddress()); err != nil {
		s.log.Error("Failed to set MAIL FROM", "from", s.transport.SenderAddress(), "error", sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("Failed to set RCPT TO", "recipient", addr, "error", sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("Failed to get Data writer", "error", sl.Err(err))
		return err
	}

	_, err = wc.Write([]byte(msg))
	if err != nil {
		s.log.Error("Failed to write email body", "error", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("Failed to close Data writer", "error", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("Failed to quit SMTP client", "error", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", "to", to)
	return nil
}
