package service

import (
	"strings"

	"github.com/charmsmith/internal/config"
	"github.com/charmsmith/internal/logger"

	"github.com/wneessen/go-mail"
)

// EmailService 店主通知邮件服务
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// Enabled 邮件通知是否可用
func (s *EmailService) Enabled() bool {
	return s != nil && s.cfg != nil && s.cfg.Enabled &&
		strings.TrimSpace(s.cfg.Host) != "" && strings.TrimSpace(s.cfg.To) != ""
}

// SendOrderNotification 向店主发送新订单通知
func (s *EmailService) SendOrderNotification(subject, body string) error {
	if !s.Enabled() {
		logger.Debugw("email_notify_skip_disabled")
		return nil
	}

	msg := mail.NewMsg()
	from := strings.TrimSpace(s.cfg.From)
	if from == "" {
		from = s.cfg.Username
	}
	if s.cfg.FromName != "" {
		if err := msg.FromFormat(s.cfg.FromName, from); err != nil {
			return err
		}
	} else if err := msg.From(from); err != nil {
		return err
	}
	if err := msg.To(strings.TrimSpace(s.cfg.To)); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	options := []mail.Option{
		mail.WithPort(s.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.Username),
		mail.WithPassword(s.cfg.Password),
	}
	if s.cfg.UseTLS {
		options = append(options, mail.WithTLSPolicy(mail.TLSMandatory))
	} else {
		options = append(options, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}
	client, err := mail.NewClient(strings.TrimSpace(s.cfg.Host), options...)
	if err != nil {
		return err
	}
	return client.DialAndSend(msg)
}
