package email

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/WeroML/back-bd-tattoo2/pkg/logger"
)

// Service sends operational mail. Only the low-stock alert exists today.
type Service interface {
	SendLowStockAlert(materialCode, materialName string, onHand, threshold string) error
}

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
	Enabled  bool
}

type smtpService struct {
	cfg    Config
	dialer *gomail.Dialer
	logger *logger.Logger
}

func NewService(cfg Config, l *logger.Logger) Service {
	return &smtpService{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		logger: l,
	}
}

func (s *smtpService) SendLowStockAlert(materialCode, materialName, onHand, threshold string) error {
	if !s.cfg.Enabled {
		s.logger.Debug("mail disabled, skipping low stock alert", "material", materialCode)
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", s.cfg.To)
	m.SetHeader("Subject", fmt.Sprintf("Low stock: %s (%s)", materialName, materialCode))
	m.SetBody("text/plain", fmt.Sprintf(
		"Material %s (%s) is down to %s, at or below the reorder threshold of %s.",
		materialName, materialCode, onHand, threshold,
	))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send low stock alert: %w", err)
	}
	return nil
}
