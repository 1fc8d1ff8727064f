package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/saeid-a/CoachOps/internal/metrics"
	"gopkg.in/gomail.v2"
)

// UnassignedClientNotice tells admins a client finished onboarding without a coach.
type UnassignedClientNotice struct {
	SubscriptionID uuid.UUID
	ClientID       uuid.UUID
	PlanType       string
	Goals          []string
	Reason         string
}

type Notifier interface {
	NotifyUnassignedClient(ctx context.Context, notice UnassignedClientNotice) error
}

var ErrNotificationQueueFull = errors.New("notification queue full")

const defaultNotificationQueueSize = 64

type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	From      string
	AdminTo   string
	QueueSize int
}

type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPNotifier queues admin emails and delivers them from Run, so a slow or
// unreachable mail server never holds up the request that raised the notice.
type SMTPNotifier struct {
	config SMTPConfig
	sender mailSender
	queue  chan *gomail.Message
	logger *slog.Logger
}

func NewSMTPNotifier(config SMTPConfig, logger *slog.Logger) *SMTPNotifier {
	return newSMTPNotifier(config, gomail.NewDialer(config.Host, config.Port, config.Username, config.Password), logger)
}

func newSMTPNotifier(config SMTPConfig, sender mailSender, logger *slog.Logger) *SMTPNotifier {
	size := config.QueueSize
	if size <= 0 {
		size = defaultNotificationQueueSize
	}
	return &SMTPNotifier{
		config: config,
		sender: sender,
		queue:  make(chan *gomail.Message, size),
		logger: logger.With("component", "notify"),
	}
}

// NotifyUnassignedClient enqueues the email and returns without waiting for
// delivery. It fails only when the queue is full.
func (n *SMTPNotifier) NotifyUnassignedClient(ctx context.Context, notice UnassignedClientNotice) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.config.From)
	m.SetHeader("To", n.config.AdminTo)
	m.SetHeader("Subject", "Client needs manual coach assignment")
	m.SetBody("text/plain", unassignedClientBody(notice))

	select {
	case n.queue <- m:
		return nil
	default:
		metrics.ObserveNotification("dropped")
		return fmt.Errorf("%w: subscription %s", ErrNotificationQueueFull, notice.SubscriptionID)
	}
}

// Run delivers queued emails until ctx is cancelled.
func (n *SMTPNotifier) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case m := <-n.queue:
			if err := n.sender.DialAndSend(m); err != nil {
				metrics.ObserveNotification("failed")
				n.logger.Error("failed to send email", "to", n.config.AdminTo, "error", err)
				continue
			}
			metrics.ObserveNotification("sent")
		}
	}
}

func unassignedClientBody(notice UnassignedClientNotice) string {
	goals := "none"
	if len(notice.Goals) > 0 {
		goals = strings.Join(notice.Goals, ", ")
	}
	return fmt.Sprintf(`A client completed onboarding but no coach could be assigned automatically.

Subscription: %s
Client: %s
Plan type: %s
Goals: %s
Reason: %s

Assign a coach from the admin back office.
`, notice.SubscriptionID, notice.ClientID, notice.PlanType, goals, notice.Reason)
}

// LogNotifier is used when SMTP is not configured.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("component", "notify")}
}

func (n *LogNotifier) NotifyUnassignedClient(_ context.Context, notice UnassignedClientNotice) error {
	n.logger.Warn("client needs manual coach assignment",
		"subscription_id", notice.SubscriptionID,
		"client_id", notice.ClientID,
		"plan_type", notice.PlanType,
		"reason", notice.Reason,
	)
	metrics.ObserveNotification("skipped")
	return nil
}
