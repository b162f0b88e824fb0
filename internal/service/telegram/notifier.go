// Package telegram sends trend alerts through the Telegram Bot API.
package telegram

import (
	"context"
	"fmt"
	"sync"
	"time"

	"TrendPull/internal/domain/repository"
	xhttp "TrendPull/pkg/http"
	"TrendPull/pkg/logger"
)

const defaultBaseURL = "https://api.telegram.org"

// Notifier delivers alert messages to a Telegram chat. Deliveries are rate
// limited by a per-process cooldown so a flapping market cannot flood the
// chat.
type Notifier struct {
	http     *xhttp.Client
	log      *logger.Logger
	metrics  repository.Metrics
	baseURL  string
	botToken string
	chatID   string
	cooldown time.Duration
	now      func() time.Time

	mu       sync.Mutex
	lastSent time.Time
}

type Option func(*Notifier)

// WithBaseURL overrides the Telegram API host, for tests.
func WithBaseURL(u string) Option {
	return func(n *Notifier) { n.baseURL = u }
}

// WithNow overrides the clock, for tests.
func WithNow(now func() time.Time) Option {
	return func(n *Notifier) { n.now = now }
}

// WithCooldown overrides the minimum interval between deliveries.
func WithCooldown(d time.Duration) Option {
	return func(n *Notifier) { n.cooldown = d }
}

// NewNotifier creates a Notifier. With empty credentials it becomes a no-op
// that only logs, so the monitor can run without a configured bot.
func NewNotifier(http *xhttp.Client, log *logger.Logger, metrics repository.Metrics, botToken, chatID string, opts ...Option) *Notifier {
	n := &Notifier{
		http:     http,
		log:      log,
		metrics:  metrics,
		baseURL:  defaultBaseURL,
		botToken: botToken,
		chatID:   chatID,
		cooldown: 10 * time.Minute,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// Notify sends text to the configured chat, unless disabled or inside the
// cooldown window. Skips are not errors. The cooldown only advances on a
// successful delivery, so a failed send does not suppress the retry on the
// next flip.
func (n *Notifier) Notify(ctx context.Context, text string) error {
	if n.botToken == "" || n.chatID == "" {
		n.log.Debug("telegram disabled, alert not sent", logger.String("text", text))
		n.metrics.RecordNotification("skipped")
		return nil
	}

	n.mu.Lock()
	since := n.now().Sub(n.lastSent)
	if !n.lastSent.IsZero() && since < n.cooldown {
		n.mu.Unlock()
		n.log.Info("telegram alert suppressed by cooldown",
			logger.Duration("since_last", since),
			logger.Duration("cooldown", n.cooldown),
		)
		n.metrics.RecordNotification("skipped")
		return nil
	}
	n.mu.Unlock()

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.botToken)
	err := n.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    url,
		Body: sendMessageRequest{
			ChatID:    n.chatID,
			Text:      text,
			ParseMode: "HTML",
		},
	}, nil)
	if err != nil {
		n.metrics.RecordNotification("error")
		return fmt.Errorf("telegram send: %w", err)
	}

	n.mu.Lock()
	n.lastSent = n.now()
	n.mu.Unlock()

	n.log.Info("telegram alert sent", logger.String("text", text))
	n.metrics.RecordNotification("sent")
	return nil
}
