package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/arcbridge/venuearb/business/venue/app"
	"github.com/arcbridge/venuearb/internal/httpclient"
)

// TelegramSink posts formatted alerts to a Telegram bot's sendMessage
// endpoint. It holds no retry logic: a failed post is logged and dropped,
// since the alert gate upstream already rate-limits via cooldown.
type TelegramSink struct {
	client   httpclient.Client
	botToken string
	chatID   string
}

// NewTelegramSink builds a TelegramSink backed by an instrumented HTTP
// client with a 10s request timeout.
func NewTelegramSink(botToken, chatID string) (*TelegramSink, error) {
	client, err := httpclient.NewInstrumentedClient(
		httpclient.WithProviderName("telegram"),
		httpclient.WithRequestTimeout(10*time.Second),
	)
	if err != nil {
		return nil, err
	}
	return &TelegramSink{client: client, botToken: botToken, chatID: chatID}, nil
}

type telegramSendMessageRequest struct {
	ChatID             string `json:"chat_id"`
	Text               string `json:"text"`
	ParseMode          string `json:"parse_mode"`
	DisableNotification bool   `json:"disable_notification"`
}

// Send posts alert as a formatted message. Returns an error on transport
// or non-2xx failures; the caller (the worker) logs and drops it.
func (t *TelegramSink) Send(ctx context.Context, alert app.Dislocation) error {
	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", t.botToken)

	resp, err := t.client.NewRequest().
		SetBody(telegramSendMessageRequest{
			ChatID:              t.chatID,
			Text:                FormatAlert(alert),
			ParseMode:           "HTML",
			DisableNotification: false,
		}).
		Post(ctx, url)
	if err != nil {
		return fmt.Errorf("telegram post failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("telegram post returned %d: %s", resp.StatusCode, resp.String())
	}
	return nil
}

// FormatAlert renders a human-readable operator message for alert.
func FormatAlert(alert app.Dislocation) string {
	return fmt.Sprintf(
		"Dislocation on %s\n%s mid=%s\n%s mid=%s\ndiff=%s%%",
		alert.Instrument,
		alert.VenueA, alert.MidA,
		alert.VenueB, alert.MidB,
		alert.DiffPct,
	)
}
