// Package notify delivers restock events to the outbound notification
// channel (a Discord webhook).
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/merchwatch/merchwatch/internal/config"
	"github.com/merchwatch/merchwatch/internal/domain"
	"github.com/merchwatch/merchwatch/internal/logger"
)

const (
	// MaxEmbedsPerMessage is the channel's embed cap per message.
	MaxEmbedsPerMessage = 10
	// embedTitleMaxRunes is the channel's title length cap.
	embedTitleMaxRunes = 256

	colorRestock = 0xFF9800
	colorSummary = 0x4CAF50

	eventDateLayout = "2006-01-02"
)

// ErrDisabled is returned when no webhook URL is configured. The caller
// treats it like any delivery failure: flags stay untouched.
var ErrDisabled = errors.New("notification channel not configured")

// EmbedField is one labeled field inside an embed block.
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// Embed is one rich block of a webhook message.
type Embed struct {
	Title     string       `json:"title"`
	URL       string       `json:"url,omitempty"`
	Color     int          `json:"color"`
	Fields    []EmbedField `json:"fields,omitempty"`
	Timestamp string       `json:"timestamp,omitempty"`
}

// webhookPayload is the message body posted to the webhook.
type webhookPayload struct {
	Content string  `json:"content,omitempty"`
	Embeds  []Embed `json:"embeds"`
}

// DiscordChannel posts restock and summary messages to a Discord webhook.
// With no webhook URL configured the channel is inert and every send
// reports ErrDisabled.
type DiscordChannel struct {
	webhookURL string
	httpClient *http.Client
	log        logger.Interface
	now        func() time.Time
}

// NewDiscordChannel creates the outbound channel.
func NewDiscordChannel(cfg config.NotifierConfig, log logger.Interface) *DiscordChannel {
	return &DiscordChannel{
		webhookURL: cfg.WebhookURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log.WithComponent("discord"),
		now:        func() time.Time { return time.Now().In(domain.JST) },
	}
}

// Enabled reports whether an outbound channel is configured.
func (c *DiscordChannel) Enabled() bool { return c.webhookURL != "" }

// SendRestocks delivers one message carrying the given events, at most
// MaxEmbedsPerMessage of them.
func (c *DiscordChannel) SendRestocks(ctx context.Context, events []domain.RestockEvent) error {
	if !c.Enabled() {
		return ErrDisabled
	}
	if len(events) == 0 {
		return nil
	}
	if len(events) > MaxEmbedsPerMessage {
		events = events[:MaxEmbedsPerMessage]
	}

	embeds := make([]Embed, 0, len(events))
	for i := range events {
		embeds = append(embeds, restockEmbed(&events[i]))
	}

	payload := webhookPayload{
		Content: fmt.Sprintf("🔔 **ちいかわマーケット再入荷情報** (%d件)", len(events)),
		Embeds:  embeds,
	}

	return c.post(ctx, &payload)
}

// SendRunSummary delivers the per-run summary message.
func (c *DiscordChannel) SendRunSummary(ctx context.Context, inserted, restocks int) error {
	if !c.Enabled() {
		return ErrDisabled
	}

	payload := webhookPayload{
		Embeds: []Embed{{
			Title: "✅ ちいかわ情報収集完了",
			Color: colorSummary,
			Fields: []EmbedField{
				{Name: "📦 新規収集", Value: fmt.Sprintf("%d件", inserted), Inline: true},
				{Name: "🔔 再入荷検出", Value: fmt.Sprintf("%d件", restocks), Inline: true},
			},
			Timestamp: c.now().Format(time.RFC3339),
		}},
	}

	return c.post(ctx, &payload)
}

// restockEmbed renders one event as a titled block with the restock date
// and, if present, the previous date.
func restockEmbed(event *domain.RestockEvent) Embed {
	embed := Embed{
		Title: truncateRunes(event.ProductTitle, embedTitleMaxRunes),
		URL:   event.ProductURL,
		Color: colorRestock,
		Fields: []EmbedField{
			{Name: "📅 再入荷日", Value: formatEventDate(event.NewEventDate), Inline: true},
		},
		Timestamp: event.DetectedAt.Format(time.RFC3339),
	}

	if event.PreviousEventDate != nil {
		embed.Fields = append(embed.Fields, EmbedField{
			Name:   "📆 以前の発売日",
			Value:  formatEventDate(event.PreviousEventDate),
			Inline: true,
		})
	}

	return embed
}

// formatEventDate renders an optional date, marking absent ones as unknown.
func formatEventDate(date *time.Time) string {
	if date == nil {
		return "不明"
	}
	return date.Format(eventDateLayout)
}

// post sends the payload and treats any non-2xx response as failure.
func (c *DiscordChannel) post(ctx context.Context, payload *webhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, doErr := c.httpClient.Do(req)
	if doErr != nil {
		return fmt.Errorf("webhook post: %w", doErr)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("webhook unexpected status %d", resp.StatusCode)
	}

	return nil
}

// truncateRunes shortens s to at most n runes.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
