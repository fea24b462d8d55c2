package notify

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/merchwatch/merchwatch/internal/domain"
	"github.com/merchwatch/merchwatch/internal/logger"
)

// EventStore provides the pending-event queue the notifier drains.
type EventStore interface {
	ListUnnotified(ctx context.Context) ([]domain.RestockEvent, error)
	MarkNotified(ctx context.Context, ids []uuid.UUID) error
}

// Channel is the outbound side of the notifier.
type Channel interface {
	Enabled() bool
	SendRestocks(ctx context.Context, events []domain.RestockEvent) error
	SendRunSummary(ctx context.Context, inserted, restocks int) error
}

// Notifier drains pending restock events to the outbound channel.
// Events are flagged as notified only after the channel accepts them, so
// a failed delivery is retried on the next run.
type Notifier struct {
	store   EventStore
	channel Channel
	log     logger.Interface
}

func NewNotifier(store EventStore, channel Channel, log logger.Interface) *Notifier {
	return &Notifier{
		store:   store,
		channel: channel,
		log:     log.WithComponent("notifier"),
	}
}

// Drain delivers pending events oldest first and reports how many were
// flagged as notified. At most one message is sent per call; events past
// the embed cap stay pending for the next run.
func (n *Notifier) Drain(ctx context.Context) (int, error) {
	if !n.channel.Enabled() {
		n.log.Debug("notification channel disabled, leaving events pending")
		return 0, nil
	}

	pending, err := n.store.ListUnnotified(ctx)
	if err != nil {
		return 0, fmt.Errorf("list unnotified events: %w", err)
	}
	if len(pending) == 0 {
		return 0, nil
	}

	batch := pending
	if len(batch) > MaxEmbedsPerMessage {
		batch = batch[:MaxEmbedsPerMessage]
	}

	if err := n.channel.SendRestocks(ctx, batch); err != nil {
		return 0, fmt.Errorf("send restock notification: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(batch))
	for i := range batch {
		ids = append(ids, batch[i].ID)
	}
	if err := n.store.MarkNotified(ctx, ids); err != nil {
		// Delivered but not flagged: the next run may notify again. Surface
		// the error so the operator sees it.
		return 0, fmt.Errorf("mark events notified: %w", err)
	}

	n.log.Info("delivered restock notifications",
		"delivered", len(batch),
		"remaining", len(pending)-len(batch))

	return len(batch), nil
}

// Summary sends the per-run result message when the channel is enabled.
func (n *Notifier) Summary(ctx context.Context, inserted, restocks int) error {
	if !n.channel.Enabled() {
		return nil
	}
	return n.channel.SendRunSummary(ctx, inserted, restocks)
}
