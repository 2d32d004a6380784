package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/catcheck/catcheck/internal/config"
	"github.com/catcheck/catcheck/internal/suite"
)

// Sender delivers a run summary via a specific channel type.
type Sender interface {
	Type() string
	Send(ctx context.Context, channel *config.NotifyChannel, payload *Payload) error
}

// Payload is the structured summary posted to notification channels.
type Payload struct {
	Event   string        `json:"event"`
	Summary suite.Summary `json:"summary"`
}

// Dispatcher fans a run summary out to every enabled channel. Delivery
// failures are logged and contained; they never affect the run outcome.
type Dispatcher struct {
	senders map[string]Sender
	logger  *slog.Logger
}

func NewDispatcher(logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	d := &Dispatcher{
		senders: make(map[string]Sender),
		logger:  logger,
	}
	d.RegisterSender(&WebhookSender{})
	d.RegisterSender(&SlackSender{})
	return d
}

// RegisterSender adds a sender for a channel type.
func (d *Dispatcher) RegisterSender(s Sender) {
	d.senders[s.Type()] = s
}

// Notify posts the summary to all enabled channels, one at a time with a
// bounded delivery window per channel.
func (d *Dispatcher) Notify(ctx context.Context, channels []config.NotifyChannel, sum suite.Summary) {
	payload := &Payload{Event: "run.completed", Summary: sum}

	for i := range channels {
		ch := &channels[i]
		if !ch.IsEnabled() {
			continue
		}
		sender, ok := d.senders[ch.Type]
		if !ok {
			d.logger.Warn("no sender for channel type", "channel", ch.Name, "type", ch.Type)
			continue
		}

		sendCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err := sender.Send(sendCtx, ch, payload)
		cancel()
		if err != nil {
			d.logger.Error("notification send failed",
				"channel", ch.Name, "type", ch.Type, "error", err)
			continue
		}
		d.logger.Info("notification sent", "channel", ch.Name, "type", ch.Type)
	}
}

// FormatMessage renders the one-line human summary used by chat senders.
func FormatMessage(p *Payload) string {
	s := p.Summary
	msg := fmt.Sprintf("[catcheck] run %s: %d/%d passed, %d failed, %d skipped in %s",
		s.RunID, s.Passed, s.Total, s.Failed, s.Skipped,
		time.Duration(s.DurationMS)*time.Millisecond)
	if len(s.Failing) > 0 {
		msg += "; failing: " + strings.Join(s.Failing, ", ")
	}
	return msg
}
