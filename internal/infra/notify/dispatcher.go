package notify

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/pythonpro/coaching-backend/internal/entity"
)

// Delivery statuses. "mock" means the channel's credentials are not
// configured and no network call was made; to the caller it is a success
// in every way except the tag.
const (
	StatusSent  = "sent"
	StatusMock  = "mock"
	StatusError = "error"
)

// DeliveryResult is the outcome of one dispatch. Channel failures are
// values, never errors: a broken provider must not disturb control flow.
type DeliveryResult struct {
	Channel string `json:"channel"`
	Status  string `json:"status"`
	Detail  string `json:"detail,omitempty"`
}

// ChannelError wraps a provider failure for logging and result details.
type ChannelError struct {
	Channel string
	Err     error
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("%s channel: %v", e.Channel, e.Err)
}

func (e *ChannelError) Unwrap() error { return e.Err }

// ChannelSender is one notification provider. Template names are logical
// ("welcome", "credentials", "confirmation"); each adapter maps them to its
// own wire format.
type ChannelSender interface {
	Name() string
	Configured() bool
	Send(ctx context.Context, target, template string, params map[string]string) error
}

// LogWriter appends to the communication log. Email and WhatsApp deliveries
// are logged; voice calls are not (the provider keeps its own records).
type LogWriter interface {
	Append(ctx context.Context, l *entity.CommunicationLog) error
}

// Dispatcher fans a notification out to exactly one channel per call. It
// never blocks on a store transaction and never returns an error: every
// outcome, including provider failures and timeouts, becomes a
// DeliveryResult.
type Dispatcher struct {
	channels map[string]ChannelSender
	logs     LogWriter
	timeout  time.Duration
}

func NewDispatcher(logs LogWriter, timeout time.Duration, channels ...ChannelSender) *Dispatcher {
	d := &Dispatcher{
		channels: make(map[string]ChannelSender, len(channels)),
		logs:     logs,
		timeout:  timeout,
	}
	for _, c := range channels {
		d.channels[c.Name()] = c
	}
	return d
}

// ChannelStatus reports which channels are configured, for health checks.
func (d *Dispatcher) ChannelStatus() map[string]bool {
	status := make(map[string]bool, len(d.channels))
	for name, c := range d.channels {
		status[name] = c.Configured()
	}
	return status
}

// Dispatch delivers template to target over the named channel. leadID may
// be 0 when the recipient has no lead record; logging is skipped then.
func (d *Dispatcher) Dispatch(ctx context.Context, channel string, leadID int64, target, template string, params map[string]string) DeliveryResult {
	sender, ok := d.channels[channel]
	if !ok {
		return DeliveryResult{Channel: channel, Status: StatusError, Detail: "unknown channel"}
	}

	if !sender.Configured() {
		res := DeliveryResult{Channel: channel, Status: StatusMock, Detail: "credentials not configured"}
		log.Printf("[NOTIFY] mock %s delivery of %q to %s", channel, template, target)
		d.appendLog(ctx, channel, leadID, target, template, StatusMock)
		return res
	}

	sendCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	if err := sender.Send(sendCtx, target, template, params); err != nil {
		cerr := &ChannelError{Channel: channel, Err: err}
		log.Printf("[NOTIFY] %v", cerr)
		d.appendLog(ctx, channel, leadID, target, template, "failed")
		return DeliveryResult{Channel: channel, Status: StatusError, Detail: cerr.Error()}
	}

	d.appendLog(ctx, channel, leadID, target, template, StatusSent)
	return DeliveryResult{Channel: channel, Status: StatusSent}
}

func (d *Dispatcher) appendLog(ctx context.Context, channel string, leadID int64, target, template, status string) {
	if d.logs == nil || leadID == 0 {
		return
	}
	// Voice calls are not logged here.
	if channel != entity.ChannelEmail && channel != entity.ChannelWhatsApp {
		return
	}
	entry := &entity.CommunicationLog{
		LeadID:    leadID,
		Channel:   channel,
		Status:    status,
		Content:   fmt.Sprintf("template=%s to=%s", template, target),
		Timestamp: time.Now().UTC(),
	}
	if err := d.logs.Append(ctx, entry); err != nil {
		log.Printf("[NOTIFY] communication log append failed: %v", err)
	}
}
